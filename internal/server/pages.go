package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/blob"
	"github.com/goliatone/go-intake/internal/store"
	"github.com/goliatone/go-intake/pkg/brand"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/schema"
)

const gateCookiePrefix = "intake_auth_"

// formPage serves the client form. Unknown tokens get plain 404 text so the
// page reveals nothing; submitted intakes bounce to the confirmation page.
func (s *Server) formPage(c *gin.Context) {
	record, err := s.records.ByToken(c.Request.Context(), c.Param("token"))
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		s.failPage(c, "load record", err)
		return
	}
	if record.Expired(s.now()) {
		c.String(http.StatusGone, "This form link has expired")
		return
	}

	pageBrand := brand.ForHost(c.Request.Host)

	if record.Status == store.StatusSubmitted || record.Status == store.StatusImported {
		c.Redirect(http.StatusFound, "/"+record.Token+"/thanks")
		return
	}

	if record.PasswordHash != nil && !s.gatePassed(c, record) {
		s.renderGate(c, record.Token, pageBrand, false)
		return
	}

	definition, err := s.loadDefinition(c, record.Token)
	if err != nil {
		s.failPage(c, "load definition", err)
		return
	}

	// Prefill from a saved partial response so a client resuming on another
	// device does not start blank.
	values := s.loadResponseValues(c, record.Token)

	if record.Status == store.StatusDraft {
		if err := s.records.UpdateStatus(c.Request.Context(), record.ID, store.StatusSent); err != nil {
			s.logger.Warn("mark sent", zap.String("token", record.Token), zap.Error(err))
		}
	}

	page, err := s.renderer.RenderForm(c.Request.Context(), render.FormPage{
		Token:      record.Token,
		Definition: definition,
		Brand:      pageBrand,
		Values:     values,
	})
	if err != nil {
		s.failPage(c, "render form", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// verifyPassword handles the gate form. A wrong password re-renders the gate
// with the error banner; a right one sets the gate cookie and redirects back.
func (s *Server) verifyPassword(c *gin.Context) {
	record, err := s.records.ByToken(c.Request.Context(), c.Param("token"))
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		s.failPage(c, "load record", err)
		return
	}
	if record.Expired(s.now()) {
		c.String(http.StatusGone, "This form link has expired")
		return
	}
	if record.PasswordHash == nil {
		c.Redirect(http.StatusFound, "/"+record.Token)
		return
	}

	pageBrand := brand.ForHost(c.Request.Host)
	if !checkPassword(c.PostForm("password"), *record.PasswordHash) {
		s.renderGate(c, record.Token, pageBrand, true)
		return
	}

	c.SetCookie(gateCookiePrefix+record.Token,
		gateVerifier(record.Token, *record.PasswordHash),
		int(record.ExpiresAt.Sub(s.now()).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/"+record.Token)
}

func (s *Server) thanksPage(c *gin.Context) {
	record, err := s.records.ByToken(c.Request.Context(), c.Param("token"))
	if errors.Is(err, store.ErrNotFound) {
		c.String(http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		s.failPage(c, "load record", err)
		return
	}

	page, err := s.renderer.RenderThanks(c.Request.Context(), render.ThanksPage{
		ProjectName: record.ProjectName,
		Brand:       brand.ForHost(c.Request.Host),
	})
	if err != nil {
		s.failPage(c, "render thanks", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) gatePassed(c *gin.Context, record store.IntakeRecord) bool {
	cookie, err := c.Cookie(gateCookiePrefix + record.Token)
	if err != nil {
		return false
	}
	return verifierMatches(cookie, gateVerifier(record.Token, *record.PasswordHash))
}

func (s *Server) renderGate(c *gin.Context, token string, pageBrand brand.Brand, withError bool) {
	page, err := s.renderer.RenderPasswordGate(c.Request.Context(), render.GatePage{
		Token: token,
		Brand: pageBrand,
		Error: withError,
	})
	if err != nil {
		s.failPage(c, "render gate", err)
		return
	}
	status := http.StatusOK
	if withError {
		status = http.StatusUnauthorized
	}
	c.Data(status, "text/html; charset=utf-8", page)
}

func (s *Server) loadDefinition(c *gin.Context, token string) (schema.FormDefinition, error) {
	content, err := s.blobs.Get(c.Request.Context(), blob.DefinitionKey(token))
	if err != nil {
		return schema.FormDefinition{}, err
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		return schema.FormDefinition{}, err
	}
	return schema.Parse(data)
}

// loadResponseValues decodes a stored partial response into renderer value
// overrides. Missing or unreadable responses just mean no prefill.
func (s *Server) loadResponseValues(c *gin.Context, token string) map[string]any {
	content, err := s.blobs.Get(c.Request.Context(), blob.ResponseKey(token))
	if err != nil {
		return nil
	}
	defer content.Close()

	var payload map[string]any
	if err := json.NewDecoder(content).Decode(&payload); err != nil {
		return nil
	}
	delete(payload, "_uploaded_files")
	return payload
}

func (s *Server) failPage(c *gin.Context, what string, err error) {
	s.logger.Error(what, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, "Something went wrong")
}
