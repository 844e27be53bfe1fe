package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/blob"
	"github.com/goliatone/go-intake/internal/store"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/token"
)

type createIntakeRequest struct {
	ProjectName    string          `json:"project_name" binding:"required"`
	Workflow       store.Workflow  `json:"workflow"`
	Mode           store.Mode      `json:"mode"`
	FormDefinition json.RawMessage `json:"form_definition"`
	Password       string          `json:"password"`
	ExpiresInDays  int             `json:"expires_in_days"`
}

func (s *Server) createIntake(c *gin.Context) {
	var req createIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.FormDefinition) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "form_definition is required"})
		return
	}
	definition, err := schema.Parse(req.FormDefinition)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Workflow == "" {
		req.Workflow = store.WorkflowNewSite
	}
	if !req.Workflow.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown workflow"})
		return
	}
	if req.Mode == "" {
		req.Mode = store.ModeFull
	}
	if !req.Mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode"})
		return
	}

	expiry := defaultExpiry
	if req.ExpiresInDays > 0 {
		expiry = time.Duration(req.ExpiresInDays) * 24 * time.Hour
	}

	formToken, err := token.New()
	if err != nil {
		s.fail(c, "generate token", err)
		return
	}

	record := store.IntakeRecord{
		Token:       formToken,
		ProjectName: req.ProjectName,
		Workflow:    req.Workflow,
		Mode:        req.Mode,
		Status:      store.StatusDraft,
		ExpiresAt:   s.now().Add(expiry),
	}
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			s.fail(c, "hash password", err)
			return
		}
		record.PasswordHash = &hash
	}

	// Persist the normalized definition, not the raw payload, so every
	// reader sees canonical field names.
	canonical, err := json.Marshal(definition)
	if err != nil {
		s.fail(c, "encode definition", err)
		return
	}
	if err := s.blobs.Put(c.Request.Context(), blob.DefinitionKey(record.Token),
		bytes.NewReader(canonical), "application/json"); err != nil {
		s.fail(c, "store definition", err)
		return
	}
	if err := s.records.Create(c.Request.Context(), &record); err != nil {
		s.fail(c, "create record", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         record.ID,
		"token":      record.Token,
		"url":        s.formURL(record.Token),
		"expires_at": record.ExpiresAt,
	})
}

func (s *Server) getIntake(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}

	body := gin.H{
		"id":           record.ID,
		"token":        record.Token,
		"project_name": record.ProjectName,
		"workflow":     record.Workflow,
		"mode":         record.Mode,
		"status":       record.Status,
		"has_password": record.PasswordHash != nil,
		"created_at":   record.CreatedAt,
		"expires_at":   record.ExpiresAt,
	}
	if record.SubmittedAt != nil {
		body["submitted_at"] = record.SubmittedAt
	}
	if response, err := s.readJSONBlob(c, blob.ResponseKey(record.Token)); err == nil {
		body["response"] = response
	}

	c.JSON(http.StatusOK, body)
}

func (s *Server) getDefinition(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}
	s.streamBlob(c, blob.DefinitionKey(record.Token), "application/json")
}

func (s *Server) getResponse(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}
	s.streamBlob(c, blob.ResponseKey(record.Token), "application/json")
}

type putResponseRequest struct {
	SubmittedData map[string]any `json:"submitted_data" binding:"required"`
	Partial       bool           `json:"partial"`
}

func (s *Server) putResponse(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}

	var req putResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(req.SubmittedData)
	if err != nil {
		s.fail(c, "encode response", err)
		return
	}
	if err := s.blobs.Put(c.Request.Context(), blob.ResponseKey(record.Token),
		bytes.NewReader(payload), "application/json"); err != nil {
		s.fail(c, "store response", err)
		return
	}

	if req.Partial {
		if err := s.records.Touch(c.Request.Context(), record.ID); err != nil {
			s.fail(c, "touch record", err)
			return
		}
	} else {
		if err := s.records.MarkSubmitted(c.Request.Context(), record.ID, s.now()); err != nil {
			s.fail(c, "mark submitted", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "partial": req.Partial})
}

type patchStatusRequest struct {
	Status store.Status `json:"status" binding:"required"`
}

func (s *Server) patchStatus(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}

	var req patchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := s.records.UpdateStatus(c.Request.Context(), record.ID, req.Status); err != nil {
		s.fail(c, "update status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (s *Server) uploadFile(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds 10 MB limit"})
		return
	}

	category := store.FileCategory(c.PostForm("category")).Normalize()
	filename := blob.SafeFilename(header.Filename)
	key := blob.UploadKey(record.Token, string(category), filename, s.now())

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.blobs.Put(c.Request.Context(), key, file, contentType); err != nil {
		s.fail(c, "store upload", err)
		return
	}

	fileRecord := store.IntakeFile{
		IntakeID:     record.ID,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     contentType,
		SizeBytes:    header.Size,
		BlobKey:      key,
		Category:     category,
	}
	if err := s.records.CreateFile(c.Request.Context(), &fileRecord); err != nil {
		s.fail(c, "record upload", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         fileRecord.ID,
		"filename":   fileRecord.Filename,
		"category":   fileRecord.Category,
		"size_bytes": fileRecord.SizeBytes,
	})
}

func (s *Server) listFiles(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}

	files, err := s.records.FilesByIntake(c.Request.Context(), record.ID)
	if err != nil {
		s.fail(c, "list files", err)
		return
	}

	out := make([]gin.H, 0, len(files))
	for _, f := range files {
		out = append(out, gin.H{
			"id":            f.ID,
			"filename":      f.Filename,
			"original_name": f.OriginalName,
			"mime_type":     f.MimeType,
			"size_bytes":    f.SizeBytes,
			"category":      f.Category,
			"created_at":    f.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getFile(c *gin.Context) {
	record, ok := s.loadLive(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	file, err := s.records.FileByID(c.Request.Context(), record.ID, fileID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if err != nil {
		s.fail(c, "load file", err)
		return
	}

	content, err := s.blobs.Get(c.Request.Context(), file.BlobKey)
	if errors.Is(err, blob.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if err != nil {
		s.fail(c, "read file", err)
		return
	}
	defer content.Close()

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Content-Type", file.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, content); err != nil {
		s.logger.Error("stream file", zap.String("key", file.BlobKey), zap.Error(err))
	}
}

// loadLive resolves :token to a record, answering 404 for unknown and 410
// for expired tokens.
func (s *Server) loadLive(c *gin.Context) (store.IntakeRecord, bool) {
	record, err := s.records.ByToken(c.Request.Context(), c.Param("token"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "intake not found"})
		return store.IntakeRecord{}, false
	}
	if err != nil {
		s.fail(c, "load record", err)
		return store.IntakeRecord{}, false
	}
	if record.Expired(s.now()) {
		c.JSON(http.StatusGone, gin.H{"error": "intake expired"})
		return store.IntakeRecord{}, false
	}
	return record, true
}

func (s *Server) streamBlob(c *gin.Context, key, contentType string) {
	content, err := s.blobs.Get(c.Request.Context(), key)
	if errors.Is(err, blob.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		s.fail(c, "read blob", err)
		return
	}
	defer content.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, content); err != nil {
		s.logger.Error("stream blob", zap.String("key", key), zap.Error(err))
	}
}

func (s *Server) readJSONBlob(c *gin.Context, key string) (json.RawMessage, error) {
	content, err := s.blobs.Get(c.Request.Context(), key)
	if err != nil {
		return nil, err
	}
	defer content.Close()
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (s *Server) formURL(tok string) string {
	base := strings.TrimRight(s.publicBaseURL, "/")
	return base + "/" + tok
}

// fail logs an internal error and answers 500 without leaking details.
func (s *Server) fail(c *gin.Context, what string, err error) {
	s.logger.Error(what, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
