// Package server is the HTTP surface of the intake service: a bearer-key
// protected agent API for managing intakes, and the public client pages the
// form links resolve to. Handlers are stateless; every request reads and
// writes through the record store and blob store atomically, and concurrent
// writers follow last-write-wins.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/blob"
	"github.com/goliatone/go-intake/internal/store"
	"github.com/goliatone/go-intake/pkg/render"
)

// MaxUploadBytes mirrors the client-side gate; the server enforces it too.
const MaxUploadBytes int64 = 10 << 20

// defaultExpiry is how long a form link stays live without an explicit
// override.
const defaultExpiry = 30 * 24 * time.Hour

// Records is the record store surface the handlers need.
type Records interface {
	Create(ctx context.Context, record *store.IntakeRecord) error
	ByToken(ctx context.Context, token string) (store.IntakeRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status store.Status) error
	MarkSubmitted(ctx context.Context, id uuid.UUID, at time.Time) error
	Touch(ctx context.Context, id uuid.UUID) error
	CreateFile(ctx context.Context, file *store.IntakeFile) error
	FilesByIntake(ctx context.Context, intakeID uuid.UUID) ([]store.IntakeFile, error)
	FileByID(ctx context.Context, intakeID, fileID uuid.UUID) (store.IntakeFile, error)
}

// Server wires handlers to their dependencies.
type Server struct {
	records  Records
	blobs    blob.Store
	renderer *render.Renderer
	logger   *zap.Logger

	apiKey         string
	publicBaseURL  string
	allowedOrigins []string
	now            func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithPublicBaseURL sets the origin used when building form links.
func WithPublicBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.publicBaseURL = baseURL
	}
}

// WithAllowedOrigins sets the CORS allow-list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithClock overrides time lookup, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server.
func New(records Records, blobs blob.Store, renderer *render.Renderer, logger *zap.Logger, apiKey string, options ...Option) *Server {
	s := &Server{
		records:  records,
		blobs:    blobs,
		renderer: renderer,
		logger:   logger,
		apiKey:   apiKey,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(corsMiddleware(s.allowedOrigins))

	// The form runtime calls these with nothing but its token; possession of
	// an unexpired token is the credential.
	public := router.Group("/api")
	{
		public.GET("/intake/:token/definition", s.getDefinition)
		public.PUT("/intake/:token", s.putResponse)
		public.POST("/intake/:token/upload", s.uploadFile)
	}

	agent := router.Group("/api", bearerAuth(s.apiKey))
	{
		agent.POST("/intake", s.createIntake)
		agent.GET("/intake/:token", s.getIntake)
		agent.GET("/intake/:token/response", s.getResponse)
		agent.PATCH("/intake/:token/status", s.patchStatus)
		agent.GET("/intake/:token/files", s.listFiles)
		agent.GET("/intake/:token/files/:id", s.getFile)
	}

	router.GET("/:token", s.formPage)
	router.POST("/:token/verify", s.verifyPassword)
	router.GET("/:token/thanks", s.thanksPage)

	return router
}
