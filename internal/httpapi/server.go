// Package httpapi exposes the assistant over HTTP and websockets.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/subba5076/Pizza-Delivery-agent/internal/assistant"
	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
	"github.com/subba5076/Pizza-Delivery-agent/internal/metrics"
)

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts the recorder's handler on /metrics.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Server) { s.metrics = r }
}

// WithMaxAudioBytes caps /api/listen uploads.
func WithMaxAudioBytes(n int64) Option {
	return func(s *Server) { s.maxAudio = n }
}

// WithTurnTimeout bounds a single chat turn, generator call included.
func WithTurnTimeout(d time.Duration) Option {
	return func(s *Server) { s.turnTimeout = d }
}

// WithCORS allows browser clients served from origins to call the API.
func WithCORS(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// Server routes HTTP and websocket traffic to the assistant.
type Server struct {
	router      *gin.Engine
	asst        *assistant.Assistant
	cat         *catalog.Catalog
	metrics     *metrics.Recorder
	log         *logger.Logger
	maxAudio    int64
	turnTimeout time.Duration
	origins     []string
}

// New builds the router. Call gin.SetMode before New to silence gin's
// debug output.
func New(asst *assistant.Assistant, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		router:      gin.New(),
		asst:        asst,
		cat:         asst.Engine().Catalog(),
		log:         log,
		maxAudio:    10 << 20,
		turnTimeout: 45 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(gin.Recovery(), s.requestLog())
	if len(s.origins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:  s.origins,
			AllowMethods:  []string{"GET", "POST", "DELETE"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/ws/:id", s.handleWebSocket)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/menu", s.handleMenu)
		api.POST("/listen", s.handleListen)
		api.POST("/sessions", s.handleCreateSession)
		api.GET("/sessions/:id", s.handleGetSession)
		api.DELETE("/sessions/:id", s.handleDeleteSession)
		api.POST("/sessions/:id/chat", s.handleChat)
		api.POST("/sessions/:id/restart", s.handleRestart)
	}
}

// Router returns the gin engine, for mounting in an http.Server or tests.
func (s *Server) Router() *gin.Engine { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLog logs one line per request at debug level, and 5xx at error.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			s.log.Error("%s %s -> %d (%s)", c.Request.Method, c.FullPath(), status, time.Since(start))
			return
		}
		s.log.Debug("%s %s -> %d (%s)", c.Request.Method, c.FullPath(), status, time.Since(start))
	}
}
