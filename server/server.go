package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/board"
	"taskflow/configs"
	"taskflow/delivery/rest"
	"taskflow/delivery/rest/middleware"
	"taskflow/delivery/websocket"
)

// Server wraps the gin engine
type Server struct {
	engine     *gin.Engine
	config     configs.ServerConfig
	log        *zap.Logger
	httpServer *http.Server
}

// NewServer creates a new HTTP server. The websocket route streams the board
// through hub, starting from current().
func NewServer(cfg *configs.Config, h *rest.Handler, hub *websocket.Hub, current func() board.Snapshot, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()

	engine.Use(middleware.Logger(log.Named("http")))
	engine.Use(middleware.Recovery(log.Named("http")))

	s := &Server{
		engine: engine,
		config: cfg.Server,
		log:    log,
	}

	s.registerRoutes(engine, h, hub, current, middleware.Credentials(cfg.Gateway.ProjectID, cfg.Gateway.PublicKey))

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes(engine *gin.Engine, h *rest.Handler, hub *websocket.Hub, current func() board.Snapshot, credentials gin.HandlerFunc) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	v1 := engine.Group("/api/v1")
	if hub != nil {
		v1.GET("/board/ws", hub.Handler(current))
	}
	h.Register(v1, credentials)
}

// Handler returns the engine, for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("Starting HTTP server", zap.String("address", s.config.Address()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
