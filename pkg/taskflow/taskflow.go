// Package taskflow embeds the task board into a host gin application.
package taskflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/app"
	"taskflow/board"
	"taskflow/delivery/rest"
	"taskflow/delivery/rest/middleware"
	"taskflow/delivery/websocket"
	"taskflow/repository/memory"
	"taskflow/repository/seed"
	"taskflow/scheduler"
)

// Taskflow is an embeddable board with its HTTP routes and background jobs
type Taskflow struct {
	container *app.Container
	board     *board.Controller
	hub       *websocket.Hub
	scheduler *scheduler.Scheduler

	config *Config
	logger *zap.Logger

	cancel      context.CancelFunc
	unsubscribe func()
	started     bool
	mu          sync.Mutex
}

// New creates a new Taskflow instance with functional options
func New(opts ...Option) (*Taskflow, error) {
	cfg := &Config{
		RoutePrefix: "/api/v1",
		Logger:      zap.L(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if cfg.Gateway == nil {
		cfg.Gateway = memory.NewGateway()
	}

	t := &Taskflow{
		config:    cfg,
		logger:    cfg.Logger,
		container: app.NewWithGateway(cfg.Gateway, cfg.Logger),
		hub:       websocket.NewHub(cfg.Logger.Named("websocket")),
	}
	t.board = t.container.NewBoard(board.Notifiers(t.hub, board.LogNotifier(cfg.Logger.Named("notify"))))

	if cfg.Scheduler.Enabled {
		s, err := scheduler.New(t.board, cfg.Scheduler, cfg.Logger.Named("scheduler"))
		if err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
		t.scheduler = s
	}

	t.logger.Info("Taskflow initialized", zap.String("route_prefix", cfg.RoutePrefix))
	return t, nil
}

// Board returns the controller, for hosts that drive it directly
func (t *Taskflow) Board() *board.Controller {
	return t.board
}

// RegisterRoutes mounts the board, category, record and websocket routes on r
func (t *Taskflow) RegisterRoutes(r gin.IRouter) {
	g := r.Group(t.config.RoutePrefix)
	g.GET("/board/ws", t.hub.Handler(t.board.Snapshot))

	h := rest.NewHandler(t.board, t.container.Categories, t.container.Gateway, t.logger.Named("rest"))
	h.Register(g, middleware.Credentials(t.config.ProjectID, t.config.PublicKey))
}

// Start seeds the gateway, loads the board and begins background processing
func (t *Taskflow) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return fmt.Errorf("already started")
	}
	if t.cancel != nil {
		return fmt.Errorf("cannot restart after shutdown")
	}

	if t.config.SeedFile != "" {
		s, err := seed.Load(t.config.SeedFile)
		if err != nil {
			return err
		}
		if _, err := s.Apply(ctx, t.container.Gateway, t.logger.Named("seed")); err != nil {
			return fmt.Errorf("failed to seed gateway: %w", err)
		}
	}

	if err := t.board.Load(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.hub.Start(runCtx)
	t.unsubscribe = t.board.Subscribe(t.hub.PublishSnapshot)

	if t.scheduler != nil {
		t.scheduler.Start()
	}

	t.started = true
	t.logger.Info("Taskflow started")
	return nil
}

// Shutdown stops the jobs and disconnects websocket clients
func (t *Taskflow) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		if t.scheduler != nil {
			t.scheduler.Stop()
		}
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		t.logger.Warn("Scheduler did not stop before the shutdown deadline", zap.Error(err))
	}

	t.unsubscribe()
	t.cancel()
	t.started = false
	t.logger.Info("Taskflow shutdown complete")
	return err
}

// HealthCheck returns health status for monitoring
func (t *Taskflow) HealthCheck() HealthStatus {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	status := HealthStatus{Started: started, Status: "stopped"}
	if !started {
		return status
	}

	snap := t.board.Snapshot()
	status.Status = "healthy"
	status.Tasks = snap.Loaded
	status.Clients = t.hub.GetClientCount()
	status.Scheduler = "disabled"
	if t.scheduler != nil {
		status.Scheduler = "running"
	}
	return status
}

// HealthStatus represents the health status of Taskflow
type HealthStatus struct {
	Status    string `json:"status"` // healthy, stopped
	Started   bool   `json:"started"`
	Tasks     int    `json:"tasks"`
	Clients   int    `json:"clients"`
	Scheduler string `json:"scheduler,omitempty"`
}
