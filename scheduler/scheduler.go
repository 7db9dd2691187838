// Package scheduler runs the board's background jobs on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskflow/configs"
)

// Board is the part of the board controller the jobs drive
type Board interface {
	Load(ctx context.Context) error
	SyncCategoryCounts(ctx context.Context) (int, error)
}

// Scheduler wraps cron-based jobs
type Scheduler struct {
	cron    *cron.Cron
	board   Board
	log     *zap.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New registers the jobs named in cfg. An empty spec leaves that job out.
func New(b Board, cfg configs.SchedulerConfig, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		board:   b,
		log:     log,
		timeout: 30 * time.Second,
		ctx:     ctx,
		cancel:  cancel,
	}

	if cfg.RefreshSpec != "" {
		if _, err := s.cron.AddFunc(cfg.RefreshSpec, s.refresh); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid refresh spec %q: %w", cfg.RefreshSpec, err)
		}
	}
	if cfg.CountSyncSpec != "" {
		if _, err := s.cron.AddFunc(cfg.CountSyncSpec, s.syncCounts); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid count sync spec %q: %w", cfg.CountSyncSpec, err)
		}
	}
	return s, nil
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the jobs in the background
func (s *Scheduler) Start() {
	s.log.Info("Scheduler started", zap.Int("jobs", s.Jobs()))
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if err := s.board.Load(ctx); err != nil {
		s.log.Warn("Scheduled board refresh failed", zap.Error(err))
		return
	}
	s.log.Debug("Board refreshed")
}

func (s *Scheduler) syncCounts() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	updated, err := s.board.SyncCategoryCounts(ctx)
	if err != nil {
		s.log.Warn("Scheduled category count sync failed", zap.Int("updated", updated), zap.Error(err))
		return
	}
	if updated > 0 {
		s.log.Info("Category counts synced", zap.Int("updated", updated))
	}
}
