// Package app wires the configured gateway, the repositories and the board
// controller for the binaries.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskflow/board"
	"taskflow/category"
	"taskflow/configs"
	"taskflow/domain/gateway"
	"taskflow/infrastructure/circuitbreaker"
	"taskflow/repository/memory"
	"taskflow/repository/mysql"
	"taskflow/repository/postgres"
	"taskflow/repository/remote"
	"taskflow/repository/seed"
	"taskflow/repository/sqlite"
	"taskflow/repository/sqlstore"
	"taskflow/task"
)

// Container holds the constructed adapters. Build one per process and inject it.
type Container struct {
	Gateway    gateway.Gateway
	Tasks      *task.Repository
	Categories *category.Repository

	log     *zap.Logger
	closers []func()
}

// New opens the gateway named by cfg.Gateway.Driver and seeds it when a seed
// file is configured
func New(ctx context.Context, cfg *configs.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{log: log}

	gw, err := c.openGateway(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	if cfg.Gateway.SeedFile != "" && cfg.Gateway.Driver != configs.DriverRemote {
		s, err := seed.Load(cfg.Gateway.SeedFile)
		if err != nil {
			c.Close()
			return nil, err
		}
		n, err := s.Apply(ctx, gw, log.Named("seed"))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to seed gateway: %w", err)
		}
		log.Info("Seed applied", zap.String("file", cfg.Gateway.SeedFile), zap.Int("created", n))
	}

	c.bind(gw)
	return c, nil
}

// NewWithGateway builds a container over an existing gateway
func NewWithGateway(gw gateway.Gateway, log *zap.Logger) *Container {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{log: log}
	c.bind(gw)
	return c
}

func (c *Container) bind(gw gateway.Gateway) {
	c.Gateway = gw
	c.Tasks = task.NewRepository(gw, c.log.Named("task"), nil)
	c.Categories = category.NewRepository(gw, c.log.Named("category"))
}

// NewBoard returns a board controller over the container's repositories
func (c *Container) NewBoard(notifier board.Notifier) *board.Controller {
	return board.New(c.Tasks, c.Categories, notifier, c.log.Named("board"))
}

// Close releases the gateway's connections
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) openGateway(ctx context.Context, cfg *configs.Config) (gateway.Gateway, error) {
	log := c.log
	var (
		memOpts []memory.Option
		sqlOpts []sqlstore.Option
	)
	if owner := cfg.Gateway.Owner; owner != "" {
		memOpts = append(memOpts, memory.WithOwner(owner))
		sqlOpts = append(sqlOpts, sqlstore.WithOwner(owner))
	}

	switch cfg.Gateway.Driver {
	case configs.DriverMemory, "":
		return memory.NewGateway(memOpts...), nil

	case configs.DriverPostgres:
		pool, err := postgres.NewConnection(ctx, &cfg.Database, log.Named("postgres"))
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, pool.Close)
		if err := postgres.RunMigrations(ctx, pool, cfg.Database.MigrationsDir, log.Named("postgres")); err != nil {
			return nil, err
		}
		return postgres.NewGateway(pool, log.Named("postgres"), sqlOpts...), nil

	case configs.DriverMySQL:
		db, err := mysql.NewConnection(ctx, &cfg.Database, log.Named("mysql"))
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		if err := mysql.RunMigrations(ctx, db, cfg.Database.MigrationsDir, log.Named("mysql")); err != nil {
			return nil, err
		}
		return mysql.NewGateway(db, log.Named("mysql"), sqlOpts...), nil

	case configs.DriverSQLite:
		db, err := sqlite.NewDB(cfg.SQLite.Path, log.Named("sqlite"))
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		}
		return sqlite.NewGateway(db, log.Named("sqlite"), sqlOpts...), nil

	case configs.DriverRemote:
		cb := circuitbreaker.NewCircuitBreaker(cfg.Gateway.BreakerThreshold, cfg.Gateway.BreakerCooldown, log.Named("circuitbreaker"))
		return remote.NewClient(remote.Config{
			BaseURL:   cfg.Gateway.RemoteURL,
			ProjectID: cfg.Gateway.ProjectID,
			PublicKey: cfg.Gateway.PublicKey,
			Timeout:   cfg.Gateway.Timeout,
		}, cb, log.Named("remote"))

	default:
		return nil, fmt.Errorf("unknown gateway driver %q", cfg.Gateway.Driver)
	}
}
