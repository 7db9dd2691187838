package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskflow/app"
	"taskflow/board"
	"taskflow/configs"
	"taskflow/delivery/rest"
	"taskflow/delivery/websocket"
	"taskflow/infrastructure/logger"
	"taskflow/scheduler"
	"taskflow/server"
)

func main() {
	cfg, err := configs.LoadConfig("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.ForEnvironment(cfg.Log.Env, cfg.Log.Level, cfg.Log.Format, cfg.Log.File)); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, logger.Get())
	if err != nil {
		log.Fatal("Failed to open gateway", zap.String("driver", cfg.Gateway.Driver), zap.Error(err))
	}
	defer container.Close()

	hub := websocket.NewHub(logger.Named("websocket"))
	hub.Start(ctx)

	b := container.NewBoard(board.Notifiers(hub, board.LogNotifier(logger.Named("notify"))))
	unsubscribe := b.Subscribe(hub.PublishSnapshot)
	defer unsubscribe()

	if err := b.Load(ctx); err != nil {
		log.Warn("Initial board load failed", zap.Error(err))
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(b, cfg.Scheduler, logger.Named("scheduler"))
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		sched.Start()
	}

	h := rest.NewHandler(b, container.Categories, container.Gateway, logger.Named("rest"))
	srv := server.NewServer(cfg, h, hub, b.Snapshot, logger.Named("server"))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("address", cfg.Server.Address()),
		zap.String("driver", cfg.Gateway.Driver),
	)

	<-ctx.Done()
	log.Info("Shutting down server...")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	if sched != nil {
		sched.Stop()
	}

	log.Info("Server stopped")
}
