package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"taskflow/app"
	"taskflow/board"
	"taskflow/configs"
	"taskflow/delivery/cli"
	"taskflow/infrastructure/logger"
)

var version = "dev"

func main() {
	root := cli.NewRootCommand(open, version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", cli.FormatError(err))
		os.Exit(1)
	}
}

// open loads the configuration and builds a board over the configured gateway.
// Logs go to stderr at warn level unless LOG_LEVEL says otherwise.
func open(ctx context.Context, configPath string, notifier board.Notifier) (*board.Controller, func(), error) {
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := "warn"
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		level = l
	}
	log, err := logger.New(logger.ForEnvironment(cfg.Log.Env, level, "console", cfg.Log.File))
	if err != nil {
		return nil, nil, err
	}

	container, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}

	closeFn := func() {
		container.Close()
		_ = log.Sync()
	}
	log.Debug("Gateway opened", zap.String("driver", cfg.Gateway.Driver))
	return container.NewBoard(notifier), closeFn, nil
}
