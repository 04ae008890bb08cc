package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/pledgepool/infra"
	infraeventbus "github.com/amirasaad/pledgepool/infra/eventbus"
	infrarepo "github.com/amirasaad/pledgepool/infra/repository"
	"github.com/amirasaad/pledgepool/pkg/app"
	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/webapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	deps := config.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: infraeventbus.NewWithMemory(logger),
		Logger:   logger,
		Config:   cfg,
	}

	fiberApp := webapi.SetupApp(app.New(deps))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return fiberApp.Listen(addr)
}

func newLogger(cfg *config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
