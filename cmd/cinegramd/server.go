package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/cinegram/cinegram/internal/bot"
	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/config"
	"github.com/cinegram/cinegram/internal/gateway"
	"github.com/cinegram/cinegram/internal/migrations"
	"github.com/cinegram/cinegram/internal/session"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Bot.LogLevel),
	}))

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store := catalog.NewStore(db)
	sessions := session.NewStore(cfg.Session.TTL.Duration)

	tg, err := gateway.NewTelegram(cfg.Bot.Token, logger)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	gate := bot.NewGate(tg, store, cfg.Gate.RequiredChannels, cfg.Gate.CacheTTL.Duration, logger)
	b := bot.New(tg, store, sessions, gate, bot.Options{
		Admins:         cfg.Bot.Admins,
		BotUsername:    tg.Username(),
		PageSize:       cfg.Browse.PageSize,
		SearchLimit:    cfg.Browse.SearchLimit,
		AtomicFinalize: cfg.Upload.AtomicFinalize,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		"bot", tg.Username(),
		"database", cfg.Database.Path,
		"admins", len(cfg.Bot.Admins),
		"required_channels", len(cfg.Gate.RequiredChannels),
		"log_level", cfg.Bot.LogLevel,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(ctx) })
	g.Go(func() error { return sessions.Run(ctx, cfg.Session.SweepInterval.Duration) })

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("stopped")
	return nil
}
