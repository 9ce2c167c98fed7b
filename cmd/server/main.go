package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/quizboard/api/internal/config"
	"github.com/quizboard/api/internal/database"
	"github.com/quizboard/api/internal/game"
	"github.com/quizboard/api/internal/migrations"
	"github.com/quizboard/api/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Redis (optional, for sessions) ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
	}

	// --- Question catalog ---
	catalog, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		"categories", len(catalog.Categories()),
		"questions", len(catalog.Questions()),
	)

	// --- Stores, cache, broker ---
	store := server.NewSQLiteStore(db)

	var sessions server.SessionStore
	if rdb != nil {
		sessions = server.NewRedisSessionStore(rdb, cfg.SessionTTL)
	} else {
		sessions = server.NewSQLiteSessionStore(db, cfg.SessionTTL)
	}

	broker := server.NewBroker()
	cache := game.NewCache(store, func(f game.PersistFailure) {
		logger.Error("game state persist failed", "round", f.RoundID, "error", f.Err)
		broker.Publish(f.RoundID, server.SSEEvent{
			Type:    "persist_failed",
			Failure: &server.PersistNotice{RoundID: f.RoundID, Error: f.Err.Error()},
		})
	})

	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, store, store, catalog); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Env{
		Logger:   logger,
		Rounds:   store,
		Users:    store,
		Sessions: sessions,
		Catalog:  catalog,
		Cache:    cache,
		Broker:   broker,
		DB:       db,
		Redis:    rdb,
		BaseURL:  cfg.PublicBaseURL,
		SPADir:   cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		err := srv.Shutdown(context.Background())
		cache.Flush()
		return err
	})

	return g.Wait()
}

func loadCatalog(dir string) (*game.Catalog, error) {
	if dir != "" {
		return game.LoadCatalogDir(dir)
	}
	return game.LoadEmbeddedCatalog()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
