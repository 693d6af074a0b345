package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/weddingsalon/internal/bootstrap"
	"anoa.com/weddingsalon/internal/config"
	"anoa.com/weddingsalon/internal/server"
	"anoa.com/weddingsalon/pkg/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DSN(), cfg.LogLevel <= slog.LevelDebug)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := bootstrap.Migrate(db); err != nil {
		return err
	}

	redisClient, err := bootstrap.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	imageStorage, err := bootstrap.OpenImageStorage(cfg)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, server.Deps{
		DB:           db,
		Redis:        redisClient,
		Meili:        bootstrap.OpenMeili(cfg),
		ImageStorage: imageStorage,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
