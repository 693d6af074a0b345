package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"anoa.com/weddingsalon/internal/config"
	"anoa.com/weddingsalon/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to REDIS_URL. It returns nil when no URL is configured.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, caching, rate limiting and the inventory feed are disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// OpenMeili returns a meilisearch client, or nil when MEILISEARCH_HOST is unset.
func OpenMeili(cfg *config.Config) meilisearch.ServiceManager {
	if cfg.MeiliSearchHost == "" {
		slog.Info("MEILISEARCH_HOST not set, full-text search is disabled")
		return nil
	}

	client := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	if !client.IsHealthy() {
		slog.Warn("meilisearch is not healthy yet", "host", cfg.MeiliSearchHost)
	}
	return client
}

// OpenImageStorage returns cloudinary storage, or nil when CLOUDINARY_URL is unset.
func OpenImageStorage(cfg *config.Config) (storage.ImageStorage, error) {
	if cfg.CloudinaryURL == "" {
		slog.Info("CLOUDINARY_URL not set, dress photos are disabled")
		return nil, nil
	}
	return storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
}
