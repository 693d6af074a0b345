package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"anoa.com/weddingsalon/internal/modules/dress/dto"
	"anoa.com/weddingsalon/internal/modules/dress/repository"
	dress "anoa.com/weddingsalon/internal/modules/dress/service"
	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "stats:dresses"
	versionKey     = "stats:dresses:version"
)

type StatService interface {
	GetDressStatistics(ctx context.Context) (*dto.DressStatistics, error)
	Invalidate(ctx context.Context)
}

type statService struct {
	dressRepo   repository.DressRepository
	redisClient *redis.Client
	ttl         time.Duration
}

// NewStatService computes statistics from the dress store. With a redis client
// the result is cached for ttl or until Invalidate. Snapshots are keyed by a
// version counter that Invalidate bumps.
func NewStatService(dressRepo repository.DressRepository, redisClient *redis.Client, ttl time.Duration) StatService {
	return &statService{
		dressRepo:   dressRepo,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (s *statService) GetDressStatistics(ctx context.Context) (*dto.DressStatistics, error) {
	key, cached := s.cached(ctx)
	if cached != nil {
		return cached, nil
	}

	dresses, err := s.dressRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := dress.Statistics(dresses)

	if key != "" && s.ttl > 0 {
		payload, err := json.Marshal(stats)
		if err == nil {
			err = s.redisClient.Set(ctx, key, payload, s.ttl).Err()
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to cache dress statistics", "error", err)
		}
	}

	return stats, nil
}

// cached returns the key for the current version and its snapshot, if any.
// The key is empty when the cache is unavailable.
func (s *statService) cached(ctx context.Context) (string, *dto.DressStatistics) {
	if s.redisClient == nil {
		return "", nil
	}

	version, err := s.redisClient.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "failed to read dress statistics version", "error", err)
		return "", nil
	}
	key := fmt.Sprintf("%s:v%d", cacheKeyPrefix, version)

	payload, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "failed to read cached dress statistics", "error", err)
		}
		return key, nil
	}

	var stats dto.DressStatistics
	if err := json.Unmarshal(payload, &stats); err != nil {
		return key, nil
	}
	return key, &stats
}

func (s *statService) Invalidate(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Incr(ctx, versionKey).Err(); err != nil {
		slog.WarnContext(ctx, "failed to invalidate dress statistics", "error", err)
	}
}
