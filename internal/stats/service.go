// internal/stats/service.go

// Package stats serves the manager/admin dashboard aggregates, with a short
// Redis cache in front of the SQL rollups.
package stats

import (
	"context"
	"encoding/json"
	"time"

	"stageconnect/internal/authz"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKey = "stats:dashboard"
	cacheTTL = 60 * time.Second
)

type Store interface {
	Collect(ctx context.Context) (*models.DashboardStats, error)
}

type Service struct {
	store  Store
	cache  *redis.Client // nil disables caching
	gate   *authz.Gate
	logger logger.Logger
}

func NewService(store Store, cache *redis.Client, gate *authz.Gate, log logger.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		gate:   gate,
		logger: log.WithFields(map[string]interface{}{"component": "stats"}),
	}
}

// Dashboard returns the platform aggregates for managers and admins. Cache
// failures fall through to the database silently.
func (s *Service) Dashboard(ctx context.Context, actor *models.User) (*models.DashboardStats, error) {
	if err := s.gate.CanViewDashboard(actor); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached models.DashboardStats
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.store.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
				s.logger.Warn("stats cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	return stats, nil
}

// Invalidate drops the cached dashboard, e.g. after bulk imports.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("stats cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
