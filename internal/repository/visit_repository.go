package repository

import (
	"context"
	"fmt"
	"time"

	redisapp "event_gallery/internal/storage/redis"

	"github.com/patrickmn/go-cache"
)

type RedisVisitRepo struct {
	Client *redisapp.Client
}

func NewRedisVisitRepo(client *redisapp.Client) *RedisVisitRepo {
	return &RedisVisitRepo{Client: client}
}

func (r *RedisVisitRepo) MarkVisit(ctx context.Context, eventID, day, visitorID string, ttl time.Duration) (bool, error) {
	const op = "repository.RedisVisitRepo.MarkVisit"

	first, err := r.Client.SetNX(ctx, visitKey(eventID, day, visitorID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return first, nil
}

// MemoryVisitRepo keeps the ledger in process memory. Entries are lost on
// restart.
type MemoryVisitRepo struct {
	cache *cache.Cache
}

func NewMemoryVisitRepo(cleanupInterval time.Duration) *MemoryVisitRepo {
	return &MemoryVisitRepo{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (r *MemoryVisitRepo) MarkVisit(_ context.Context, eventID, day, visitorID string, ttl time.Duration) (bool, error) {
	// Add fails when an unexpired entry already exists.
	if err := r.cache.Add(visitKey(eventID, day, visitorID), struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func visitKey(eventID, day, visitorID string) string {
	return "visit:" + eventID + ":" + day + ":" + visitorID
}
