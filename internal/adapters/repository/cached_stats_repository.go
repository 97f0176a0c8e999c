package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

var _ domain.StatsRepository = (*CachedStatsRepository)(nil)

const statsCacheTTL = 5 * time.Minute

// CachedStatsRepository puts a Redis read-through layer in front of the
// stats store. Redis failures degrade to the underlying store; the cache
// is never the source of truth (the Postgres row already is a cache of
// the ledger, this is just a faster copy of it).
type CachedStatsRepository struct {
	next  domain.StatsRepository
	cache *redis.Client
}

func NewCachedStatsRepository(next domain.StatsRepository, cache *redis.Client) *CachedStatsRepository {
	return &CachedStatsRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedStatsRepository) statsKey(userID string) string {
	return fmt.Sprintf("stats:%s", userID)
}

func (r *CachedStatsRepository) leaderboardKey(limit int) string {
	return fmt.Sprintf("leaderboard:%d", limit)
}

func (r *CachedStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	key := r.statsKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var stats domain.UserStats
		if err := json.Unmarshal([]byte(val), &stats); err == nil {
			return &stats, nil
		}

		log.Printf("[CACHE] Corrupted stats for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	stats, err := r.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if setErr := r.cache.Set(ctx, key, data, statsCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return stats, nil
}

func (r *CachedStatsRepository) Upsert(ctx context.Context, stats *domain.UserStats) error {
	if err := r.next.Upsert(ctx, stats); err != nil {
		return err
	}

	// Drop the per-user copy and every cached leaderboard page: a new
	// total can reorder any of them.
	keys := []string{r.statsKey(stats.UserID)}
	iter := r.cache.Scan(ctx, 0, "leaderboard:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CACHE] Failed to scan leaderboard keys: %v", err)
	}

	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", stats.UserID, err)
	}

	return nil
}

func (r *CachedStatsRepository) Top(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	key := r.leaderboardKey(limit)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var entries []*domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(val), &entries); err == nil {
			return entries, nil
		}

		log.Printf("[CACHE] Corrupted leaderboard for limit %d, cleaning up key", limit)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	entries, err := r.next.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if setErr := r.cache.Set(ctx, key, data, statsCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return entries, nil
}
