package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

const defaultLeaderboardLimit = 10

type StatsService struct {
	stats  domain.StatsRepository
	ledger domain.PointLedgerRepository
	awards domain.BadgeAwardRepository
	counts domain.ActivityCountReader
}

func NewStatsService(
	stats domain.StatsRepository,
	ledger domain.PointLedgerRepository,
	awards domain.BadgeAwardRepository,
	counts domain.ActivityCountReader,
) *StatsService {
	return &StatsService{
		stats:  stats,
		ledger: ledger,
		awards: awards,
		counts: counts,
	}
}

// Refresh recomputes the cached summary from the sources of truth and
// overwrites it. Pure function of current state, safe at any frequency:
// the scheduled sweep calls it blindly as a self-healing measure.
func (s *StatsService) Refresh(ctx context.Context, userID string) (*domain.UserStats, error) {
	totalPoints, err := s.ledger.SumByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: sum ledger: %w", err)
	}

	needs, err := s.counts.NeedsReported(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: count needs: %w", err)
	}
	cohorts, err := s.counts.CohortsCreated(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: count cohorts: %w", err)
	}
	plans, err := s.counts.PlansGenerated(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: count plans: %w", err)
	}

	badges, err := s.awards.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: count awards: %w", err)
	}

	stats := &domain.UserStats{
		UserID:         userID,
		TotalPoints:    totalPoints,
		NeedsReported:  needs,
		CohortsCreated: cohorts,
		PlansGenerated: plans,
		BadgesEarned:   badges,
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.stats.Upsert(ctx, stats); err != nil {
		return nil, fmt.Errorf("stats service: upsert summary: %w", err)
	}

	return stats, nil
}

// GetStats serves the cached summary, building it on first read.
func (s *StatsService) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrStatsNotFound) {
			return s.Refresh(ctx, userID)
		}
		return nil, err
	}
	return stats, nil
}

// Leaderboard ranks users by total points. Ties break on badges earned,
// then on account age, so the ordering is deterministic; ranks are
// 1-based and every row gets its own rank.
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.stats.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("stats service: leaderboard query: %w", err)
	}

	for i, e := range entries {
		e.Rank = i + 1
	}

	return entries, nil
}
