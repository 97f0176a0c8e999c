package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type PostgresStatsRepository struct {
	db *sqlx.DB
}

func NewPostgresStatsRepository(db *sqlx.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	var stats domain.UserStats
	query := `SELECT * FROM user_stats WHERE user_id = $1`

	err := r.db.GetContext(ctx, &stats, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("repository: get stats failed: %w", err)
	}
	return &stats, nil
}

// Upsert overwrites the cached row wholesale; the row carries no state
// of its own, so last-writer-wins is correct here.
func (r *PostgresStatsRepository) Upsert(ctx context.Context, stats *domain.UserStats) error {
	query := `
		INSERT INTO user_stats (
			user_id, total_points, needs_reported,
			cohorts_created, plans_generated, badges_earned, updated_at
		) VALUES (
			:user_id, :total_points, :needs_reported,
			:cohorts_created, :plans_generated, :badges_earned, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			total_points = EXCLUDED.total_points,
			needs_reported = EXCLUDED.needs_reported,
			cohorts_created = EXCLUDED.cohorts_created,
			plans_generated = EXCLUDED.plans_generated,
			badges_earned = EXCLUDED.badges_earned,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, stats); err != nil {
		return fmt.Errorf("repository: upsert stats: %w", err)
	}
	return nil
}

func (r *PostgresStatsRepository) Top(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	entries := []*domain.LeaderboardEntry{}

	query := `
		SELECT s.user_id, u.name, s.total_points, s.badges_earned, s.needs_reported
		FROM user_stats s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.total_points DESC, s.badges_earned DESC, u.created_at ASC
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("repository: leaderboard query: %w", err)
	}
	return entries, nil
}
