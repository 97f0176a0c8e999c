package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type PostgresBadgeAwardRepository struct {
	db *sqlx.DB
}

func NewPostgresBadgeAwardRepository(db *sqlx.DB) *PostgresBadgeAwardRepository {
	return &PostgresBadgeAwardRepository{db: db}
}

// Create relies on the (user_id, badge_id) primary key: the database,
// not a check-then-insert, decides which of two racing evaluators gets
// the award.
func (r *PostgresBadgeAwardRepository) Create(ctx context.Context, award *domain.BadgeAward) error {
	query := `
		INSERT INTO badge_awards (user_id, badge_id, earned_at)
		VALUES (:user_id, :badge_id, :earned_at)`

	_, err := r.db.NamedExecContext(ctx, query, award)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBadgeAlreadyAwarded
		}
		return fmt.Errorf("repository: create badge award: %w", err)
	}
	return nil
}

func (r *PostgresBadgeAwardRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BadgeAward, error) {
	awards := []*domain.BadgeAward{}

	query := `
		SELECT * FROM badge_awards
		WHERE user_id = $1
		ORDER BY earned_at DESC`

	if err := r.db.SelectContext(ctx, &awards, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list badge awards: %w", err)
	}
	return awards, nil
}

func (r *PostgresBadgeAwardRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT count(*) FROM badge_awards WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("repository: count badge awards: %w", err)
	}
	return count, nil
}
