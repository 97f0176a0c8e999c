package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) Get(ctx context.Context, userID string) (*domain.UserStreak, error) {
	var streak domain.UserStreak
	query := `SELECT * FROM user_streaks WHERE user_id = $1`

	err := r.db.GetContext(ctx, &streak, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreakNotFound
		}
		return nil, fmt.Errorf("repository: get streak failed: %w", err)
	}
	return &streak, nil
}

// Mutate runs fn against the user's row while holding its row lock.
// SELECT ... FOR UPDATE serializes concurrent touches for the same user;
// different users never contend.
func (r *PostgresStreakRepository) Mutate(ctx context.Context, userID string, fn func(current *domain.UserStreak) (*domain.UserStreak, error)) (*domain.UserStreak, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("repository: begin streak tx: %w", err)
	}
	defer tx.Rollback()

	var current *domain.UserStreak
	var row domain.UserStreak

	query := `SELECT * FROM user_streaks WHERE user_id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &row, query, userID)
	switch {
	case err == nil:
		current = &row
	case errors.Is(err, sql.ErrNoRows):
		// First activity for this user; fn receives nil and creates.
	default:
		return nil, fmt.Errorf("repository: lock streak row: %w", err)
	}

	updated, err := fn(current)
	if err != nil {
		return nil, err
	}

	upsert := `
		INSERT INTO user_streaks (
			user_id, current_streak, longest_streak,
			last_active_date, created_at, updated_at
		) VALUES (
			:user_id, :current_streak, :longest_streak,
			:last_active_date, :created_at, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_active_date = EXCLUDED.last_active_date,
			updated_at = EXCLUDED.updated_at`

	if _, err := tx.NamedExecContext(ctx, upsert, updated); err != nil {
		return nil, fmt.Errorf("repository: upsert streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("repository: commit streak tx: %w", err)
	}

	return updated, nil
}
