package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresActivityCounts reads the activity stores owned by the main
// application (needs, cohorts, plans). This adapter never writes to
// those tables.
type PostgresActivityCounts struct {
	db *sqlx.DB
}

func NewPostgresActivityCounts(db *sqlx.DB) *PostgresActivityCounts {
	return &PostgresActivityCounts{db: db}
}

func (r *PostgresActivityCounts) NeedsReported(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM need_signals WHERE created_by_id = $1`, userID)
}

func (r *PostgresActivityCounts) CohortsCreated(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM cohorts WHERE created_by_id = $1`, userID)
}

func (r *PostgresActivityCounts) PlansGenerated(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM plans WHERE created_by_id = $1`, userID)
}

func (r *PostgresActivityCounts) count(ctx context.Context, query, userID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("repository: activity count: %w", err)
	}
	return n, nil
}
