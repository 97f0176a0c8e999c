package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type PostgresLedgerRepository struct {
	db *sqlx.DB
}

func NewPostgresLedgerRepository(db *sqlx.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// Append only ever inserts. There is no Update or Delete on this table;
// reversals would be modeled as new entries, and totals are always a sum.
func (r *PostgresLedgerRepository) Append(ctx context.Context, entry *domain.PointEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO point_ledger (id, user_id, action, points, description, created_at)
		VALUES (:id, :user_id, :action, :points, :description, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("repository: append ledger entry: %w", err)
	}
	return nil
}

func (r *PostgresLedgerRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.PointEntry, error) {
	entries := []*domain.PointEntry{}

	query := `
		SELECT * FROM point_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("repository: list ledger entries: %w", err)
	}
	return entries, nil
}

func (r *PostgresLedgerRepository) SumByUserID(ctx context.Context, userID string) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(points), 0) FROM point_ledger WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &total, query, userID); err != nil {
		return 0, fmt.Errorf("repository: sum ledger: %w", err)
	}
	return total, nil
}
