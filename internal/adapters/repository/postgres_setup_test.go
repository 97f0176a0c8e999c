package repository

import (
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// setupPostgres connects to the integration database through the same
// pgx stdlib driver main uses, so driver-specific behavior (notably
// error types) is exercised exactly as deployed. Skips when no database
// is reachable. Tests isolate their data with uuid-scoped rows instead
// of truncating, so suites can share one database.
func setupPostgres(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "engage_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "engage_db"),
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Database connection failed (skipping integration tests): %v", err)
	}

	ensureSchema(db)

	return db, func() {
		db.Close()
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ensureSchema(db *sqlx.DB) {
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS user_streaks (
			user_id TEXT PRIMARY KEY,
			current_streak INT NOT NULL,
			longest_streak INT NOT NULL,
			last_active_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS badge_awards (
			user_id TEXT NOT NULL,
			badge_id TEXT NOT NULL,
			earned_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, badge_id)
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS point_ledger (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			points INT NOT NULL,
			description TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT PRIMARY KEY,
			total_points INT NOT NULL,
			needs_reported INT NOT NULL,
			cohorts_created INT NOT NULL,
			plans_generated INT NOT NULL,
			badges_earned INT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS need_signals (
			id TEXT PRIMARY KEY,
			created_by_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS cohorts (
			id TEXT PRIMARY KEY,
			created_by_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	db.MustExec(`
		CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			created_by_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
}
