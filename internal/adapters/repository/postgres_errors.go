package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// isUniqueViolation reports whether err is a Postgres 23505
// unique-constraint violation. The engine leans on this classification
// for its at-most-once guarantees (badge awards, user emails), so it
// must hold under whichever driver produced the error: main connects
// through the pgx stdlib driver (*pgconn.PgError), while lib/pq callers
// surface *pq.Error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
