package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStreakNotFound      = errors.New("streak not found")
	ErrBadgeAlreadyAwarded = errors.New("badge already awarded")
	ErrStatsNotFound       = errors.New("user stats not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ListIDs returns every known user id, for the reconciliation sweep.
	ListIDs(ctx context.Context) ([]string, error)
}

type StreakRepository interface {
	// Get retrieves a user's streak row. ErrStreakNotFound when the user
	// has never been active.
	Get(ctx context.Context, userID string) (*UserStreak, error)

	// Mutate loads the user's streak (nil when absent), applies fn and
	// persists the result, all under a per-user mutual-exclusion scope.
	// Implementations must guarantee that two concurrent Mutate calls
	// for the same user never interleave, otherwise a consecutive-day
	// transition can apply twice.
	Mutate(ctx context.Context, userID string, fn func(current *UserStreak) (*UserStreak, error)) (*UserStreak, error)
}

type BadgeAwardRepository interface {
	// Create inserts the award. The store enforces the (userID, badgeID)
	// uniqueness constraint and returns ErrBadgeAlreadyAwarded when a
	// concurrent evaluator got there first.
	Create(ctx context.Context, award *BadgeAward) error

	ListByUserID(ctx context.Context, userID string) ([]*BadgeAward, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type PointLedgerRepository interface {
	// Append inserts a new immutable ledger row. Rows are never updated
	// or deleted.
	Append(ctx context.Context, entry *PointEntry) error

	// ListByUserID returns the newest entries first, at most limit rows.
	ListByUserID(ctx context.Context, userID string, limit int) ([]*PointEntry, error)

	// SumByUserID is the authoritative total for a user.
	SumByUserID(ctx context.Context, userID string) (int, error)
}

type StatsRepository interface {
	Get(ctx context.Context, userID string) (*UserStats, error)
	Upsert(ctx context.Context, stats *UserStats) error

	// Top returns at most limit rows ordered by total points descending,
	// then badges earned descending, then account creation ascending.
	Top(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}

// ActivityCountReader aggregates over the externally owned activity
// stores. Reads only; the engine never writes needs, cohorts or plans.
type ActivityCountReader interface {
	NeedsReported(ctx context.Context, userID string) (int, error)
	CohortsCreated(ctx context.Context, userID string) (int, error)
	PlansGenerated(ctx context.Context, userID string) (int, error)
}

// ActivityRecord is what RecordActivity hands back to the caller.
type ActivityRecord struct {
	UserID        string            `json:"user_id"`
	Kind          string            `json:"kind"`
	OccurredAt    time.Time         `json:"occurred_at"`
	PointsAwarded int               `json:"points_awarded"`
	Streak        *UserStreak       `json:"streak,omitempty"`
	BadgesAwarded []BadgeDefinition `json:"badges_awarded"`
}
