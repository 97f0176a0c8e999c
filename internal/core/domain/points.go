package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownActivityKind = errors.New("unknown activity kind")
	ErrInvalidPointEntry   = errors.New("invalid point ledger entry")
)

// ActivityKind identifies what a user did. The first five arrive from
// the outside through RecordActivity; the last two are emitted
// internally by the engine itself.
const (
	ActivityNeedReported     = "NEED_REPORTED"
	ActivityCohortCreated    = "COHORT_CREATED"
	ActivityPlanGenerated    = "PLAN_GENERATED"
	ActivityFeedbackProvided = "FEEDBACK_PROVIDED"
	ActivityLogin            = "LOGIN"

	ActionBadgeEarned = "BADGE_EARNED"
	ActionStreakDay   = "STREAK_DAY"
)

// PointValues is the fixed credit table. LOGIN has no row on purpose:
// logins earn points only through STREAK_DAY.
var PointValues = map[string]int{
	ActivityNeedReported:     10,
	ActivityCohortCreated:    25,
	ActivityPlanGenerated:    50,
	ActivityFeedbackProvided: 5,
	ActionBadgeEarned:        20,
	ActionStreakDay:          2,
}

func IsActivityKind(kind string) bool {
	switch kind {
	case ActivityNeedReported, ActivityCohortCreated, ActivityPlanGenerated,
		ActivityFeedbackProvided, ActivityLogin:
		return true
	}
	return false
}

// PointEntry is one row of the append-only ledger. A user's total is
// always the sum of their entries; there is no counter to update.
type PointEntry struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Action      string    `json:"action" db:"action"`
	Points      int       `json:"points" db:"points"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func NewPointEntry(userID, action string, points int, description string) *PointEntry {
	return &PointEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Points:      points,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

func (e *PointEntry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrInvalidPointEntry
	}
	if strings.TrimSpace(e.Action) == "" {
		return ErrInvalidPointEntry
	}
	if e.Points < 0 {
		return ErrInvalidPointEntry
	}
	return nil
}
