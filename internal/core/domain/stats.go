package domain

import "time"

// UserStats is the cached per-user summary. It is a materialized view:
// recomputing it from the ledger, the award table and the activity
// counters must reproduce it exactly, so it can be thrown away and
// rebuilt at any time.
type UserStats struct {
	UserID         string    `json:"user_id" db:"user_id"`
	TotalPoints    int       `json:"total_points" db:"total_points"`
	NeedsReported  int       `json:"needs_reported" db:"needs_reported"`
	CohortsCreated int       `json:"cohorts_created" db:"cohorts_created"`
	PlansGenerated int       `json:"plans_generated" db:"plans_generated"`
	BadgesEarned   int       `json:"badges_earned" db:"badges_earned"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// LeaderboardEntry is one ranked row of the leaderboard view.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id" db:"user_id"`
	Name          string `json:"name" db:"name"`
	TotalPoints   int    `json:"total_points" db:"total_points"`
	BadgesEarned  int    `json:"badges_earned" db:"badges_earned"`
	NeedsReported int    `json:"needs_reported" db:"needs_reported"`
}

// BadgeStatus annotates a catalog entry with a user's progress on it.
type BadgeStatus struct {
	BadgeDefinition
	Earned   bool       `json:"earned"`
	Progress int        `json:"progress"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}
