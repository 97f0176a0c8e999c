package domain

import "time"

// ProgressSource names the metric a badge requirement is measured against.
type ProgressSource string

const (
	ProgressNeedsReported  ProgressSource = "needs_reported"
	ProgressCohortsCreated ProgressSource = "cohorts_created"
	ProgressPlansGenerated ProgressSource = "plans_generated"
	ProgressCurrentStreak  ProgressSource = "current_streak"
)

type BadgeDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Requirement int            `json:"requirement"`
	Source      ProgressSource `json:"-"`
}

// BadgeCatalog is the fixed badge table. Entries are data, not code:
// the evaluator runs the same loop over every row. Editing the catalog
// means redeploying, which is intentional.
var BadgeCatalog = []BadgeDefinition{
	{ID: "first-need", Name: "First Steps", Description: "Report your first classroom need", Icon: "🎯", Requirement: 1, Source: ProgressNeedsReported},
	{ID: "need-reporter-5", Name: "Active Reporter", Description: "Report 5 classroom needs", Icon: "📝", Requirement: 5, Source: ProgressNeedsReported},
	{ID: "need-reporter-10", Name: "Super Reporter", Description: "Report 10 classroom needs", Icon: "⭐", Requirement: 10, Source: ProgressNeedsReported},
	{ID: "need-reporter-25", Name: "Champion Reporter", Description: "Report 25 classroom needs", Icon: "🏆", Requirement: 25, Source: ProgressNeedsReported},
	{ID: "cohort-creator", Name: "Cohort Creator", Description: "Create your first cohort", Icon: "👥", Requirement: 1, Source: ProgressCohortsCreated},
	{ID: "plan-generator", Name: "Plan Generator", Description: "Generate your first training plan", Icon: "📋", Requirement: 1, Source: ProgressPlansGenerated},
	{ID: "weekly-streak", Name: "Weekly Warrior", Description: "Maintain a 7-day login streak", Icon: "🔥", Requirement: 7, Source: ProgressCurrentStreak},
	{ID: "monthly-streak", Name: "Monthly Master", Description: "Maintain a 30-day login streak", Icon: "💎", Requirement: 30, Source: ProgressCurrentStreak},
}

// BadgeByID returns the catalog entry for id, or nil when unknown.
func BadgeByID(id string) *BadgeDefinition {
	for i := range BadgeCatalog {
		if BadgeCatalog[i].ID == id {
			return &BadgeCatalog[i]
		}
	}
	return nil
}

// BadgeAward is one earned badge. Immutable once written; the
// (user_id, badge_id) pair is unique in storage, which is what makes
// awarding at-most-once under concurrent evaluation.
type BadgeAward struct {
	UserID   string    `json:"user_id" db:"user_id"`
	BadgeID  string    `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

func NewBadgeAward(userID, badgeID string) *BadgeAward {
	return &BadgeAward{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now().UTC(),
	}
}
