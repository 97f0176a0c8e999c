package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

const defaultHistoryLimit = 50

// refreshEnqueuer decouples the activity path from the background stats
// worker; handing off never blocks.
type refreshEnqueuer interface {
	Enqueue(userID string)
}

type ActivityService struct {
	streakSvc *StreakService
	badgeSvc  *BadgeService
	statsSvc  *StatsService
	ledger    domain.PointLedgerRepository
	worker    refreshEnqueuer
}

func NewActivityService(
	streakSvc *StreakService,
	badgeSvc *BadgeService,
	statsSvc *StatsService,
	ledger domain.PointLedgerRepository,
	worker refreshEnqueuer,
) *ActivityService {
	return &ActivityService{
		streakSvc: streakSvc,
		badgeSvc:  badgeSvc,
		statsSvc:  statsSvc,
		ledger:    ledger,
		worker:    worker,
	}
}

// RecordActivity is the engine's only mutating entry point. Four steps,
// none wrapped in a shared transaction: the streak and the ledger are
// sources of truth and must succeed; badge evaluation and the stats
// refresh are safe to re-run, so their failures are logged and absorbed
// rather than bounced back to the originating action.
func (s *ActivityService) RecordActivity(ctx context.Context, userID, kind string, at time.Time) (*domain.ActivityRecord, error) {
	if !domain.IsActivityKind(kind) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownActivityKind, kind)
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	record := &domain.ActivityRecord{
		UserID:        userID,
		Kind:          kind,
		OccurredAt:    at.UTC(),
		BadgesAwarded: []domain.BadgeDefinition{},
	}

	if kind == domain.ActivityLogin {
		streak, err := s.streakSvc.Touch(ctx, userID, at)
		if err != nil {
			return nil, err
		}
		record.Streak = streak
	}

	if points, ok := domain.PointValues[kind]; ok {
		entry := domain.NewPointEntry(userID, kind, points, describeActivity(kind))
		if err := s.ledger.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("activity service: append ledger entry: %w", err)
		}
		record.PointsAwarded = points
	}

	newBadges, err := s.badgeSvc.EvaluateAll(ctx, userID)
	if err != nil {
		log.Printf("activity service: badge evaluation for %s failed (will re-run): %v", userID, err)
	}
	if newBadges != nil {
		record.BadgesAwarded = newBadges
	}

	if _, err := s.statsSvc.Refresh(ctx, userID); err != nil {
		log.Printf("activity service: stats refresh for %s failed, enqueueing retry: %v", userID, err)
		s.worker.Enqueue(userID)
	}

	return record, nil
}

// GetPointHistory returns the newest ledger entries for a user.
func (s *ActivityService) GetPointHistory(ctx context.Context, userID string, limit int) ([]*domain.PointEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.ledger.ListByUserID(ctx, userID, limit)
}

func describeActivity(kind string) string {
	switch kind {
	case domain.ActivityNeedReported:
		return "Reported a classroom need"
	case domain.ActivityCohortCreated:
		return "Created a cohort"
	case domain.ActivityPlanGenerated:
		return "Generated a training plan"
	case domain.ActivityFeedbackProvided:
		return "Provided session feedback"
	default:
		return kind
	}
}
