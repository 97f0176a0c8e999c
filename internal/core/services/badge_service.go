package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

// streakReader is the slice of StreakService the evaluator needs.
type streakReader interface {
	CurrentStreak(ctx context.Context, userID string) (int, error)
}

type BadgeService struct {
	awards  domain.BadgeAwardRepository
	counts  domain.ActivityCountReader
	streaks streakReader
	ledger  domain.PointLedgerRepository
}

func NewBadgeService(
	awards domain.BadgeAwardRepository,
	counts domain.ActivityCountReader,
	streaks streakReader,
	ledger domain.PointLedgerRepository,
) *BadgeService {
	return &BadgeService{
		awards:  awards,
		counts:  counts,
		streaks: streaks,
		ledger:  ledger,
	}
}

// EvaluateAll walks the catalog and awards every badge whose threshold
// the user has crossed. Safe to call redundantly: progress reads are
// pure, and the (userID, badgeID) uniqueness constraint turns a
// concurrent double award into a no-op.
func (s *BadgeService) EvaluateAll(ctx context.Context, userID string) ([]domain.BadgeDefinition, error) {
	existing, err := s.awards.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("badge service: list awards: %w", err)
	}

	earned := make(map[string]bool, len(existing))
	for _, a := range existing {
		earned[a.BadgeID] = true
	}

	var newlyAwarded []domain.BadgeDefinition

	for _, def := range domain.BadgeCatalog {
		if earned[def.ID] {
			continue
		}

		progress, err := s.progress(ctx, userID, def.Source)
		if err != nil {
			return newlyAwarded, fmt.Errorf("badge service: progress for %s: %w", def.ID, err)
		}
		if progress < def.Requirement {
			continue
		}

		err = s.awards.Create(ctx, domain.NewBadgeAward(userID, def.ID))
		if errors.Is(err, domain.ErrBadgeAlreadyAwarded) {
			// A concurrent evaluation won the insert. Not an error.
			continue
		}
		if err != nil {
			return newlyAwarded, fmt.Errorf("badge service: award %s: %w", def.ID, err)
		}

		bonus := domain.NewPointEntry(
			userID,
			domain.ActionBadgeEarned,
			domain.PointValues[domain.ActionBadgeEarned],
			fmt.Sprintf("Earned badge: %s", def.Name),
		)
		if err := s.ledger.Append(ctx, bonus); err != nil {
			return newlyAwarded, fmt.Errorf("badge service: bonus for %s: %w", def.ID, err)
		}

		newlyAwarded = append(newlyAwarded, def)
	}

	return newlyAwarded, nil
}

// GetBadges annotates the full catalog with the user's earned state and
// live progress. Read-only.
func (s *BadgeService) GetBadges(ctx context.Context, userID string) ([]domain.BadgeStatus, error) {
	awards, err := s.awards.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("badge service: list awards: %w", err)
	}

	earnedAt := make(map[string]*domain.BadgeAward, len(awards))
	for _, a := range awards {
		earnedAt[a.BadgeID] = a
	}

	statuses := make([]domain.BadgeStatus, 0, len(domain.BadgeCatalog))
	for _, def := range domain.BadgeCatalog {
		progress, err := s.progress(ctx, userID, def.Source)
		if err != nil {
			return nil, fmt.Errorf("badge service: progress for %s: %w", def.ID, err)
		}

		status := domain.BadgeStatus{
			BadgeDefinition: def,
			Progress:        progress,
		}
		if award, ok := earnedAt[def.ID]; ok {
			status.Earned = true
			t := award.EarnedAt
			status.EarnedAt = &t
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (s *BadgeService) progress(ctx context.Context, userID string, source domain.ProgressSource) (int, error) {
	switch source {
	case domain.ProgressNeedsReported:
		return s.counts.NeedsReported(ctx, userID)
	case domain.ProgressCohortsCreated:
		return s.counts.CohortsCreated(ctx, userID)
	case domain.ProgressPlansGenerated:
		return s.counts.PlansGenerated(ctx, userID)
	case domain.ProgressCurrentStreak:
		return s.streaks.CurrentStreak(ctx, userID)
	default:
		return 0, fmt.Errorf("badge service: unknown progress source %q", source)
	}
}
