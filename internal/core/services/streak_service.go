package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type StreakService struct {
	streaks domain.StreakRepository
	ledger  domain.PointLedgerRepository
}

func NewStreakService(streaks domain.StreakRepository, ledger domain.PointLedgerRepository) *StreakService {
	return &StreakService{
		streaks: streaks,
		ledger:  ledger,
	}
}

// Touch records one day of engagement. The transition itself runs inside
// the repository's per-user exclusion scope, so two concurrent calls on
// the same day cannot both take the consecutive-day branch.
func (s *StreakService) Touch(ctx context.Context, userID string, at time.Time) (*domain.UserStreak, error) {
	var outcome domain.StreakOutcome

	streak, err := s.streaks.Mutate(ctx, userID, func(current *domain.UserStreak) (*domain.UserStreak, error) {
		if current == nil {
			created, err := domain.NewUserStreak(userID, at)
			if err != nil {
				return nil, err
			}
			outcome = domain.StreakStarted
			return created, nil
		}

		var err error
		outcome, err = current.Advance(at)
		if err != nil {
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	if outcome == domain.StreakExtended {
		entry := domain.NewPointEntry(
			userID,
			domain.ActionStreakDay,
			domain.PointValues[domain.ActionStreakDay],
			fmt.Sprintf("Day %d streak", streak.CurrentStreak),
		)
		if err := s.ledger.Append(ctx, entry); err != nil {
			// The streak row itself is already durable; the missing
			// credit shows up as a points mismatch until the next append
			// succeeds, so surface it to the caller for retry.
			return nil, fmt.Errorf("streak service: append streak credit: %w", err)
		}
	}

	return streak, nil
}

// GetStreak never fails on an inactive user: it reports a zero streak.
func (s *StreakService) GetStreak(ctx context.Context, userID string) (*domain.UserStreak, error) {
	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrStreakNotFound) {
			return &domain.UserStreak{UserID: userID}, nil
		}
		return nil, err
	}
	return streak, nil
}

// CurrentStreak is the badge evaluator's progress source for streak
// badges. Missing rows read as zero.
func (s *StreakService) CurrentStreak(ctx context.Context, userID string) (int, error) {
	streak, err := s.GetStreak(ctx, userID)
	if err != nil {
		return 0, err
	}
	return streak.CurrentStreak, nil
}
