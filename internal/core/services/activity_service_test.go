package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/adapters/repository"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/services"
)

// engine wires the full service graph over the in-memory adapters, the
// same shape main assembles over Postgres.
type engine struct {
	activity *services.ActivityService
	streaks  *services.StreakService
	badges   *services.BadgeService
	stats    *services.StatsService
	counts   *repository.InMemoryActivityCounts
	ledger   *repository.InMemoryLedgerRepository
	enqueued *recordingEnqueuer
}

func newEngine() *engine {
	users := repository.NewInMemoryUserRepository()
	streakRepo := repository.NewInMemoryStreakRepository()
	awardRepo := repository.NewInMemoryBadgeAwardRepository()
	ledger := repository.NewInMemoryLedgerRepository()
	statsRepo := repository.NewInMemoryStatsRepository(users)
	counts := repository.NewInMemoryActivityCounts()

	streakSvc := services.NewStreakService(streakRepo, ledger)
	badgeSvc := services.NewBadgeService(awardRepo, counts, streakSvc, ledger)
	statsSvc := services.NewStatsService(statsRepo, ledger, awardRepo, counts)
	enqueued := &recordingEnqueuer{}
	activitySvc := services.NewActivityService(streakSvc, badgeSvc, statsSvc, ledger, enqueued)

	return &engine{
		activity: activitySvc,
		streaks:  streakSvc,
		badges:   badgeSvc,
		stats:    statsSvc,
		counts:   counts,
		ledger:   ledger,
		enqueued: enqueued,
	}
}

func TestActivityService_RecordActivity(t *testing.T) {
	ctx := context.Background()
	userID := "user-1"
	day := func(n int) time.Time {
		return time.Date(2026, 3, 1+n, 9, 0, 0, 0, time.UTC)
	}

	t.Run("Fail: unknown kind is rejected before any write", func(t *testing.T) {
		e := newEngine()

		_, err := e.activity.RecordActivity(ctx, userID, "SHOUTED_LOUDLY", day(0))

		assert.ErrorIs(t, err, domain.ErrUnknownActivityKind)
		sum, _ := e.ledger.SumByUserID(ctx, userID)
		assert.Zero(t, sum)
	})

	t.Run("Three consecutive login days build a 3-day streak", func(t *testing.T) {
		e := newEngine()

		var rec *domain.ActivityRecord
		var err error
		for i := 0; i < 3; i++ {
			rec, err = e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(i))
			require.NoError(t, err)
		}

		require.NotNil(t, rec.Streak)
		assert.Equal(t, 3, rec.Streak.CurrentStreak)
		assert.Equal(t, 3, rec.Streak.LongestStreak)

		// Day one starts the streak; days two and three each credit
		// STREAK_DAY. LOGIN itself never writes a ledger row.
		sum, err := e.ledger.SumByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 4, sum)
	})

	t.Run("A skipped day resets current but keeps the longest run", func(t *testing.T) {
		e := newEngine()

		for i := 0; i < 3; i++ {
			_, err := e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(i))
			require.NoError(t, err)
		}

		rec, err := e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(4))
		require.NoError(t, err)

		assert.Equal(t, 1, rec.Streak.CurrentStreak)
		assert.Equal(t, 3, rec.Streak.LongestStreak)
		assert.Zero(t, rec.PointsAwarded)
	})

	t.Run("Same-day repeat login changes nothing", func(t *testing.T) {
		e := newEngine()

		_, err := e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(0))
		require.NoError(t, err)
		before, _ := e.ledger.SumByUserID(ctx, userID)

		rec, err := e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(0).Add(5*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, 1, rec.Streak.CurrentStreak)
		after, _ := e.ledger.SumByUserID(ctx, userID)
		assert.Equal(t, before, after)
	})

	t.Run("Fail: activity behind the last recorded day is rejected", func(t *testing.T) {
		e := newEngine()

		_, err := e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(5))
		require.NoError(t, err)

		_, err = e.activity.RecordActivity(ctx, userID, domain.ActivityLogin, day(2))
		assert.ErrorIs(t, err, domain.ErrInvalidActivityTime)
	})

	t.Run("Ten reported needs earn 160 points and three badges", func(t *testing.T) {
		e := newEngine()

		var earned []string
		for i := 0; i < 10; i++ {
			e.counts.AddNeed(userID)
			rec, err := e.activity.RecordActivity(ctx, userID, domain.ActivityNeedReported, day(0))
			require.NoError(t, err)
			assert.Equal(t, 10, rec.PointsAwarded)
			for _, b := range rec.BadgesAwarded {
				earned = append(earned, b.ID)
			}
		}

		// 10 x 10 activity points plus a 20-point bonus per badge.
		sum, err := e.ledger.SumByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 160, sum)
		assert.Equal(t, []string{"first-need", "need-reporter-5", "need-reporter-10"}, earned)
	})

	t.Run("The stored summary always matches the ledger and counters", func(t *testing.T) {
		e := newEngine()

		e.counts.AddNeed(userID)
		_, err := e.activity.RecordActivity(ctx, userID, domain.ActivityNeedReported, day(0))
		require.NoError(t, err)
		e.counts.AddCohort(userID)
		_, err = e.activity.RecordActivity(ctx, userID, domain.ActivityCohortCreated, day(0))
		require.NoError(t, err)

		stats, err := e.stats.GetStats(ctx, userID)
		require.NoError(t, err)

		sum, _ := e.ledger.SumByUserID(ctx, userID)
		assert.Equal(t, sum, stats.TotalPoints)
		assert.Equal(t, 1, stats.NeedsReported)
		assert.Equal(t, 1, stats.CohortsCreated)
		// first-need and cohort-creator both crossed.
		assert.Equal(t, 2, stats.BadgesEarned)
	})

	t.Run("Edge Case: zero occurred-at defaults to now", func(t *testing.T) {
		e := newEngine()

		rec, err := e.activity.RecordActivity(ctx, userID, domain.ActivityFeedbackProvided, time.Time{})

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), rec.OccurredAt, time.Minute)
		assert.Equal(t, 5, rec.PointsAwarded)
	})
}

func TestBadgeService_ConcurrentEvaluation(t *testing.T) {
	ctx := context.Background()
	userID := "user-1"

	t.Run("Racing evaluators at a threshold award and credit once", func(t *testing.T) {
		e := newEngine()

		for i := 0; i < 5; i++ {
			e.counts.AddNeed(userID)
		}

		const evaluators = 10
		var wg sync.WaitGroup
		for i := 0; i < evaluators; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.badges.EvaluateAll(ctx, userID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// Two thresholds crossed, so exactly two bonus entries: each
		// losing evaluator saw the duplicate award and credited nothing.
		sum, err := e.ledger.SumByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2*domain.PointValues[domain.ActionBadgeEarned], sum)

		badges, err := e.badges.GetBadges(ctx, userID)
		require.NoError(t, err)
		earned := 0
		for _, b := range badges {
			if b.Earned {
				earned++
			}
		}
		assert.Equal(t, 2, earned)
	})
}

func TestActivityService_GetPointHistory(t *testing.T) {
	ctx := context.Background()
	userID := "user-1"

	t.Run("Returns newest entries first and honors the limit", func(t *testing.T) {
		e := newEngine()

		for i := 0; i < 5; i++ {
			entry := domain.NewPointEntry(userID, domain.ActivityNeedReported, 10, "Reported a classroom need")
			entry.CreatedAt = time.Date(2026, 3, 1, 9, i, 0, 0, time.UTC)
			require.NoError(t, e.ledger.Append(ctx, entry))
		}

		history, err := e.activity.GetPointHistory(ctx, userID, 3)

		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))
	})

	t.Run("Edge Case: non-positive limit falls back to the default", func(t *testing.T) {
		e := newEngine()

		entry := domain.NewPointEntry(userID, domain.ActivityFeedbackProvided, 5, "Provided session feedback")
		require.NoError(t, e.ledger.Append(ctx, entry))

		history, err := e.activity.GetPointHistory(ctx, userID, 0)

		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}
