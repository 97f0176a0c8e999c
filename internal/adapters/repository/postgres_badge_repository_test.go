package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

func TestPostgresBadgeAwardRepository_Integration(t *testing.T) {
	db, teardown := setupPostgres(t)
	defer teardown()

	repo := NewPostgresBadgeAwardRepository(db)
	ctx := context.Background()

	t.Run("Create then list and count", func(t *testing.T) {
		userID := uuid.NewString()

		require.NoError(t, repo.Create(ctx, domain.NewBadgeAward(userID, "first-need")))
		require.NoError(t, repo.Create(ctx, domain.NewBadgeAward(userID, "cohort-creator")))

		awards, err := repo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, awards, 2)

		count, err := repo.CountByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Duplicate award maps to the domain sentinel under the pgx driver", func(t *testing.T) {
		userID := uuid.NewString()

		require.NoError(t, repo.Create(ctx, domain.NewBadgeAward(userID, "first-need")))

		err := repo.Create(ctx, domain.NewBadgeAward(userID, "first-need"))
		assert.ErrorIs(t, err, domain.ErrBadgeAlreadyAwarded)
	})

	t.Run("Concurrent creates award exactly once", func(t *testing.T) {
		userID := uuid.NewString()

		const workers = 10
		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- repo.Create(ctx, domain.NewBadgeAward(userID, "need-reporter-5"))
			}()
		}
		wg.Wait()
		close(results)

		successes := 0
		for err := range results {
			if err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, domain.ErrBadgeAlreadyAwarded)
			}
		}
		assert.Equal(t, 1, successes)
	})
}
