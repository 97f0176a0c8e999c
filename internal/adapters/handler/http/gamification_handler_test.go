package http_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

func TestGamificationHandler_GetOverview(t *testing.T) {
	t.Run("Success: bundles badges, streak, stats and points", func(t *testing.T) {
		stack := newTestStack(t)

		stack.counts.AddNeed("user-1")
		w := stack.do(t, http.MethodPost, "/api/v1/activity", "user-1", map[string]string{
			"kind": "NEED_REPORTED",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = stack.do(t, http.MethodGet, "/api/v1/gamification", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Badges []domain.BadgeStatus `json:"badges"`
			Streak domain.UserStreak    `json:"streak"`
			Stats  domain.UserStats     `json:"stats"`
			Points []domain.PointEntry  `json:"points"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Len(t, body.Badges, len(domain.BadgeCatalog))
		assert.Equal(t, 0, body.Streak.CurrentStreak)
		// 10 for the need plus the 20-point badge bonus.
		assert.Equal(t, 30, body.Stats.TotalPoints)
		assert.Len(t, body.Points, 2)
	})

	t.Run("Fail: missing user context is unauthorized", func(t *testing.T) {
		stack := newTestStack(t)

		w := stack.do(t, http.MethodGet, "/api/v1/gamification", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGamificationHandler_GetStreak(t *testing.T) {
	t.Run("Success: an inactive user reads as a zero streak", func(t *testing.T) {
		stack := newTestStack(t)

		w := stack.do(t, http.MethodGet, "/api/v1/gamification/streak", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var streak domain.UserStreak
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &streak))
		assert.Equal(t, "user-1", streak.UserID)
		assert.Zero(t, streak.CurrentStreak)
		assert.Zero(t, streak.LongestStreak)
	})

	t.Run("Success: reflects recorded logins", func(t *testing.T) {
		stack := newTestStack(t)

		base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
		for i := 0; i < 2; i++ {
			w := stack.do(t, http.MethodPost, "/api/v1/activity", "user-1", map[string]string{
				"kind":        "LOGIN",
				"occurred_at": base.AddDate(0, 0, i).Format(time.RFC3339),
			})
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := stack.do(t, http.MethodGet, "/api/v1/gamification/streak", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var streak domain.UserStreak
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &streak))
		assert.Equal(t, 2, streak.CurrentStreak)
	})
}

func TestGamificationHandler_GetBadges(t *testing.T) {
	t.Run("Success: full catalog with earned flags and progress", func(t *testing.T) {
		stack := newTestStack(t)

		stack.counts.AddNeed("user-1")
		w := stack.do(t, http.MethodPost, "/api/v1/activity", "user-1", map[string]string{
			"kind": "NEED_REPORTED",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = stack.do(t, http.MethodGet, "/api/v1/gamification/badges", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Badges []domain.BadgeStatus `json:"badges"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Badges, len(domain.BadgeCatalog))

		byID := make(map[string]domain.BadgeStatus)
		for _, b := range body.Badges {
			byID[b.ID] = b
		}
		assert.True(t, byID["first-need"].Earned)
		assert.False(t, byID["need-reporter-5"].Earned)
		assert.Equal(t, 1, byID["need-reporter-5"].Progress)
	})
}

func TestGamificationHandler_GetStats(t *testing.T) {
	t.Run("Success: builds the summary lazily for a fresh user", func(t *testing.T) {
		stack := newTestStack(t)

		w := stack.do(t, http.MethodGet, "/api/v1/gamification/stats", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stats domain.UserStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, "user-1", stats.UserID)
		assert.Zero(t, stats.TotalPoints)
	})
}

func TestGamificationHandler_GetLeaderboard(t *testing.T) {
	t.Run("Success: public, ranked, and limited", func(t *testing.T) {
		stack := newTestStack(t)

		for _, u := range []struct {
			id    string
			needs int
		}{{"user-a", 1}, {"user-b", 3}, {"user-c", 2}} {
			for i := 0; i < u.needs; i++ {
				stack.counts.AddNeed(u.id)
				w := stack.do(t, http.MethodPost, "/api/v1/activity", u.id, map[string]string{
					"kind": "NEED_REPORTED",
				})
				require.Equal(t, http.StatusOK, w.Code)
			}
		}

		// No X-User-ID header: the leaderboard needs no identity.
		w := stack.do(t, http.MethodGet, "/api/v1/leaderboard?limit=2", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Leaderboard, 2)
		assert.Equal(t, 1, body.Leaderboard[0].Rank)
		assert.Equal(t, "user-b", body.Leaderboard[0].UserID)
		assert.Equal(t, 2, body.Leaderboard[1].Rank)
		assert.Equal(t, "user-c", body.Leaderboard[1].UserID)
	})

	t.Run("Edge Case: empty board is an empty list, not an error", func(t *testing.T) {
		stack := newTestStack(t)

		w := stack.do(t, http.MethodGet, "/api/v1/leaderboard", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}
