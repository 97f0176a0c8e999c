package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/adapters/handler/http/middleware"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/services"
)

type GamificationHandler struct {
	streaks  *services.StreakService
	badges   *services.BadgeService
	stats    *services.StatsService
	activity *services.ActivityService
}

func NewGamificationHandler(
	streaks *services.StreakService,
	badges *services.BadgeService,
	stats *services.StatsService,
	activity *services.ActivityService,
) *GamificationHandler {
	return &GamificationHandler{
		streaks:  streaks,
		badges:   badges,
		stats:    stats,
		activity: activity,
	}
}

func (h *GamificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/gamification", h.GetOverview)
	r.GET("/gamification/badges", h.GetBadges)
	r.GET("/gamification/streak", h.GetStreak)
	r.GET("/gamification/stats", h.GetStats)
}

// RegisterPublicRoutes mounts the reads that need no authentication.
func (h *GamificationHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/leaderboard", h.GetLeaderboard)
}

// GetOverview bundles badges, streak, stats and recent points into the
// single payload the dashboard renders. Read-only: recording activity
// is POST /activity's job alone.
func (h *GamificationHandler) GetOverview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	badges, err := h.badges.GetBadges(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve gamification data"})
		return
	}

	streak, err := h.streaks.GetStreak(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve gamification data"})
		return
	}

	stats, err := h.stats.GetStats(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve gamification data"})
		return
	}

	points, err := h.activity.GetPointHistory(ctx, userID, 0)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve gamification data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badges": badges,
		"streak": streak,
		"stats":  stats,
		"points": points,
	})
}

func (h *GamificationHandler) GetBadges(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	badges, err := h.badges.GetBadges(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (h *GamificationHandler) GetStreak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	streak, err := h.streaks.GetStreak(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve streak"})
		return
	}

	c.JSON(http.StatusOK, streak)
}

func (h *GamificationHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.stats.GetStats(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	limit := intQuery(c, "limit", 0)

	entries, err := h.stats.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
