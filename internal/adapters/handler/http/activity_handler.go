package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/adapters/handler/http/middleware"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/services"
)

type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type recordActivityRequest struct {
	Kind       string `json:"kind" binding:"required"`
	OccurredAt string `json:"occurred_at"`
}

func (h *ActivityHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/activity", h.RecordActivity)
	r.GET("/gamification/points", h.GetPointHistory)
}

func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var at time.Time
	if req.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occurred_at, expected RFC3339"})
			return
		}
		at = parsed
	}

	record, err := h.svc.RecordActivity(c.Request.Context(), userID, req.Kind, at)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownActivityKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown activity kind"})
		case errors.Is(err, domain.ErrInvalidActivityTime):
			// Out-of-order delivery; the caller must not replay the
			// same timestamp.
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "activity time precedes last recorded activity"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record activity"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *ActivityHandler) GetPointHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := intQuery(c, "limit", 0)

	entries, err := h.svc.GetPointHistory(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve point history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": entries})
}
