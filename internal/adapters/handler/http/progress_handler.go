package http

import (
	"context"
	"net/http"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/services"
	"github.com/gin-gonic/gin"
)

type ProgressTracker interface {
	GetProgress(ctx context.Context, userID string) (*services.ProgressView, error)
	ListAchievements(ctx context.Context, userID string) ([]services.AchievementStatus, error)
	RecordActivity(ctx context.Context, input services.RecordActivityInput) (*services.ProgressUpdate, error)
}

type ProgressHandler struct {
	svc ProgressTracker
	now func() time.Time
}

func NewProgressHandler(svc ProgressTracker) *ProgressHandler {
	return &ProgressHandler{svc: svc, now: time.Now}
}

type checkProgressRequest struct {
	Date string `json:"date"`
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/progress", h.GetProgress)
	router.POST("/progress/check", h.Check)
	router.GET("/achievements", h.ListAchievements)
}

// GetProgress godoc
// @Summary  XP, level, streak and unlocked achievements
// @Tags     progress
// @Produce  json
// @Param    user_id query string false "another user (coach/admin only)"
// @Success  200 {object} services.ProgressView
// @Security BearerAuth
// @Router   /progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Check godoc
// @Summary  Fold a day of activity into streak, achievements and level now
// @Tags     progress
// @Accept   json
// @Produce  json
// @Param    body body checkProgressRequest false "day to record, defaults to today"
// @Success  200 {object} services.ProgressUpdate
// @Failure  400,422 {object} map[string]string
// @Security BearerAuth
// @Router   /progress/check [post]
func (h *ProgressHandler) Check(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req checkProgressRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	now := h.now()
	day, err := parseDay(req.Date, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}
	if err := domain.ValidateNotFuture(day, now); err != nil {
		respondError(c, err)
		return
	}

	update, err := h.svc.RecordActivity(c.Request.Context(), services.RecordActivityInput{
		UserID: userID,
		Date:   day,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

// ListAchievements godoc
// @Summary  Achievement catalog with unlock state
// @Tags     progress
// @Produce  json
// @Param    user_id query string false "another user (coach/admin only)"
// @Success  200 {array} services.AchievementStatus
// @Security BearerAuth
// @Router   /achievements [get]
func (h *ProgressHandler) ListAchievements(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
