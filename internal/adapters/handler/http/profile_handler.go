package http

import (
	"context"
	"net/http"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/services"
	"github.com/gin-gonic/gin"
)

type TargetsService interface {
	GetTargets(ctx context.Context, userID string) (*domain.Targets, error)
	UpdateTargets(ctx context.Context, input services.UpdateTargetsInput) (*domain.Targets, error)
}

type ProfileHandler struct {
	svc TargetsService
}

func NewProfileHandler(svc TargetsService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type updateTargetsRequest struct {
	CalorieTarget int     `json:"calorie_target" binding:"required"`
	ProteinTarget float64 `json:"protein_target"`
	WaterTargetMl int     `json:"water_target_ml" binding:"required"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("/targets", h.GetTargets)
		profile.PUT("/targets", h.UpdateTargets)
	}
}

// GetTargets godoc
// @Summary  Daily goals used for scoring
// @Tags     profile
// @Produce  json
// @Param    user_id query string false "another user (coach/admin only)"
// @Success  200 {object} domain.Targets
// @Security BearerAuth
// @Router   /profile/targets [get]
func (h *ProfileHandler) GetTargets(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	targets, err := h.svc.GetTargets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

// UpdateTargets godoc
// @Summary  Replace the caller's daily goals
// @Tags     profile
// @Accept   json
// @Produce  json
// @Param    body body updateTargetsRequest true "new goals"
// @Success  200 {object} domain.Targets
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /profile/targets [put]
func (h *ProfileHandler) UpdateTargets(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req updateTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targets, err := h.svc.UpdateTargets(c.Request.Context(), services.UpdateTargetsInput{
		UserID:        userID,
		CalorieTarget: req.CalorieTarget,
		ProteinTarget: req.ProteinTarget,
		WaterTargetMl: req.WaterTargetMl,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}
