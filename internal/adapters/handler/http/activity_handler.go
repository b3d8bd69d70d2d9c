package http

import (
	"context"
	"net/http"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

type ActivityLogger interface {
	LogWorkout(ctx context.Context, w *domain.WorkoutRecord) (*domain.WorkoutRecord, error)
	LogMeal(ctx context.Context, m *domain.MealRecord) (*domain.MealRecord, error)
	LogWater(ctx context.Context, w *domain.WaterRecord) (*domain.WaterRecord, error)
	LogSleep(ctx context.Context, s *domain.SleepRecord) (*domain.SleepRecord, error)
	LogBody(ctx context.Context, b *domain.BodyMeasurement) (*domain.BodyMeasurement, error)
	List(ctx context.Context, userID string, r domain.DateRange) (*domain.PeriodData, error)
	Delete(ctx context.Context, kind domain.ActivityKind, id, userID string) error
}

type ActivityHandler struct {
	svc ActivityLogger
	now func() time.Time
}

func NewActivityHandler(svc ActivityLogger) *ActivityHandler {
	return &ActivityHandler{svc: svc, now: time.Now}
}

type workoutRequest struct {
	Date            string `json:"date"`
	Name            string `json:"name" binding:"required"`
	Completed       bool   `json:"completed"`
	DurationMinutes int    `json:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned"`
	PersonalRecords int    `json:"personal_records"`
}

type mealRequest struct {
	Date     string  `json:"date"`
	MealType string  `json:"meal_type" binding:"required"`
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

type waterRequest struct {
	Date     string `json:"date"`
	AmountMl int    `json:"amount_ml" binding:"required"`
}

type sleepRequest struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours" binding:"required"`
	Quality int     `json:"quality"`
}

type bodyRequest struct {
	Date       string   `json:"date"`
	WeightKg   float64  `json:"weight_kg" binding:"required"`
	BodyFatPct *float64 `json:"body_fat_pct"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/workouts", h.LogWorkout)
	router.POST("/meals", h.LogMeal)
	router.POST("/water", h.LogWater)
	router.POST("/sleep", h.LogSleep)
	router.POST("/body", h.LogBody)

	activities := router.Group("/activities")
	{
		activities.GET("", h.List)
		activities.DELETE("/:kind/:id", h.Delete)
	}
}

// bindActivity decodes the body and resolves its date, writing a 400 on failure.
func (h *ActivityHandler) bindActivity(c *gin.Context, req any, date *string) (string, time.Time, bool) {
	userID, ok := callerID(c)
	if !ok {
		return "", time.Time{}, false
	}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", time.Time{}, false
	}
	day, err := parseDay(*date, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return "", time.Time{}, false
	}
	return userID, day, true
}

func respondCreated[T any](c *gin.Context, record T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// LogWorkout godoc
// @Summary  Log a workout
// @Tags     activities
// @Accept   json
// @Produce  json
// @Param    body body workoutRequest true "workout"
// @Success  201 {object} domain.WorkoutRecord
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /workouts [post]
func (h *ActivityHandler) LogWorkout(c *gin.Context) {
	var req workoutRequest
	userID, day, ok := h.bindActivity(c, &req, &req.Date)
	if !ok {
		return
	}

	record, err := h.svc.LogWorkout(c.Request.Context(), &domain.WorkoutRecord{
		UserID:          userID,
		Date:            day,
		Name:            req.Name,
		Completed:       req.Completed,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		PersonalRecords: req.PersonalRecords,
	})
	respondCreated(c, record, err)
}

func (h *ActivityHandler) LogMeal(c *gin.Context) {
	var req mealRequest
	userID, day, ok := h.bindActivity(c, &req, &req.Date)
	if !ok {
		return
	}

	record, err := h.svc.LogMeal(c.Request.Context(), &domain.MealRecord{
		UserID:   userID,
		Date:     day,
		MealType: domain.MealType(req.MealType),
		Calories: req.Calories,
		ProteinG: req.ProteinG,
		CarbsG:   req.CarbsG,
		FatG:     req.FatG,
	})
	respondCreated(c, record, err)
}

func (h *ActivityHandler) LogWater(c *gin.Context) {
	var req waterRequest
	userID, day, ok := h.bindActivity(c, &req, &req.Date)
	if !ok {
		return
	}

	record, err := h.svc.LogWater(c.Request.Context(), &domain.WaterRecord{
		UserID:   userID,
		Date:     day,
		AmountMl: req.AmountMl,
	})
	respondCreated(c, record, err)
}

func (h *ActivityHandler) LogSleep(c *gin.Context) {
	var req sleepRequest
	userID, day, ok := h.bindActivity(c, &req, &req.Date)
	if !ok {
		return
	}

	record, err := h.svc.LogSleep(c.Request.Context(), &domain.SleepRecord{
		UserID:  userID,
		Date:    day,
		Hours:   req.Hours,
		Quality: req.Quality,
	})
	respondCreated(c, record, err)
}

func (h *ActivityHandler) LogBody(c *gin.Context) {
	var req bodyRequest
	userID, day, ok := h.bindActivity(c, &req, &req.Date)
	if !ok {
		return
	}

	record, err := h.svc.LogBody(c.Request.Context(), &domain.BodyMeasurement{
		UserID:     userID,
		Date:       day,
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
	})
	respondCreated(c, record, err)
}

// List godoc
// @Summary  Activity records in a date range
// @Tags     activities
// @Produce  json
// @Param    kind    query string false "workout, meal, water, sleep or body"
// @Param    from    query string false "YYYY-MM-DD, defaults to six days before to"
// @Param    to      query string false "YYYY-MM-DD, defaults to today"
// @Param    user_id query string false "another user (coach/admin only)"
// @Success  200 {object} map[string]any
// @Security BearerAuth
// @Router   /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	var kind domain.ActivityKind
	if v := c.Query("kind"); v != "" {
		k, err := domain.ParseActivityKind(v)
		if err != nil {
			respondError(c, err)
			return
		}
		kind = k
	}

	r, err := parseRange(c, "from", "to", h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.svc.List(c.Request.Context(), userID, r)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activitiesResponse(data, kind))
}

// activitiesResponse keeps only the requested kind, or every kind when empty.
func activitiesResponse(data *domain.PeriodData, kind domain.ActivityKind) gin.H {
	out := gin.H{}
	include := func(k domain.ActivityKind, key string, rows any) {
		if kind == "" || kind == k {
			out[key] = rows
		}
	}
	include(domain.ActivityWorkout, "workouts", nonNil(data.Workouts))
	include(domain.ActivityMeal, "meals", nonNil(data.Meals))
	include(domain.ActivityWater, "water", nonNil(data.Water))
	include(domain.ActivitySleep, "sleep", nonNil(data.Sleep))
	include(domain.ActivityBody, "body", nonNil(data.Body))
	return out
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// Delete godoc
// @Summary  Delete one of the caller's records
// @Tags     activities
// @Param    kind path string true "workout, meal, water, sleep or body"
// @Param    id   path string true "record id"
// @Success  204
// @Failure  400,404 {object} map[string]string
// @Security BearerAuth
// @Router   /activities/{kind}/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	kind, err := domain.ParseActivityKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), kind, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
