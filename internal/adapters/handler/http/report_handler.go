package http

import (
	"context"
	"net/http"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Reporter never fails: store errors surface as empty summaries.
type Reporter interface {
	DailyScore(ctx context.Context, userID string, date time.Time) domain.DailyScoreBreakdown
	Summary(ctx context.Context, userID string, r domain.DateRange) domain.PeriodSummary
	Weekly(ctx context.Context, userID string, end time.Time) domain.Report
}

type ReportHandler struct {
	svc Reporter
	now func() time.Time
}

func NewReportHandler(svc Reporter) *ReportHandler {
	return &ReportHandler{svc: svc, now: time.Now}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/score/daily", h.DailyScore)

	reports := router.Group("/reports")
	{
		reports.GET("/summary", h.Summary)
		reports.GET("/weekly", h.Weekly)
	}
}

// DailyScore godoc
// @Summary  Score breakdown of one day
// @Tags     reports
// @Produce  json
// @Param    date    query string false "YYYY-MM-DD, defaults to today"
// @Param    user_id query string false "another user (coach/admin only)"
// @Success  200 {object} domain.DailyScoreBreakdown
// @Security BearerAuth
// @Router   /score/daily [get]
func (h *ReportHandler) DailyScore(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	day, err := parseDay(c.Query("date"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	c.JSON(http.StatusOK, h.svc.DailyScore(c.Request.Context(), userID, day))
}

// Summary godoc
// @Summary  Period summary
// @Tags     reports
// @Produce  json
// @Param    start_date query string false "YYYY-MM-DD, defaults to six days before end_date"
// @Param    end_date   query string false "YYYY-MM-DD, defaults to today"
// @Param    user_id    query string false "another user (coach/admin only)"
// @Success  200 {object} domain.PeriodSummary
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	r, err := parseRange(c, "start_date", "end_date", h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.svc.Summary(c.Request.Context(), userID, r))
}

// Weekly godoc
// @Summary  Seven-day report with trends and insights
// @Tags     reports
// @Produce  json
// @Param    end_date query string false "YYYY-MM-DD, defaults to today"
// @Param    user_id  query string false "another user (coach/admin only)"
// @Success  200 {object} domain.Report
// @Security BearerAuth
// @Router   /reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	userID, ok := subjectID(c)
	if !ok {
		return
	}

	end, err := parseDay(c.Query("end_date"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Weekly(c.Request.Context(), userID, end))
}
