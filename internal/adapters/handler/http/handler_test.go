package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// fixedNow is 2026-03-10 18:30 UTC.
var fixedNow = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestRouter authenticates requests from the X-Test-User and X-Test-Role
// headers instead of a JWT.
func newTestRouter(register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(middleware.ContextUserIDKey, id)
		}
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(middleware.ContextRoleKey, domain.Role(role))
		}
		c.Next()
	})
	register(api)
	return router
}

type testRequest struct {
	method string
	path   string
	body   any
	user   string
	role   domain.Role
}

func (r testRequest) do(router *gin.Engine) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if r.body != nil {
		if s, ok := r.body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(r.body)
		}
	}
	req := httptest.NewRequest(r.method, r.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if r.user != "" {
		req.Header.Set("X-Test-User", r.user)
	}
	if r.role != "" {
		req.Header.Set("X-Test-Role", string(r.role))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type MockTargetsService struct {
	mock.Mock
}

func (m *MockTargetsService) GetTargets(ctx context.Context, userID string) (*domain.Targets, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Targets), args.Error(1)
}

func (m *MockTargetsService) UpdateTargets(ctx context.Context, input services.UpdateTargetsInput) (*domain.Targets, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Targets), args.Error(1)
}

type MockActivityLogger struct {
	mock.Mock
}

func (m *MockActivityLogger) LogWorkout(ctx context.Context, w *domain.WorkoutRecord) (*domain.WorkoutRecord, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutRecord), args.Error(1)
}

func (m *MockActivityLogger) LogMeal(ctx context.Context, meal *domain.MealRecord) (*domain.MealRecord, error) {
	args := m.Called(ctx, meal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MealRecord), args.Error(1)
}

func (m *MockActivityLogger) LogWater(ctx context.Context, w *domain.WaterRecord) (*domain.WaterRecord, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaterRecord), args.Error(1)
}

func (m *MockActivityLogger) LogSleep(ctx context.Context, s *domain.SleepRecord) (*domain.SleepRecord, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SleepRecord), args.Error(1)
}

func (m *MockActivityLogger) LogBody(ctx context.Context, b *domain.BodyMeasurement) (*domain.BodyMeasurement, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BodyMeasurement), args.Error(1)
}

func (m *MockActivityLogger) List(ctx context.Context, userID string, r domain.DateRange) (*domain.PeriodData, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodData), args.Error(1)
}

func (m *MockActivityLogger) Delete(ctx context.Context, kind domain.ActivityKind, id, userID string) error {
	return m.Called(ctx, kind, id, userID).Error(0)
}

type MockProgressTracker struct {
	mock.Mock
}

func (m *MockProgressTracker) GetProgress(ctx context.Context, userID string) (*services.ProgressView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProgressView), args.Error(1)
}

func (m *MockProgressTracker) ListAchievements(ctx context.Context, userID string) ([]services.AchievementStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.AchievementStatus), args.Error(1)
}

func (m *MockProgressTracker) RecordActivity(ctx context.Context, input services.RecordActivityInput) (*services.ProgressUpdate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProgressUpdate), args.Error(1)
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) DailyScore(ctx context.Context, userID string, date time.Time) domain.DailyScoreBreakdown {
	return m.Called(ctx, userID, date).Get(0).(domain.DailyScoreBreakdown)
}

func (m *MockReporter) Summary(ctx context.Context, userID string, r domain.DateRange) domain.PeriodSummary {
	return m.Called(ctx, userID, r).Get(0).(domain.PeriodSummary)
}

func (m *MockReporter) Weekly(ctx context.Context, userID string, end time.Time) domain.Report {
	return m.Called(ctx, userID, end).Get(0).(domain.Report)
}
