package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/workers"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProgressQueue interface {
	Enqueue(job workers.ProgressJob)
}

type XPReader interface {
	CurrentXP(ctx context.Context, userID string) (int, error)
}

type ReportInvalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

type ActivityService struct {
	repo        domain.ActivityRepository
	queue       ProgressQueue
	xp          XPReader
	invalidator ReportInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewActivityService wires the activity log. invalidator may be nil when no
// report cache is configured.
func NewActivityService(repo domain.ActivityRepository, queue ProgressQueue, xp XPReader, invalidator ReportInvalidator, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		repo:        repo,
		queue:       queue,
		xp:          xp,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ActivityService) LogWorkout(ctx context.Context, w *domain.WorkoutRecord) (*domain.WorkoutRecord, error) {
	err := s.log(ctx, domain.ActivityWorkout, w.UserID, &w.ID, &w.Date, &w.CreatedAt, w.Validate, func() error {
		return s.repo.CreateWorkout(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *ActivityService) LogMeal(ctx context.Context, m *domain.MealRecord) (*domain.MealRecord, error) {
	err := s.log(ctx, domain.ActivityMeal, m.UserID, &m.ID, &m.Date, &m.CreatedAt, m.Validate, func() error {
		return s.repo.CreateMeal(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ActivityService) LogWater(ctx context.Context, w *domain.WaterRecord) (*domain.WaterRecord, error) {
	err := s.log(ctx, domain.ActivityWater, w.UserID, &w.ID, &w.Date, &w.CreatedAt, w.Validate, func() error {
		return s.repo.CreateWater(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *ActivityService) LogSleep(ctx context.Context, sl *domain.SleepRecord) (*domain.SleepRecord, error) {
	err := s.log(ctx, domain.ActivitySleep, sl.UserID, &sl.ID, &sl.Date, &sl.CreatedAt, sl.Validate, func() error {
		return s.repo.CreateSleep(ctx, sl)
	})
	if err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *ActivityService) LogBody(ctx context.Context, b *domain.BodyMeasurement) (*domain.BodyMeasurement, error) {
	err := s.log(ctx, domain.ActivityBody, b.UserID, &b.ID, &b.Date, &b.CreatedAt, b.Validate, func() error {
		return s.repo.CreateBody(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// log is the shared write path: validate, stamp, store, then hand the day
// to the progress worker.
func (s *ActivityService) log(
	ctx context.Context,
	kind domain.ActivityKind,
	userID string,
	id *string,
	date, createdAt *time.Time,
	validate func() error,
	create func() error,
) error {
	if err := validate(); err != nil {
		return err
	}
	if err := domain.ValidateNotFuture(*date, s.now()); err != nil {
		return err
	}

	xpBefore, err := s.xp.CurrentXP(ctx, userID)
	if err != nil {
		return fmt.Errorf("activity service: failed to read xp: %w", err)
	}

	*id = uuid.NewString()
	*date = domain.Day(*date)
	*createdAt = s.now().UTC()

	if err := create(); err != nil {
		return fmt.Errorf("activity service: failed to create %s: %w", kind, err)
	}

	metrics.ActivitiesLogged.WithLabelValues(string(kind)).Inc()
	s.invalidate(ctx, userID)
	s.queue.Enqueue(workers.ProgressJob{
		Kind:         workers.JobRecord,
		UserID:       userID,
		ActivityDate: *date,
		XPBefore:     xpBefore,
	})

	s.logger.Debug("activity logged",
		zap.String("user_id", userID),
		zap.String("kind", string(kind)),
		zap.String("id", *id),
	)
	return nil
}

// List returns every activity row of the user inside r.
func (s *ActivityService) List(ctx context.Context, userID string, r domain.DateRange) (*domain.PeriodData, error) {
	data, err := s.repo.ListInRange(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("activity service: failed to list activity: %w", err)
	}
	return data, nil
}

func (s *ActivityService) Delete(ctx context.Context, kind domain.ActivityKind, id, userID string) error {
	if _, err := domain.ParseActivityKind(string(kind)); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, kind, id, userID); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	s.queue.Enqueue(workers.ProgressJob{Kind: workers.JobRebuild, UserID: userID})

	s.logger.Info("activity deleted",
		zap.String("user_id", userID),
		zap.String("kind", string(kind)),
		zap.String("id", id),
	)
	return nil
}

func (s *ActivityService) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate cached reports",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
