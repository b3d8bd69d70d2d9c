package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedXP struct {
	xp  int
	err error
}

func (f fixedXP) CurrentXP(context.Context, string) (int, error) {
	return f.xp, f.err
}

func newTestActivityService(repo *memoryActivities, queue *recordingQueue, cache *memoryReportCache, xp XPReader) *ActivityService {
	var invalidator ReportInvalidator
	if cache != nil {
		invalidator = cache
	}
	svc := NewActivityService(repo, queue, xp, invalidator, zap.NewNop())
	svc.now = fixedClock(date(2026, 3, 10).Add(9 * time.Hour))
	return svc
}

func TestActivityService_Log(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logged := date(2026, 3, 9).Add(21 * time.Hour)

	t.Run("Success: Workout is stored and queued", func(t *testing.T) {
		repo := newMemoryActivities()
		queue := &recordingQueue{}
		cache := newMemoryReportCache()
		svc := newTestActivityService(repo, queue, cache, fixedXP{xp: 420})

		w, err := svc.LogWorkout(ctx, &domain.WorkoutRecord{UserID: "u1", Date: logged, Name: "Legs", Completed: true})

		require.NoError(t, err)
		assert.NotEmpty(t, w.ID)
		assert.Equal(t, date(2026, 3, 9), w.Date, "date is truncated to the day")
		assert.Equal(t, date(2026, 3, 10).Add(9*time.Hour), w.CreatedAt)
		require.Len(t, repo.data.Workouts, 1)

		require.Len(t, queue.jobs, 1)
		assert.Equal(t, workers.ProgressJob{
			Kind:         workers.JobRecord,
			UserID:       "u1",
			ActivityDate: date(2026, 3, 9),
			XPBefore:     420,
		}, queue.jobs[0])
		assert.Equal(t, []string{"u1"}, cache.invalidated)
	})

	t.Run("Success: Every kind goes through the same path", func(t *testing.T) {
		repo := newMemoryActivities()
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{})

		_, err := svc.LogMeal(ctx, &domain.MealRecord{UserID: "u1", Date: logged, MealType: domain.MealLunch, Calories: 600})
		require.NoError(t, err)
		_, err = svc.LogWater(ctx, &domain.WaterRecord{UserID: "u1", Date: logged, AmountMl: 500})
		require.NoError(t, err)
		_, err = svc.LogSleep(ctx, &domain.SleepRecord{UserID: "u1", Date: logged, Hours: 7.5, Quality: 8})
		require.NoError(t, err)
		_, err = svc.LogBody(ctx, &domain.BodyMeasurement{UserID: "u1", Date: logged, WeightKg: 72.4})
		require.NoError(t, err)

		assert.Len(t, repo.data.Meals, 1)
		assert.Len(t, repo.data.Water, 1)
		assert.Len(t, repo.data.Sleep, 1)
		assert.Len(t, repo.data.Body, 1)
		assert.Len(t, queue.jobs, 4)
	})

	t.Run("Fail: Invalid record is rejected before any write", func(t *testing.T) {
		repo := newMemoryActivities()
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{})

		_, err := svc.LogWater(ctx, &domain.WaterRecord{UserID: "u1", Date: logged, AmountMl: 0})

		assert.EqualError(t, err, "amount_ml must be positive")
		assert.Empty(t, repo.data.Water)
		assert.Empty(t, queue.jobs)
	})

	t.Run("Fail: Future day is rejected before any write", func(t *testing.T) {
		repo := newMemoryActivities()
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{})

		_, err := svc.LogWorkout(ctx, &domain.WorkoutRecord{UserID: "u1", Date: date(2027, 1, 1), Name: "Legs", Completed: true})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "date cannot be in the future", verr.Message)
		assert.Empty(t, repo.data.Workouts)
		assert.Empty(t, queue.jobs)
	})

	t.Run("Fail: Store error is wrapped and nothing is queued", func(t *testing.T) {
		repo := newMemoryActivities()
		repo.simulateError = errors.New("insert failed")
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{})

		_, err := svc.LogSleep(ctx, &domain.SleepRecord{UserID: "u1", Date: logged, Hours: 8})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "activity service: failed to create sleep")
		assert.Empty(t, queue.jobs)
	})

	t.Run("Fail: XP read error stops the write", func(t *testing.T) {
		repo := newMemoryActivities()
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{err: errors.New("timeout")})

		_, err := svc.LogMeal(ctx, &domain.MealRecord{UserID: "u1", Date: logged, MealType: domain.MealDinner})

		assert.Error(t, err)
		assert.Empty(t, repo.data.Meals)
	})

	t.Run("Success: Cache failure does not fail the write", func(t *testing.T) {
		repo := newMemoryActivities()
		queue := &recordingQueue{}
		cache := newMemoryReportCache()
		cache.simulateError = errors.New("redis down")
		svc := newTestActivityService(repo, queue, cache, fixedXP{})

		_, err := svc.LogWater(ctx, &domain.WaterRecord{UserID: "u1", Date: logged, AmountMl: 250})

		assert.NoError(t, err)
		assert.Len(t, queue.jobs, 1)
	})
}

func TestActivityService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success: Delete queues a streak rebuild", func(t *testing.T) {
		repo := newMemoryActivities()
		repo.data.Workouts = []domain.WorkoutRecord{{ID: "w1", UserID: "u1", Date: date(2026, 3, 9)}}
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{})

		err := svc.Delete(ctx, domain.ActivityWorkout, "w1", "u1")

		require.NoError(t, err)
		assert.Empty(t, repo.data.Workouts)
		require.Len(t, queue.jobs, 1)
		assert.Equal(t, workers.JobRebuild, queue.jobs[0].Kind)
	})

	t.Run("Fail: Someone else's record is not found", func(t *testing.T) {
		repo := newMemoryActivities()
		repo.data.Workouts = []domain.WorkoutRecord{{ID: "w1", UserID: "u1", Date: date(2026, 3, 9)}}
		queue := &recordingQueue{}
		svc := newTestActivityService(repo, queue, nil, fixedXP{})

		err := svc.Delete(ctx, domain.ActivityWorkout, "w1", "intruder")

		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
		assert.Len(t, repo.data.Workouts, 1)
		assert.Empty(t, queue.jobs)
	})

	t.Run("Fail: Unknown kind", func(t *testing.T) {
		svc := newTestActivityService(newMemoryActivities(), &recordingQueue{}, nil, fixedXP{})

		err := svc.Delete(ctx, "yoga", "x", "u1")

		assert.ErrorIs(t, err, domain.ErrInvalidActivityKind)
	})
}

func TestActivityService_List(t *testing.T) {
	t.Parallel()
	repo := newMemoryActivities()
	repo.data.Water = []domain.WaterRecord{
		{UserID: "u1", Date: date(2026, 3, 1), AmountMl: 500},
		{UserID: "u1", Date: date(2026, 3, 20), AmountMl: 500},
	}
	svc := newTestActivityService(repo, &recordingQueue{}, nil, fixedXP{})
	r, err := domain.NewDateRange(date(2026, 3, 1), date(2026, 3, 7))
	require.NoError(t, err)

	data, err := svc.List(context.Background(), "u1", r)

	require.NoError(t, err)
	assert.Len(t, data.Water, 1)
}
