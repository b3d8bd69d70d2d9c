package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWarmer struct {
	ranges []domain.DateRange
	err    error
}

func (f *fakeWarmer) WarmReports(_ context.Context, r domain.DateRange) (int, error) {
	f.ranges = append(f.ranges, r)
	return 3, f.err
}

func TestReportScheduler_RunOnce(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC)

	t.Run("Warms the week ending yesterday", func(t *testing.T) {
		warmer := &fakeWarmer{}
		s := NewReportScheduler(warmer, zap.NewNop(), "")
		s.now = func() time.Time { return now }

		err := s.RunOnce(context.Background())

		require.NoError(t, err)
		require.Len(t, warmer.ranges, 1)
		assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), warmer.ranges[0].Start)
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), warmer.ranges[0].End)
		assert.Equal(t, 7, warmer.ranges[0].Days())
	})

	t.Run("Warmer error is returned", func(t *testing.T) {
		warmer := &fakeWarmer{err: errors.New("db down")}
		s := NewReportScheduler(warmer, zap.NewNop(), "")
		s.now = func() time.Time { return now }

		assert.Error(t, s.RunOnce(context.Background()))
	})
}

func TestReportScheduler_Start(t *testing.T) {
	t.Run("Rejects an invalid schedule", func(t *testing.T) {
		s := NewReportScheduler(&fakeWarmer{}, zap.NewNop(), "not a schedule")

		assert.Error(t, s.Start(context.Background()))
	})

	t.Run("Stops with the context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewReportScheduler(&fakeWarmer{}, zap.NewNop(), DefaultWarmSchedule)

		require.NoError(t, s.Start(ctx))
		assert.Len(t, s.cron.Entries(), 1)
		cancel()
	})
}
