package workers

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/metrics"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// DefaultWarmSchedule fires every Monday at 06:00 UTC (seconds field first).
const DefaultWarmSchedule = "0 0 6 * * 1"

const warmReportsJob = "warm_reports"

type ReportWarmer interface {
	WarmReports(ctx context.Context, r domain.DateRange) (int, error)
}

// ReportScheduler precomputes last week's reports so Monday reads hit the cache.
type ReportScheduler struct {
	warmer   ReportWarmer
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

func NewReportScheduler(warmer ReportWarmer, logger *zap.Logger, schedule string) *ReportScheduler {
	if schedule == "" {
		schedule = DefaultWarmSchedule
	}
	return &ReportScheduler{
		warmer:   warmer,
		logger:   logger,
		schedule: schedule,
		cron:     cron.NewWithLocation(time.UTC),
		now:      time.Now,
	}
}

// Start registers the job and runs the cron loop until ctx is cancelled.
func (s *ReportScheduler) Start(ctx context.Context) error {
	err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled report warm-up failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("report scheduler started", zap.String("schedule", s.schedule))

	go func() {
		<-ctx.Done()
		s.cron.Stop()
		s.logger.Info("report scheduler stopped")
	}()
	return nil
}

// LastWeek is the seven-day range ending yesterday.
func (s *ReportScheduler) LastWeek() domain.DateRange {
	end := domain.Day(s.now()).AddDate(0, 0, -1)
	return domain.DateRange{Start: end.AddDate(0, 0, -6), End: end}
}

func (s *ReportScheduler) RunOnce(ctx context.Context) error {
	r := s.LastWeek()
	start := time.Now()

	warmed, err := s.warmer.WarmReports(ctx, r)
	if err != nil {
		metrics.ScheduledRuns.WithLabelValues(warmReportsJob, "failed").Inc()
		return err
	}

	metrics.ScheduledRuns.WithLabelValues(warmReportsJob, "success").Inc()
	s.logger.Info("weekly reports warmed",
		zap.Int("users", warmed),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
