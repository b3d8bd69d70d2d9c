package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/metrics"
	"go.uber.org/zap"
)

// WeekDays is the length of a weekly report.
const WeekDays = 7

type ProgressReader interface {
	GetProgress(ctx context.Context, userID string) (*ProgressView, error)
}

// ReportService builds read-only views. It never fails on store errors: the
// error is logged and the empty summary is served instead.
type ReportService struct {
	activities domain.ActivityRepository
	targets    TargetsReader
	progress   ProgressReader
	cache      domain.ReportCache
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService wires the report builder. cache may be nil.
func NewReportService(activities domain.ActivityRepository, targets TargetsReader, progress ProgressReader, cache domain.ReportCache, logger *zap.Logger) *ReportService {
	return &ReportService{
		activities: activities,
		targets:    targets,
		progress:   progress,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// DailyScore scores a single calendar day.
func (s *ReportService) DailyScore(ctx context.Context, userID string, date time.Time) domain.DailyScoreBreakdown {
	start := time.Now()
	defer func() {
		metrics.ReportBuildDuration.WithLabelValues("daily").Observe(time.Since(start).Seconds())
	}()

	r, _ := domain.NewDateRange(date, date)
	fallback := domain.DailyScoreBreakdown{Date: r.Start}

	targets, err := s.targets.GetTargets(ctx, userID)
	if err != nil {
		s.fallback(userID, r, "targets", err)
		return fallback
	}
	data, err := s.activities.ListInRange(ctx, userID, r)
	if err != nil {
		s.fallback(userID, r, "activity", err)
		return fallback
	}

	summary := domain.BuildPeriodSummary(r, *data, *targets, domain.GamificationContext{})
	return summary.Score.DailyScores[0]
}

// Summary aggregates the user's activity inside r.
func (s *ReportService) Summary(ctx context.Context, userID string, r domain.DateRange) domain.PeriodSummary {
	start := time.Now()
	defer func() {
		metrics.ReportBuildDuration.WithLabelValues("summary").Observe(time.Since(start).Seconds())
	}()

	view, err := s.progress.GetProgress(ctx, userID)
	if err != nil {
		s.fallback(userID, r, "progress", err)
		return domain.EmptyPeriodSummary(r)
	}
	summary, _ := s.buildSummary(ctx, userID, r, view)
	return summary
}

// Weekly is the report of the seven days ending on end.
func (s *ReportService) Weekly(ctx context.Context, userID string, end time.Time) domain.Report {
	end = domain.Day(end)
	r, _ := domain.NewDateRange(end.AddDate(0, 0, -(WeekDays - 1)), end)
	return s.Report(ctx, userID, r)
}

// Report compares r with the equal-length range right before it. Reports
// built only from complete data are cached.
func (s *ReportService) Report(ctx context.Context, userID string, r domain.DateRange) domain.Report {
	if cached, ok := s.cached(ctx, userID, r); ok {
		return *cached
	}

	start := time.Now()
	report, complete := s.buildReport(ctx, userID, r)
	metrics.ReportBuildDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())

	if complete && s.cache != nil {
		if err := s.cache.SetReport(ctx, &report); err != nil {
			s.logger.Warn("failed to cache report", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return report
}

// WarmReports builds and caches the report of r for every user active in it.
func (s *ReportService) WarmReports(ctx context.Context, r domain.DateRange) (int, error) {
	userIDs, err := s.activities.ListActiveUserIDs(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("report service: failed to list active users: %w", err)
	}

	warmed := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if s.cache != nil {
			_ = s.cache.InvalidateUser(ctx, userID)
		}
		s.Report(ctx, userID, r)
		warmed++
	}

	s.logger.Info("reports warmed",
		zap.String("from", r.Start.Format(time.DateOnly)),
		zap.String("to", r.End.Format(time.DateOnly)),
		zap.Int("users", warmed),
	)
	return warmed, nil
}

func (s *ReportService) buildReport(ctx context.Context, userID string, r domain.DateRange) (domain.Report, bool) {
	now := s.now()
	previousRange := r.Previous()

	view, err := s.progress.GetProgress(ctx, userID)
	if err != nil {
		s.fallback(userID, r, "progress", err)
		return domain.BuildReport(userID, domain.EmptyPeriodSummary(r), domain.EmptyPeriodSummary(previousRange), now), false
	}

	current, ok := s.buildSummary(ctx, userID, r, view)
	if !ok {
		return domain.BuildReport(userID, current, domain.EmptyPeriodSummary(previousRange), now), false
	}

	previous, ok := s.buildSummary(ctx, userID, previousRange, view)
	return domain.BuildReport(userID, current, previous, now), ok
}

func (s *ReportService) buildSummary(ctx context.Context, userID string, r domain.DateRange, view *ProgressView) (domain.PeriodSummary, bool) {
	targets, err := s.targets.GetTargets(ctx, userID)
	if err != nil {
		s.fallback(userID, r, "targets", err)
		return domain.EmptyPeriodSummary(r), false
	}

	data, err := s.activities.ListInRange(ctx, userID, r)
	if err != nil {
		s.fallback(userID, r, "activity", err)
		return domain.EmptyPeriodSummary(r), false
	}

	xpBefore, err := s.xpBefore(ctx, userID, r.Start, targets, view.Achievements)
	if err != nil {
		s.fallback(userID, r, "activity", err)
		return domain.EmptyPeriodSummary(r), false
	}

	gctx := domain.GamificationContext{
		XPBefore: xpBefore,
		Unlocked: view.Achievements,
		Streak:   view.Streak,
		AsOf:     s.asOf(r),
	}
	return domain.BuildPeriodSummary(r, *data, *targets, gctx), true
}

// xpBefore is the XP the user held when start began. Later activity and
// unlocks do not move it, so old ranges keep their level changes.
func (s *ReportService) xpBefore(ctx context.Context, userID string, start time.Time, targets *domain.Targets, unlocks []domain.UserAchievement) (int, error) {
	counts, err := s.activities.CountBefore(ctx, userID, targets.WaterTargetMl, start)
	if err != nil {
		return 0, fmt.Errorf("report service: failed to count earlier activity: %w", err)
	}
	dates, err := s.activities.ListActivityDates(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("report service: failed to list activity days: %w", err)
	}
	return domain.XPAt(start, counts, unlocks, dates), nil
}

// asOf is the day the streak is read on: today for ranges that are still
// open, the last day otherwise.
func (s *ReportService) asOf(r domain.DateRange) time.Time {
	today := domain.Day(s.now())
	if r.Contains(today) {
		return today
	}
	return r.End
}

func (s *ReportService) cached(ctx context.Context, userID string, r domain.DateRange) (*domain.Report, bool) {
	if s.cache == nil {
		return nil, false
	}

	report, err := s.cache.GetReport(ctx, userID, r)
	switch {
	case err == nil:
		metrics.ReportCacheResults.WithLabelValues("hit").Inc()
		return report, true
	case errors.Is(err, domain.ErrReportNotCached):
		metrics.ReportCacheResults.WithLabelValues("miss").Inc()
	default:
		metrics.ReportCacheResults.WithLabelValues("error").Inc()
		s.logger.Warn("report cache unavailable", zap.String("user_id", userID), zap.Error(err))
	}
	return nil, false
}

func (s *ReportService) fallback(userID string, r domain.DateRange, source string, err error) {
	metrics.ReportFallbacks.Inc()
	s.logger.Error("serving empty summary",
		zap.String("user_id", userID),
		zap.String("source", source),
		zap.String("from", r.Start.Format(time.DateOnly)),
		zap.String("to", r.End.Format(time.DateOnly)),
		zap.Error(err),
	)
}
