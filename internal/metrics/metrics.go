// Package metrics holds the Prometheus collectors of the fit engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ActivitiesLogged counts activity rows written, by kind.
var ActivitiesLogged = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "activities_logged_total",
	Help:      "Total activity records created.",
}, []string{"kind"})

// AchievementsUnlocked counts unlocks by achievement category.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"category"})

var LevelUps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "level_ups_total",
	Help:      "Total level ups, by the level reached.",
}, []string{"level"})

// StreakTransitions counts streak updates by outcome (started, extended, reset).
var StreakTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "streak_transitions_total",
	Help:      "Streak updates by outcome.",
}, []string{"change"})

// ─── Progress worker ────────────────────────────────────────────────────────

var ProgressJobs = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "progress_jobs_total",
	Help:      "Progress jobs by result (processed, failed, dropped).",
}, []string{"result"})

var ProgressQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "kanso",
	Name:      "progress_queue_depth",
	Help:      "Jobs waiting in the progress worker queue.",
})

// ─── Reports ────────────────────────────────────────────────────────────────

// ReportBuildDuration tracks how long building a summary or report takes.
var ReportBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "kanso",
	Name:      "report_build_seconds",
	Help:      "Time spent building summaries and reports.",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"kind"})

// ReportFallbacks counts reports served as the empty summary after a store error.
var ReportFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "report_fallbacks_total",
	Help:      "Summaries replaced by the empty summary after a data error.",
})

var ReportCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "report_cache_total",
	Help:      "Report cache lookups by result (hit, miss, error).",
}, []string{"result"})

// ScheduledRuns counts cron job executions by job and result.
var ScheduledRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "scheduled_runs_total",
	Help:      "Scheduled job runs by job and result.",
}, []string{"job", "result"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests is labelled by the route template, not the raw path.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kanso",
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "kanso",
	Name:      "http_request_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})
