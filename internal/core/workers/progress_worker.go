package workers

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/metrics"
	"go.uber.org/zap"
)

const defaultQueueSize = 100

type ProgressJobKind string

const (
	// JobRecord folds one activity day into the user's progress.
	JobRecord ProgressJobKind = "record"
	// JobRebuild recomputes the streak from every stored activity day.
	JobRebuild ProgressJobKind = "rebuild"
)

type ProgressJob struct {
	Kind         ProgressJobKind
	UserID       string
	ActivityDate time.Time
	// XPBefore is the user's XP before the activity was written.
	XPBefore int
}

type JobProcessor interface {
	ProcessJob(ctx context.Context, job ProgressJob) error
}

type ProgressWorker struct {
	processor JobProcessor
	logger    *zap.Logger
	jobs      chan ProgressJob
	wg        sync.WaitGroup
}

func NewProgressWorker(processor JobProcessor, logger *zap.Logger, queueSize int) *ProgressWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &ProgressWorker{
		processor: processor,
		logger:    logger,
		jobs:      make(chan ProgressJob, queueSize),
	}
}

func (w *ProgressWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("progress worker started", zap.Int("queue_size", cap(w.jobs)))
		for {
			select {
			case job := <-w.jobs:
				metrics.ProgressQueueDepth.Set(float64(len(w.jobs)))
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("progress worker shutting down", zap.Int("pending_jobs", len(w.jobs)))
				return
			}
		}
	}()
}

// Wait blocks until the worker goroutine has returned.
func (w *ProgressWorker) Wait() {
	w.wg.Wait()
}

// Enqueue never blocks: when the queue is full the job is dropped.
func (w *ProgressWorker) Enqueue(job ProgressJob) {
	select {
	case w.jobs <- job:
		metrics.ProgressQueueDepth.Set(float64(len(w.jobs)))
	default:
		metrics.ProgressJobs.WithLabelValues("dropped").Inc()
		w.logger.Warn("progress worker queue full, dropping job",
			zap.String("user_id", job.UserID),
			zap.String("kind", string(job.Kind)),
		)
	}
}

func (w *ProgressWorker) processJob(ctx context.Context, job ProgressJob) {
	start := time.Now()
	if err := w.processor.ProcessJob(ctx, job); err != nil {
		metrics.ProgressJobs.WithLabelValues("failed").Inc()
		w.logger.Error("progress job failed",
			zap.String("user_id", job.UserID),
			zap.String("kind", string(job.Kind)),
			zap.Error(err),
		)
		return
	}

	metrics.ProgressJobs.WithLabelValues("processed").Inc()
	w.logger.Debug("progress job processed",
		zap.String("user_id", job.UserID),
		zap.String("kind", string(job.Kind)),
		zap.Duration("took", time.Since(start)),
	)
}
