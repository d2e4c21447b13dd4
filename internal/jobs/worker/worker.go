package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/runtime"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type Config struct {
	Concurrency int
	JobTimeout  time.Duration
}

// Worker drains a Queue with a fixed pool of goroutines. A failing or
// panicking handler is logged with its job type and user and never takes the
// pool down.
type Worker struct {
	log      *logger.Logger
	queue    *jobs.Queue
	registry *runtime.Registry
	metrics  *observability.Metrics
	cfg      Config
	wg       sync.WaitGroup
}

func NewWorker(baseLog *logger.Logger, queue *jobs.Queue, registry *runtime.Registry, metrics *observability.Metrics, cfg Config) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}
	return &Worker{
		log:      baseLog.With("component", "JobWorker"),
		queue:    queue,
		registry: registry,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// Start launches the pool. Workers exit when ctx ends or the queue is closed
// and drained.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Starting job worker pool", "concurrency", w.cfg.Concurrency, "job_types", w.registry.Types())
	for i := 0; i < w.cfg.Concurrency; i++ {
		workerID := i + 1
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runLoop(ctx, workerID)
		}()
	}
}

// Wait blocks until every worker has exited or ctx ends.
func (w *Worker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case job, ok := <-w.queue.Jobs():
			if !ok {
				w.log.Info("Job queue closed, worker exiting", "worker_id", workerID)
				return
			}
			w.queue.Taken()
			w.process(ctx, workerID, job)
		}
	}
}

func (w *Worker) process(ctx context.Context, workerID int, job domainJobs.Job) {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, w.cfg.JobTimeout)
	defer cancel()

	jc := runtime.NewContext(runCtx, job, w.log)
	err := w.dispatch(jc)

	status := domainJobs.StatusSucceeded
	if err != nil {
		status = domainJobs.StatusFailed
		jc.Log.Error("Job failed",
			"worker_id", workerID,
			"reason", job.Reason,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
	} else {
		jc.Log.Debug("Job done", "worker_id", workerID, "duration_ms", time.Since(start).Milliseconds())
	}
	w.metrics.IncJob(job.Type, status)
}

func (w *Worker) dispatch(jc *runtime.Context) (err error) {
	h, ok := w.registry.Get(jc.Job.Type)
	if !ok {
		return &missingHandlerError{JobType: jc.Job.Type}
	}
	defer func() {
		if r := recover(); r != nil {
			err = errFromRecover(r)
		}
	}()
	return h.Run(jc)
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

func errFromRecover(v any) error { return &panicError{Val: v} }

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
