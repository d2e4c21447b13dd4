package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/ctxutil"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

var (
	// ErrQueueFull is returned instead of blocking the caller.
	ErrQueueFull   = errors.New("job queue full")
	ErrQueueClosed = errors.New("job queue closed")
)

// Queue is a bounded in-process job buffer. Submit never blocks; callers on
// a request path get ErrQueueFull and decide what to tell the client.
type Queue struct {
	name    string
	ch      chan domainJobs.Job
	log     *logger.Logger
	metrics *observability.Metrics

	mu     sync.RWMutex
	closed bool
}

func NewQueue(name string, size int, baseLog *logger.Logger, metrics *observability.Metrics) *Queue {
	if size < 1 {
		size = 1
	}
	if name == "" {
		name = "default"
	}
	return &Queue{
		name:    name,
		ch:      make(chan domainJobs.Job, size),
		log:     baseLog.With("component", "JobQueue", "queue", name),
		metrics: metrics,
	}
}

func (q *Queue) Submit(ctx context.Context, job domainJobs.Job) error {
	if job.Type == "" {
		return fmt.Errorf("job type required")
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		job.TraceID = td.TraceID
		job.RequestID = td.RequestID
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.metrics.SetQueueDepth(q.name, len(q.ch))
		return nil
	default:
		q.metrics.IncJob(job.Type, domainJobs.StatusDropped)
		q.log.Warn("job queue full, dropping job",
			"job_type", job.Type,
			"user_id", job.UserID.String(),
			"capacity", cap(q.ch),
		)
		return ErrQueueFull
	}
}

// Enqueue builds and submits a job for userID.
func (q *Queue) Enqueue(ctx context.Context, jobType string, userID uuid.UUID, reason string) error {
	return q.Submit(ctx, domainJobs.New(jobType, userID, reason))
}

// Jobs is the consumer side. The channel is closed by Close.
func (q *Queue) Jobs() <-chan domainJobs.Job {
	return q.ch
}

func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Taken is called by consumers after receiving, to keep the depth gauge current.
func (q *Queue) Taken() {
	q.metrics.SetQueueDepth(q.name, len(q.ch))
}

// Close stops accepting jobs. Buffered jobs stay readable until drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
