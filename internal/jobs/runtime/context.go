package runtime

import (
	"context"

	"github.com/google/uuid"

	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/platform/ctxutil"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

// Context is the execution handle for one job. Handlers read their input
// from Job and log through Log, which already carries job and user fields.
type Context struct {
	Ctx context.Context
	Job domainJobs.Job
	Log *logger.Logger
}

// NewContext restores the trace data captured at enqueue time so handler
// logs line up with the request that caused them.
func NewContext(ctx context.Context, job domainJobs.Job, log *logger.Logger) *Context {
	if job.TraceID != "" || job.RequestID != "" {
		ctx = ctxutil.WithTraceData(ctx, &ctxutil.TraceData{TraceID: job.TraceID, RequestID: job.RequestID})
	}
	return &Context{
		Ctx: ctx,
		Job: job,
		Log: log.With("job_id", job.ID.String(), "job_type", job.Type, "user_id", job.UserID.String()),
	}
}

func (c *Context) UserID() uuid.UUID {
	return c.Job.UserID
}
