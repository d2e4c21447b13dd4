package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/platform/ctxutil"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
)

// JobEnqueuer hands follow-up work to the background queue. Implemented by
// jobs.Queue; submissions never block the caller.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, jobType string, userID uuid.UUID, reason string) error
}

func utcNow() time.Time { return time.Now().UTC() }

// inTx runs fn inside dbc.Tx when one is set, otherwise inside a new transaction.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(dbc dbctx.Context) error) error {
	ctx := ctxutil.Default(dbc.Ctx)
	if dbc.Tx != nil {
		return fn(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// dayStart returns 00:00 UTC of t's calendar day.
func dayStart(t time.Time) time.Time {
	d := t.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
