package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
)

type failingEvaluator struct {
	fail  uuid.UUID
	inner AlertEvaluator
}

func (f failingEvaluator) EvaluateAlert(ctx context.Context, userID uuid.UUID) (types.Level, error) {
	if userID == f.fail {
		return "", errors.New("storage unavailable")
	}
	return f.inner.EvaluateAlert(ctx, userID)
}

func (e *testEnv) sweepService(evaluator AlertEvaluator) *sweepService {
	svc := NewSweepService(e.log, e.metrics, e.users, e.moods, e.behaviours, evaluator).(*sweepService)
	svc.now = e.clock
	return svc
}

func TestSweepRecordsMissedCheckins(t *testing.T) {
	env := newTestEnv(t)
	checkedIn := testutil.SeedUser(t, env.ctx, env.db, "Whitfield Diffie")
	absent := testutil.SeedUser(t, env.ctx, env.db, "Martin Hellman")
	testutil.SeedMood(t, env.ctx, env.db, checkedIn.ID, 4, testutil.Day(env.now, 0))
	testutil.SeedMissedCheckin(t, env.ctx, env.db, absent.ID, testutil.Day(env.now, 1))

	report, err := env.sweepService(env.alertService()).Run(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Users: 2, MissedCheckins: 1}, report)

	dbc := dbctx.Context{Ctx: env.ctx}
	logs, err := env.behaviours.ListSince(dbc, absent.ID, testutil.Day(env.now, 7))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, signals.BehaviourMissedCheckin, logs[1].Type)

	logs, err = env.behaviours.ListSince(dbc, checkedIn.ID, testutil.Day(env.now, 7))
	require.NoError(t, err)
	assert.Empty(t, logs)

	st, err := env.states.GetByUserID(dbc, absent.ID)
	require.NoError(t, err)
	require.NotNil(t, st, "sweep evaluates every user")
	assert.Equal(t, alerts.LevelWatch, st.CurrentState)
	assert.Contains(t, []string(st.TriggeredBy), alerts.TriggerMissedCheckins)

	st, err = env.states.GetByUserID(dbc, checkedIn.ID)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, alerts.LevelStable, st.CurrentState)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t)
	broken := testutil.SeedUser(t, env.ctx, env.db, "Ralph Merkle")
	healthy := testutil.SeedUser(t, env.ctx, env.db, "Ron Rivest")

	report, err := env.sweepService(failingEvaluator{fail: broken.ID, inner: env.alertService()}).Run(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Users)
	assert.Equal(t, 2, report.MissedCheckins)
	assert.Equal(t, 1, report.Failed)

	st, err := env.states.GetByUserID(dbctx.Context{Ctx: env.ctx}, healthy.ID)
	require.NoError(t, err)
	assert.NotNil(t, st)
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedUser(t, env.ctx, env.db, "Adi Shamir")
	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	_, err := env.sweepService(env.alertService()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
