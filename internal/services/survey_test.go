package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
)

func (e *testEnv) surveyService() *surveyService {
	svc := NewSurveyService(e.log, e.surveys, e.alertService()).(*surveyService)
	svc.now = e.clock
	return svc
}

func surveyOf(userID uuid.UUID, sleep, stress, energy, focus, social float64) SurveyInput {
	return SurveyInput{
		UserID: userID,
		Sleep:  &sleep,
		Stress: &stress,
		Energy: &energy,
		Focus:  &focus,
		Social: &social,
	}
}

func TestSubmitSurveyEvaluatesSynchronously(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "Leslie Lamport")

	res, err := env.surveyService().Submit(env.ctx, surveyOf(u.ID, 1, 1, 0, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Survey.TotalScore)
	assert.True(t, res.Survey.WeekStartDate.Equal(signals.WeekStart(env.now)))
	assert.Equal(t, alerts.LevelAction, res.CurrentState)

	st, err := env.states.GetByUserID(dbctx.Context{Ctx: env.ctx}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, alerts.LevelAction, st.CurrentState)
}

func TestSubmitSurveySameWeekReplaces(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "Tony Hoare")
	svc := env.surveyService()

	_, err := svc.Submit(env.ctx, surveyOf(u.ID, 1, 1, 1, 1, 1))
	require.NoError(t, err)
	res, err := svc.Submit(env.ctx, surveyOf(u.ID, 2, 2, 2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Survey.TotalScore)
	assert.Equal(t, alerts.LevelStable, res.CurrentState)

	rows, err := env.surveys.ListSince(dbctx.Context{Ctx: env.ctx}, u.ID, signals.WeekStart(env.now))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].TotalScore)
}

func TestSubmitSurveyValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.surveyService()
	id := uuid.New()

	in := surveyOf(id, 1, 3, 1, 1, 1)
	_, err := svc.Submit(env.ctx, in)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	assert.EqualError(t, err, "stress must be between 0 and 2")

	in = surveyOf(id, 1, 1, 1, 1.5, 1)
	_, err = svc.Submit(env.ctx, in)
	assert.EqualError(t, err, "focus must be between 0 and 2")

	in = surveyOf(id, 1, 1, 1, 1, 1)
	in.Social = nil
	_, err = svc.Submit(env.ctx, in)
	assert.EqualError(t, err, "social must be between 0 and 2")
}

type stubEvaluator struct{ calls int }

func (s *stubEvaluator) EvaluateAlert(context.Context, uuid.UUID) (types.Level, error) {
	s.calls++
	return alerts.LevelStable, nil
}

func TestSurveyAnalytics(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "Donald Knuth")
	testutil.SeedSurvey(t, env.ctx, env.db, u.ID, 4, env.now)
	testutil.SeedSurvey(t, env.ctx, env.db, u.ID, 8, env.now.AddDate(0, 0, -7))
	testutil.SeedSurvey(t, env.ctx, env.db, u.ID, 10, env.now.AddDate(0, 0, -21))

	svc := NewSurveyService(env.log, env.surveys, &stubEvaluator{}).(*surveyService)
	svc.now = env.clock

	out, err := svc.Analytics(env.ctx, u.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, out.Latest)
	assert.Equal(t, 4, out.Latest.TotalScore)
	require.Len(t, out.Series, 2)
	assert.Equal(t, 8, out.Series[0].TotalScore, "series runs oldest first")
	require.NotNil(t, out.Averages)
	assert.InDelta(t, 6.0, out.Averages.Total, 1e-9)
	assert.Equal(t, 2, out.Averages.WindowWeeks)

	out, err = svc.Analytics(env.ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, out.Series, 3)
	assert.Equal(t, defaultSurveyWeeks, out.Averages.WindowWeeks)
}

func TestSurveyAnalyticsEmpty(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.SeedUser(t, env.ctx, env.db, "Butler Lampson")
	svc := NewSurveyService(env.log, env.surveys, &stubEvaluator{})

	out, err := svc.Analytics(env.ctx, u.ID, 4)
	require.NoError(t, err)
	assert.Nil(t, out.Latest)
	assert.Nil(t, out.Averages)
	assert.NotNil(t, out.Series)
	assert.Empty(t, out.Series)
}

func TestClampWeeks(t *testing.T) {
	assert.Equal(t, 8, clampWeeks(0))
	assert.Equal(t, 1, clampWeeks(-3))
	assert.Equal(t, 12, clampWeeks(12))
	assert.Equal(t, 52, clampWeeks(400))
}

func TestWeekStartIsMonday(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), signals.WeekStart(sunday))
}
