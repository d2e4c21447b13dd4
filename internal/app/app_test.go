package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/locker"
)

func TestWiredRegistryCoversEveryJobType(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg := Config{AppName: "MoodWatch", JobQueueSize: 8}
	cfg.Thresholds = alerting.DefaultThresholds()
	metrics := observability.NewMetrics()
	queue := jobs.NewQueue("test", cfg.JobQueueSize, log, metrics)

	svcs := wireServices(db, log, cfg, metrics, wireRepos(db, log), Clients{Locker: locker.NewKeyed()}, queue)
	reg, err := wireRegistry(log, svcs)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		domainJobs.TypeAlertEvaluate,
		domainJobs.TypeEmotionAlertEvaluate,
		domainJobs.TypeEmergencySMS,
	}, reg.Types())
}

func TestWiredWorkerEvaluatesQueuedMood(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg := Config{AppName: "MoodWatch", JobQueueSize: 8, JobWorkerConcurrency: 1, JobTimeout: 5 * time.Second}
	cfg.Thresholds = alerting.DefaultThresholds()
	metrics := observability.NewMetrics()
	queue := jobs.NewQueue("test", cfg.JobQueueSize, log, metrics)
	reposet := wireRepos(db, log)
	svcs := wireServices(db, log, cfg, metrics, reposet, Clients{Locker: locker.NewKeyed()}, queue)
	jobset, err := wireJobs(log, cfg, metrics, queue, svcs)
	require.NoError(t, err)
	require.Nil(t, jobset.Sweep)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	u := testutil.SeedUser(t, ctx, db, "Evelyn Berezin")
	require.NoError(t, queue.Enqueue(ctx, domainJobs.TypeAlertEvaluate, u.ID, "mood_entry"))
	require.NoError(t, queue.Enqueue(ctx, domainJobs.TypeAlertEvaluate, uuid.Nil, "ignored"))

	jobset.Worker.Start(ctx)
	queue.Close()
	waitCtx, waitCancel := context.WithTimeout(ctx, 10*time.Second)
	defer waitCancel()
	require.NoError(t, jobset.Worker.Wait(waitCtx))

	overview, err := svcs.Alert.GetOverview(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, overview.State.LastEvaluated)
}
