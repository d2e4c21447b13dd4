package app

import (
	"fmt"

	"github.com/moodwatch/moodwatch-backend/internal/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/pipeline/alert_evaluate"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/pipeline/emergency_sms"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/pipeline/emotion_alert_evaluate"
	jobrt "github.com/moodwatch/moodwatch-backend/internal/jobs/runtime"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/sweep"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/worker"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type Jobs struct {
	Worker *worker.Worker
	Sweep  *sweep.Scheduler
}

func wireRegistry(log *logger.Logger, svcs Services) (*jobrt.Registry, error) {
	reg := jobrt.NewRegistry()
	err := reg.Register(
		alert_evaluate.New(log, svcs.Alert),
		emotion_alert_evaluate.New(log, svcs.EmotionAlert),
		emergency_sms.New(log, svcs.Notification),
	)
	if err != nil {
		return nil, fmt.Errorf("register job handlers: %w", err)
	}
	return reg, nil
}

func wireJobs(log *logger.Logger, cfg Config, metrics *observability.Metrics, queue *jobs.Queue, svcs Services) (Jobs, error) {
	log.Info("Wiring jobs...")
	reg, err := wireRegistry(log, svcs)
	if err != nil {
		return Jobs{}, err
	}
	out := Jobs{
		Worker: worker.NewWorker(log, queue, reg, metrics, worker.Config{
			Concurrency: cfg.JobWorkerConcurrency,
			JobTimeout:  cfg.JobTimeout,
		}),
	}
	if cfg.SweepEnabled {
		sched, err := sweep.NewScheduler(log, svcs.Sweep, cfg.Sweep)
		if err != nil {
			return Jobs{}, fmt.Errorf("init daily sweep: %w", err)
		}
		out.Sweep = sched
	}
	return out, nil
}
