package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/locker"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type EmotionAlertService interface {
	// EvaluateEmotionAlert classifies the last day of emotion samples and, on
	// action, claims the notification slot and queues the emergency SMS.
	EvaluateEmotionAlert(ctx context.Context, userID uuid.UUID) (*types.EmotionAlert, error)
}

type emotionAlertService struct {
	log       *logger.Logger
	evaluator *alerting.Evaluator
	locks     locker.Locker
	metrics   *observability.Metrics
	jobs      JobEnqueuer

	samples       repos.EmotionSampleRepo
	emotionAlerts repos.EmotionAlertRepo

	now func() time.Time
}

func NewEmotionAlertService(
	log *logger.Logger,
	evaluator *alerting.Evaluator,
	locks locker.Locker,
	metrics *observability.Metrics,
	jobs JobEnqueuer,
	samples repos.EmotionSampleRepo,
	emotionAlerts repos.EmotionAlertRepo,
) EmotionAlertService {
	serviceLog := log.With("service", "EmotionAlertService")
	if locks == nil {
		locks = locker.NewKeyed()
	}
	return &emotionAlertService{
		log:           serviceLog,
		evaluator:     evaluator,
		locks:         locks,
		metrics:       metrics,
		jobs:          jobs,
		samples:       samples,
		emotionAlerts: emotionAlerts,
		now:           utcNow,
	}
}

func (s *emotionAlertService) EvaluateEmotionAlert(ctx context.Context, userID uuid.UUID) (*types.EmotionAlert, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	ctx, span := observability.Tracer().Start(ctx, "emotion_alert.evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("alert.track", trackEmotion))

	unlock, err := s.locks.Lock(ctx, "emotion:"+userID.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock")
		return nil, fmt.Errorf("lock emotion alert: %w", err)
	}
	defer unlock()

	start := time.Now()
	now := s.now()
	t := s.evaluator.Thresholds()
	dbc := dbctx.Context{Ctx: ctx}

	prior, err := s.emotionAlerts.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load emotion alert: %w", err)
	}
	rows, err := s.samples.ListRecent(dbc, userID, now.Add(-t.EmotionLookback), t.EmotionSampleLimit)
	if err != nil {
		return nil, fmt.Errorf("load emotion samples: %w", err)
	}

	verdict := s.evaluator.EvaluateEmotion(now, deref(rows))
	ea, err := s.emotionAlerts.Upsert(dbc, userID, verdict.Level, verdict.Reason, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		return nil, fmt.Errorf("persist emotion alert: %w", err)
	}

	s.metrics.ObserveEvaluation(trackEmotion, string(verdict.Level), time.Since(start))
	if prior == nil || prior.State != verdict.Level {
		from := alerts.LevelWatch
		if prior != nil {
			from = prior.State
		}
		s.metrics.IncTransition(trackEmotion, string(from), string(verdict.Level))
	}
	span.SetAttributes(attribute.String("alert.state", string(verdict.Level)))

	if !verdict.Fired {
		return ea, nil
	}

	claimed, err := s.emotionAlerts.ClaimNotification(dbc, userID, now, t.NotificationSuppression)
	if err != nil {
		return ea, fmt.Errorf("claim notification: %w", err)
	}
	if !claimed {
		s.log.Info("Emergency SMS suppressed, recent dispatch inside window",
			"user_id", userID.String(),
			"reason", verdict.Reason,
		)
		return ea, nil
	}
	ea.LastNotificationAt = &now

	if err := s.jobs.Enqueue(ctx, domainJobs.TypeEmergencySMS, userID, verdict.Reason); err != nil {
		s.metrics.IncNotification(notificationKindSMS, domainJobs.StatusDropped)
		s.log.Error("Emergency SMS enqueue failed",
			"user_id", userID.String(),
			"reason", verdict.Reason,
			"error", err,
		)
	}
	return ea, nil
}
