package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type BehaviourInput struct {
	UserID uuid.UUID
	Type   string
	Date   *time.Time
}

// BehaviourService records signals from external detectors (missed
// medication, inactivity) and the sweep's missed check-ins.
type BehaviourService interface {
	Record(ctx context.Context, in BehaviourInput) (*types.BehaviourLog, error)
}

type behaviourService struct {
	log        *logger.Logger
	behaviours repos.BehaviourLogRepo
	jobs       JobEnqueuer
	now        func() time.Time
}

func NewBehaviourService(log *logger.Logger, behaviours repos.BehaviourLogRepo, jobs JobEnqueuer) BehaviourService {
	serviceLog := log.With("service", "BehaviourService")
	return &behaviourService{log: serviceLog, behaviours: behaviours, jobs: jobs, now: utcNow}
}

func (s *behaviourService) Record(ctx context.Context, in BehaviourInput) (*types.BehaviourLog, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	kind := signals.BehaviourType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !kind.Valid() {
		return nil, errs.Newf(errs.ErrInvalidArgument, "type must be one of missed_checkin, missed_med, inactivity")
	}
	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	out, err := s.behaviours.Create(dbctx.Context{Ctx: ctx}, []*types.BehaviourLog{{
		UserID: in.UserID,
		Type:   kind,
		Date:   date,
	}})
	if err != nil {
		return nil, fmt.Errorf("create behaviour log: %w", err)
	}

	if err := s.jobs.Enqueue(ctx, domainJobs.TypeAlertEvaluate, in.UserID, "behaviour_log"); err != nil {
		s.log.Warn("Alert evaluation not queued after behaviour log",
			"user_id", in.UserID.String(),
			"error", err,
		)
	}
	return out[0], nil
}
