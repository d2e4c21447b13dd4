package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

const sweepPageSize = 200

type SweepReport struct {
	Users          int `json:"users"`
	MissedCheckins int `json:"missedCheckins"`
	Failed         int `json:"failed"`
}

// SweepService is the daily pass over every user: record a missed check-in
// for anyone without a mood entry today, then re-evaluate.
type SweepService interface {
	Run(ctx context.Context) (SweepReport, error)
}

type sweepService struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	users      repos.UserRepo
	moods      repos.MoodEntryRepo
	behaviours repos.BehaviourLogRepo
	alerts     AlertEvaluator
	now        func() time.Time
}

func NewSweepService(
	log *logger.Logger,
	metrics *observability.Metrics,
	users repos.UserRepo,
	moods repos.MoodEntryRepo,
	behaviours repos.BehaviourLogRepo,
	alerts AlertEvaluator,
) SweepService {
	serviceLog := log.With("service", "SweepService")
	return &sweepService{
		log:        serviceLog,
		metrics:    metrics,
		users:      users,
		moods:      moods,
		behaviours: behaviours,
		alerts:     alerts,
		now:        utcNow,
	}
}

func (s *sweepService) Run(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	started := time.Now()
	after := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ids, err := s.users.ListIDsAfter(dbctx.Context{Ctx: ctx}, after, sweepPageSize)
		if err != nil {
			return report, fmt.Errorf("list users: %w", err)
		}
		for _, id := range ids {
			report.Users++
			missed, err := s.sweepUser(ctx, id)
			if missed {
				report.MissedCheckins++
			}
			if err != nil {
				report.Failed++
				s.metrics.IncSweepUser("failed")
				s.log.Error("Daily sweep failed for user", "user_id", id.String(), "error", err)
				continue
			}
			s.metrics.IncSweepUser("ok")
		}
		if len(ids) < sweepPageSize {
			break
		}
		after = ids[len(ids)-1]
	}
	s.log.Info("Daily sweep finished",
		"users", report.Users,
		"missed_checkins", report.MissedCheckins,
		"failed", report.Failed,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return report, nil
}

func (s *sweepService) sweepUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	now := s.now()
	today := dayStart(now)
	dbc := dbctx.Context{Ctx: ctx}

	checkedIn, err := s.moods.ExistsBetween(dbc, userID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return false, fmt.Errorf("check today's mood entry: %w", err)
	}
	missed := false
	if !checkedIn {
		if _, err := s.behaviours.Create(dbc, []*types.BehaviourLog{{
			UserID: userID,
			Type:   signals.BehaviourMissedCheckin,
			Date:   now,
		}}); err != nil {
			return false, fmt.Errorf("record missed check-in: %w", err)
		}
		missed = true
	}
	if _, err := s.alerts.EvaluateAlert(ctx, userID); err != nil {
		return missed, fmt.Errorf("evaluate alert: %w", err)
	}
	return missed, nil
}
