package services

import (
	"context"
	"fmt"
	"math"
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

type MoodInput struct {
	UserID    uuid.UUID
	MoodScore *float64
	Note      string
	Date      *time.Time
}

type MoodService interface {
	// Record stores a check-in and queues a re-evaluation of the alert state.
	Record(ctx context.Context, in MoodInput) (*types.MoodEntry, error)
}

type moodService struct {
	log   *logger.Logger
	moods repos.MoodEntryRepo
	jobs  JobEnqueuer
	now   func() time.Time
}

func NewMoodService(log *logger.Logger, moods repos.MoodEntryRepo, jobs JobEnqueuer) MoodService {
	serviceLog := log.With("service", "MoodService")
	return &moodService{log: serviceLog, moods: moods, jobs: jobs, now: utcNow}
}

func (s *moodService) Record(ctx context.Context, in MoodInput) (*types.MoodEntry, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	score, err := validMoodScore(in.MoodScore)
	if err != nil {
		return nil, err
	}
	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	out, err := s.moods.Create(dbctx.Context{Ctx: ctx}, []*types.MoodEntry{{
		UserID:    in.UserID,
		MoodScore: score,
		Note:      strings.TrimSpace(in.Note),
		Date:      date,
	}})
	if err != nil {
		return nil, fmt.Errorf("create mood entry: %w", err)
	}
	entry := out[0]

	if err := s.jobs.Enqueue(ctx, domainJobs.TypeAlertEvaluate, in.UserID, "mood_entry"); err != nil {
		s.log.Warn("Alert evaluation not queued after mood entry",
			"user_id", in.UserID.String(),
			"error", err,
		)
	}
	return entry, nil
}

func validMoodScore(v *float64) (int, error) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) ||
		*v < signals.MinMoodScore || *v > signals.MaxMoodScore {
		return 0, errs.Newf(errs.ErrInvalidArgument, "moodScore must be between %d and %d", signals.MinMoodScore, signals.MaxMoodScore)
	}
	if *v != math.Trunc(*v) {
		return 0, errs.Newf(errs.ErrInvalidArgument, "moodScore must be a whole number")
	}
	return int(*v), nil
}
