package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

const (
	defaultSurveyWeeks = 8
	maxSurveyWeeks     = 52
)

type SurveyInput struct {
	UserID        uuid.UUID
	Sleep         *float64
	Stress        *float64
	Energy        *float64
	Focus         *float64
	Social        *float64
	WeekStartDate *time.Time
}

type SurveyResult struct {
	Survey       *types.WeeklySurvey
	CurrentState types.Level
}

type SurveyAverages struct {
	Sleep       float64 `json:"sleep"`
	Stress      float64 `json:"stress"`
	Energy      float64 `json:"energy"`
	Focus       float64 `json:"focus"`
	Social      float64 `json:"social"`
	Total       float64 `json:"total"`
	WindowWeeks int     `json:"windowWeeks"`
}

type SurveyAnalytics struct {
	Latest   *types.WeeklySurvey   `json:"latest"`
	Averages *SurveyAverages       `json:"averages"`
	Series   []*types.WeeklySurvey `json:"series"`
}

// AlertEvaluator is the synchronous entry point into the mood track.
type AlertEvaluator interface {
	EvaluateAlert(ctx context.Context, userID uuid.UUID) (types.Level, error)
}

type SurveyService interface {
	// Submit upserts the survey for its week and re-evaluates the alert
	// state before returning.
	Submit(ctx context.Context, in SurveyInput) (*SurveyResult, error)
	Analytics(ctx context.Context, userID uuid.UUID, weeks int) (*SurveyAnalytics, error)
}

type surveyService struct {
	log     *logger.Logger
	surveys repos.WeeklySurveyRepo
	alerts  AlertEvaluator
	now     func() time.Time
}

func NewSurveyService(log *logger.Logger, surveys repos.WeeklySurveyRepo, alerts AlertEvaluator) SurveyService {
	serviceLog := log.With("service", "SurveyService")
	return &surveyService{log: serviceLog, surveys: surveys, alerts: alerts, now: utcNow}
}

func surveyItem(key string, v *float64) (int, error) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 || *v > signals.MaxSurveyItemScore || *v != math.Trunc(*v) {
		return 0, errs.Newf(errs.ErrInvalidArgument, "%s must be between 0 and %d", key, signals.MaxSurveyItemScore)
	}
	return int(*v), nil
}

func (s *surveyService) Submit(ctx context.Context, in SurveyInput) (*SurveyResult, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	row := &types.WeeklySurvey{UserID: in.UserID}
	fields := []struct {
		key string
		val *float64
		dst *int
	}{
		{key: "sleep", val: in.Sleep, dst: &row.Sleep},
		{key: "stress", val: in.Stress, dst: &row.Stress},
		{key: "energy", val: in.Energy, dst: &row.Energy},
		{key: "focus", val: in.Focus, dst: &row.Focus},
		{key: "social", val: in.Social, dst: &row.Social},
	}
	for _, f := range fields {
		v, err := surveyItem(f.key, f.val)
		if err != nil {
			return nil, err
		}
		*f.dst = v
		row.TotalScore += v
	}

	ref := s.now()
	if in.WeekStartDate != nil && !in.WeekStartDate.IsZero() {
		ref = *in.WeekStartDate
	}
	row.WeekStartDate = signals.WeekStart(ref)

	saved, err := s.surveys.Upsert(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		return nil, fmt.Errorf("upsert weekly survey: %w", err)
	}

	level, err := s.alerts.EvaluateAlert(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("evaluate alert after survey: %w", err)
	}
	s.log.Info("Weekly survey recorded",
		"user_id", in.UserID.String(),
		"total_score", saved.TotalScore,
		"state", string(level),
	)
	return &SurveyResult{Survey: saved, CurrentState: level}, nil
}

// clampWeeks maps a missing or zero window onto the default and caps it.
func clampWeeks(weeks int) int {
	if weeks == 0 {
		weeks = defaultSurveyWeeks
	}
	if weeks < 1 {
		return 1
	}
	if weeks > maxSurveyWeeks {
		return maxSurveyWeeks
	}
	return weeks
}

func (s *surveyService) Analytics(ctx context.Context, userID uuid.UUID, weeks int) (*SurveyAnalytics, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	weeks = clampWeeks(weeks)
	now := s.now()
	windowStart := signals.WeekStart(now.AddDate(0, 0, -7*(weeks-1)))
	dbc := dbctx.Context{Ctx: ctx}

	latest, err := s.surveys.Latest(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load latest survey: %w", err)
	}
	series, err := s.surveys.ListSince(dbc, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("load survey series: %w", err)
	}
	if series == nil {
		series = []*types.WeeklySurvey{}
	}

	out := &SurveyAnalytics{Latest: latest, Series: series}
	if len(series) == 0 {
		return out, nil
	}
	avg := &SurveyAverages{WindowWeeks: weeks}
	for _, w := range series {
		avg.Sleep += float64(w.Sleep)
		avg.Stress += float64(w.Stress)
		avg.Energy += float64(w.Energy)
		avg.Focus += float64(w.Focus)
		avg.Social += float64(w.Social)
		avg.Total += float64(w.TotalScore)
	}
	n := float64(len(series))
	avg.Sleep /= n
	avg.Stress /= n
	avg.Energy /= n
	avg.Focus /= n
	avg.Social /= n
	avg.Total /= n
	out.Averages = avg
	return out, nil
}
