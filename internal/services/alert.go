package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/locker"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

const (
	trackMood    = "mood"
	trackEmotion = "emotion"

	alertCASAttempts = 3
	overviewMoodDays = 7

	defaultListLimit = 50
	maxListLimit     = 200
)

// AlertStateView is the client shape of the mood-track state. Users never
// evaluated get DefaultAlertStateView.
type AlertStateView struct {
	CurrentState  types.Level `json:"currentState"`
	TriggeredBy   []string    `json:"triggeredBy"`
	Explanation   string      `json:"explanation"`
	SinceDate     *time.Time  `json:"sinceDate"`
	LastEvaluated *time.Time  `json:"lastEvaluated"`
}

func DefaultAlertStateView() AlertStateView {
	return AlertStateView{
		CurrentState: alerts.LevelStable,
		TriggeredBy:  []string{},
		Explanation:  alerting.ExplanationDefault,
	}
}

func viewOf(st *types.AlertState) AlertStateView {
	if st == nil {
		return DefaultAlertStateView()
	}
	triggered := []string(st.TriggeredBy)
	if triggered == nil {
		triggered = []string{}
	}
	return AlertStateView{
		CurrentState:  st.CurrentState,
		TriggeredBy:   triggered,
		Explanation:   st.Explanation,
		SinceDate:     st.SinceDate,
		LastEvaluated: st.LastEvaluated,
	}
}

type MoodPoint struct {
	MoodScore int       `json:"moodScore"`
	Date      time.Time `json:"date"`
}

type AlertOverview struct {
	State        AlertStateView      `json:"state"`
	Moods        []MoodPoint         `json:"moods"`
	EmotionAlert *types.EmotionAlert `json:"emotionAlert"`
}

type AlertService interface {
	// EvaluateAlert recomputes the mood/behaviour/survey state for userID,
	// persists it and records a history row when the state changed.
	EvaluateAlert(ctx context.Context, userID uuid.UUID) (types.Level, error)
	GetOverview(ctx context.Context, userID uuid.UUID) (*AlertOverview, error)
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*types.AlertHistory, error)
}

type alertService struct {
	db        *gorm.DB
	log       *logger.Logger
	evaluator *alerting.Evaluator
	locks     locker.Locker
	metrics   *observability.Metrics

	moods         repos.MoodEntryRepo
	behaviours    repos.BehaviourLogRepo
	surveys       repos.WeeklySurveyRepo
	states        repos.AlertStateRepo
	history       repos.AlertHistoryRepo
	emotionAlerts repos.EmotionAlertRepo

	now func() time.Time
}

func NewAlertService(
	db *gorm.DB,
	log *logger.Logger,
	evaluator *alerting.Evaluator,
	locks locker.Locker,
	metrics *observability.Metrics,
	moods repos.MoodEntryRepo,
	behaviours repos.BehaviourLogRepo,
	surveys repos.WeeklySurveyRepo,
	states repos.AlertStateRepo,
	history repos.AlertHistoryRepo,
	emotionAlerts repos.EmotionAlertRepo,
) AlertService {
	serviceLog := log.With("service", "AlertService")
	if locks == nil {
		locks = locker.NewKeyed()
	}
	return &alertService{
		db:            db,
		log:           serviceLog,
		evaluator:     evaluator,
		locks:         locks,
		metrics:       metrics,
		moods:         moods,
		behaviours:    behaviours,
		surveys:       surveys,
		states:        states,
		history:       history,
		emotionAlerts: emotionAlerts,
		now:           utcNow,
	}
}

func (s *alertService) EvaluateAlert(ctx context.Context, userID uuid.UUID) (types.Level, error) {
	if userID == uuid.Nil {
		return "", errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	ctx, span := observability.Tracer().Start(ctx, "alert.evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("alert.track", trackMood))

	unlock, err := s.locks.Lock(ctx, "alert:"+userID.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock")
		return "", fmt.Errorf("lock alert state: %w", err)
	}
	defer unlock()

	start := time.Now()
	for attempt := 1; ; attempt++ {
		level, err := s.evaluateOnce(ctx, userID)
		if err == nil {
			s.metrics.ObserveEvaluation(trackMood, string(level), time.Since(start))
			span.SetAttributes(attribute.String("alert.state", string(level)))
			return level, nil
		}
		if !errors.Is(err, errs.ErrConflict) || attempt >= alertCASAttempts {
			span.RecordError(err)
			span.SetStatus(codes.Error, "evaluate")
			return "", err
		}
		s.metrics.IncCASConflict(trackMood)
		s.log.Warn("Alert state moved during evaluation, retrying",
			"user_id", userID.String(),
			"attempt", attempt,
		)
	}
}

func (s *alertService) evaluateOnce(ctx context.Context, userID uuid.UUID) (types.Level, error) {
	now := s.now()
	t := s.evaluator.Thresholds()
	dbc := dbctx.Context{Ctx: ctx}

	snap := alerting.Snapshot{Now: now}
	g, gctx := errgroup.WithContext(ctx)
	gdbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		rows, err := s.moods.ListSince(gdbc, userID, now.Add(-t.MoodWindow))
		if err != nil {
			return fmt.Errorf("load moods: %w", err)
		}
		snap.Moods = deref(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.behaviours.ListSince(gdbc, userID, now.Add(-t.BehaviourWindow))
		if err != nil {
			return fmt.Errorf("load behaviour logs: %w", err)
		}
		snap.Behaviours = deref(rows)
		return nil
	})
	g.Go(func() error {
		latest, err := s.surveys.Latest(gdbc, userID)
		if err != nil {
			return fmt.Errorf("load latest survey: %w", err)
		}
		snap.Survey = latest
		return nil
	})
	g.Go(func() error {
		prior, err := s.states.GetByUserID(gdbc, userID)
		if err != nil {
			return fmt.Errorf("load alert state: %w", err)
		}
		snap.Prior = prior
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	res := s.evaluator.Evaluate(snap)
	trace.SpanFromContext(ctx).SetAttributes(attribute.StringSlice("alert.rules", res.FiredRules))
	tr := alerting.Decide(snap.Prior, res, now)
	since := tr.Since
	evaluated := now

	next := &types.AlertState{
		UserID:        userID,
		CurrentState:  res.Level,
		TriggeredBy:   datatypes.JSONSlice[string](res.TriggeredBy),
		Explanation:   res.Explanation,
		SinceDate:     &since,
		LastEvaluated: &evaluated,
	}

	err := inTx(dbc, s.db, func(dbc dbctx.Context) error {
		if snap.Prior == nil {
			if err := s.states.Insert(dbc, next); err != nil {
				return err
			}
		} else if err := s.states.CompareAndSwap(dbc, next, snap.Prior.Version); err != nil {
			return err
		}
		if !tr.Changed {
			return nil
		}
		_, err := s.history.Create(dbc, []*types.AlertHistory{{
			UserID:      userID,
			FromState:   tr.From,
			ToState:     tr.To,
			TriggeredBy: datatypes.JSONSlice[string](res.TriggeredBy),
			Explanation: res.Explanation,
			ChangedAt:   now,
		}})
		if err != nil {
			return fmt.Errorf("append alert history: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return "", err
		}
		return "", fmt.Errorf("persist alert state: %w", err)
	}

	if tr.Changed {
		s.metrics.IncTransition(trackMood, string(tr.From), string(tr.To))
		s.log.Info("Alert state changed",
			"user_id", userID.String(),
			"from", string(tr.From),
			"to", string(tr.To),
			"triggered_by", res.TriggeredBy,
		)
	}
	return res.Level, nil
}

func (s *alertService) GetOverview(ctx context.Context, userID uuid.UUID) (*AlertOverview, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	now := s.now()
	out := &AlertOverview{Moods: []MoodPoint{}}

	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		st, err := s.states.GetByUserID(dbc, userID)
		if err != nil {
			return fmt.Errorf("load alert state: %w", err)
		}
		out.State = viewOf(st)
		return nil
	})
	g.Go(func() error {
		rows, err := s.moods.ListSince(dbc, userID, now.AddDate(0, 0, -overviewMoodDays))
		if err != nil {
			return fmt.Errorf("load moods: %w", err)
		}
		points := make([]MoodPoint, 0, len(rows))
		for _, m := range rows {
			points = append(points, MoodPoint{MoodScore: m.MoodScore, Date: m.Date})
		}
		out.Moods = points
		return nil
	})
	g.Go(func() error {
		ea, err := s.emotionAlerts.GetByUserID(dbc, userID)
		if err != nil {
			return fmt.Errorf("load emotion alert: %w", err)
		}
		out.EmotionAlert = ea
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *alertService) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*types.AlertHistory, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	rows, err := s.history.ListByUser(dbctx.Context{Ctx: ctx}, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list alert history: %w", err)
	}
	return rows, nil
}
