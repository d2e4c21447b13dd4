package alerting

import (
	"sort"
	"time"

	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
)

// Result of one mood-track evaluation.
type Result struct {
	Level       alerts.Level
	TriggeredBy []string
	Explanation string
	Facts       Facts
	// FiredRules names every escalation rule that returned a non-zero Outcome.
	FiredRules []string
}

// Transition compares a result with the persisted state.
type Transition struct {
	From    alerts.Level
	To      alerts.Level
	Changed bool
	Since   time.Time
}

type Evaluator struct {
	thresholds Thresholds
	rules      []Rule
	emotion    []EmotionRule
}

// NewEvaluator builds an evaluator with the default rule order unless rules are given.
func NewEvaluator(t Thresholds, rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Evaluator{thresholds: t, rules: rules, emotion: DefaultEmotionRules()}
}

func (e *Evaluator) Thresholds() Thresholds { return e.thresholds }

// Evaluate folds the escalation rules left to right over the base level.
func (e *Evaluator) Evaluate(s Snapshot) Result {
	f := Collect(s, e.thresholds)
	level, triggers := BaseLevel(f, e.thresholds)
	var fired []string
	for _, r := range e.rules {
		out := r.Apply(level, f, e.thresholds)
		if out != (Outcome{}) {
			fired = append(fired, r.Name())
		}
		if out.Escalate != "" {
			level = alerts.Max(level, out.Escalate)
		}
		if out.Trigger != "" {
			triggers = append(triggers, out.Trigger)
		}
	}
	if triggers == nil {
		triggers = []string{}
	}
	return Result{
		Level:       level,
		TriggeredBy: triggers,
		Explanation: Explain(f),
		Facts:       f,
		FiredRules:  fired,
	}
}

// Decide works out whether the result is a transition. A missing prior
// counts as a transition out of stable, even when the new level is stable.
func Decide(prior *alerts.AlertState, res Result, now time.Time) Transition {
	if prior == nil {
		return Transition{From: alerts.LevelStable, To: res.Level, Changed: true, Since: now}
	}
	if prior.CurrentState != res.Level {
		return Transition{From: prior.CurrentState, To: res.Level, Changed: true, Since: now}
	}
	since := now
	if prior.SinceDate != nil {
		since = *prior.SinceDate
	}
	return Transition{From: prior.CurrentState, To: res.Level, Since: since}
}

// EmotionVerdict is the outcome of the emotion track.
type EmotionVerdict struct {
	Level  alerts.Level
	Reason string
	Fired  bool
}

// EvaluateEmotion runs the emotion rules over samples inside the lookback
// window, newest first, capped at the sample limit.
func (e *Evaluator) EvaluateEmotion(now time.Time, samples []signals.EmotionSample) EmotionVerdict {
	window := RecentSamples(now, samples, e.thresholds)
	if len(window) == 0 {
		return EmotionVerdict{Level: alerts.LevelStable, Reason: alerts.ReasonNoEmotionData}
	}
	for _, r := range e.emotion {
		if r.Fires(now, window, e.thresholds) {
			return EmotionVerdict{Level: alerts.LevelAction, Reason: r.Reason(), Fired: true}
		}
	}
	return EmotionVerdict{Level: alerts.LevelStable, Reason: alerts.ReasonEmotionsWithinRange}
}

// RecentSamples filters to the lookback window and orders newest first.
func RecentSamples(now time.Time, samples []signals.EmotionSample, t Thresholds) []signals.EmotionSample {
	start := now.Add(-t.EmotionLookback)
	out := make([]signals.EmotionSample, 0, len(samples))
	for _, s := range samples {
		if s.CreatedAt.Before(start) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if t.EmotionSampleLimit > 0 && len(out) > t.EmotionSampleLimit {
		out = out[:t.EmotionSampleLimit]
	}
	return out
}
