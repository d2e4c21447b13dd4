package alerting

import "github.com/moodwatch/moodwatch-backend/internal/domain/alerts"

// Outcome is what a rule returns: an optional level to escalate to and an
// optional trigger tag. The zero Outcome means no change.
type Outcome struct {
	Escalate alerts.Level
	Trigger  string
}

// Rule is one escalation step. Apply sees the level computed so far.
type Rule interface {
	Name() string
	Apply(current alerts.Level, f Facts, t Thresholds) Outcome
}

type ruleFunc struct {
	name string
	fn   func(current alerts.Level, f Facts, t Thresholds) Outcome
}

func (r ruleFunc) Name() string { return r.name }
func (r ruleFunc) Apply(current alerts.Level, f Facts, t Thresholds) Outcome {
	return r.fn(current, f, t)
}

// NewRule wraps a function as a Rule.
func NewRule(name string, fn func(current alerts.Level, f Facts, t Thresholds) Outcome) Rule {
	return ruleFunc{name: name, fn: fn}
}

// BaseLevel derives the starting level from low-mood days alone.
func BaseLevel(f Facts, t Thresholds) (alerts.Level, []string) {
	switch {
	case f.LowMoodDays >= t.LowMoodDaysAction:
		return alerts.LevelAction, []string{alerts.TriggerMoodLow3Days}
	case f.LowMoodDays >= t.LowMoodDaysWatch:
		return alerts.LevelWatch, []string{alerts.TriggerMoodLow2Days}
	default:
		return alerts.LevelStable, nil
	}
}

// MissedCheckinsRule lifts stable to watch and always tags the evaluation.
var MissedCheckinsRule = NewRule("missed_checkins", func(current alerts.Level, f Facts, t Thresholds) Outcome {
	if f.MissedCheckins < t.MissedCheckinsWatch {
		return Outcome{}
	}
	out := Outcome{Trigger: alerts.TriggerMissedCheckins}
	if current == alerts.LevelStable {
		out.Escalate = alerts.LevelWatch
	}
	return out
})

// WeeklySurveyRule uses the latest survey regardless of its age.
var WeeklySurveyRule = NewRule("weekly_survey", func(current alerts.Level, f Facts, t Thresholds) Outcome {
	if f.SurveyTotal == nil {
		return Outcome{}
	}
	total := *f.SurveyTotal
	switch {
	case total <= t.SurveyActionMax:
		return Outcome{Escalate: alerts.LevelAction, Trigger: alerts.TriggerLowWeeklySurvey}
	case total <= t.SurveyWatchMax && current == alerts.LevelStable:
		return Outcome{Escalate: alerts.LevelWatch, Trigger: alerts.TriggerModerateWeeklySurvey}
	default:
		return Outcome{}
	}
})

// ProlongedWatchRule looks at the persisted level, not the one being computed.
var ProlongedWatchRule = NewRule("prolonged_watch", func(_ alerts.Level, f Facts, t Thresholds) Outcome {
	if f.PriorLevel != alerts.LevelWatch || f.PriorSince == nil {
		return Outcome{}
	}
	if f.Now.Sub(*f.PriorSince) > t.ProlongedWatch {
		return Outcome{Escalate: alerts.LevelAction, Trigger: alerts.TriggerProlongedWatch}
	}
	return Outcome{}
})

// DefaultRules is the production escalation order.
func DefaultRules() []Rule {
	return []Rule{MissedCheckinsRule, WeeklySurveyRule, ProlongedWatchRule}
}
