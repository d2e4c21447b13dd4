package alerting

import (
	"time"

	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
)

// Snapshot is everything one evaluation of the mood track reads.
type Snapshot struct {
	Now        time.Time
	Moods      []signals.MoodEntry
	Behaviours []signals.BehaviourLog
	Survey     *signals.WeeklySurvey
	Prior      *alerts.AlertState
}

// Facts are the aggregates the rules look at.
type Facts struct {
	Now            time.Time
	LowMoodDays    int
	MissedCheckins int
	SurveyTotal    *int
	PriorLevel     alerts.Level
	PriorSince     *time.Time
}

// Collect reduces a snapshot to facts. Rows outside the configured windows
// are ignored even if the caller passed them in.
func Collect(s Snapshot, t Thresholds) Facts {
	f := Facts{Now: s.Now}

	moodStart := s.Now.Add(-t.MoodWindow)
	lowDays := make(map[string]struct{})
	for _, m := range s.Moods {
		if m.Date.Before(moodStart) || m.MoodScore > t.LowMoodScore {
			continue
		}
		lowDays[m.Date.UTC().Format(time.DateOnly)] = struct{}{}
	}
	f.LowMoodDays = len(lowDays)

	behaviourStart := s.Now.Add(-t.BehaviourWindow)
	for _, b := range s.Behaviours {
		if b.Type == signals.BehaviourMissedCheckin && !b.Date.Before(behaviourStart) {
			f.MissedCheckins++
		}
	}

	if s.Survey != nil {
		total := s.Survey.TotalScore
		f.SurveyTotal = &total
	}
	if s.Prior != nil {
		f.PriorLevel = s.Prior.CurrentState
		f.PriorSince = s.Prior.SinceDate
	}
	return f
}
