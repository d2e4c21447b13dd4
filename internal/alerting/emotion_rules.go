package alerting

import (
	"time"

	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
)

// EmotionRule fires the emotion track into action. Samples arrive newest first.
type EmotionRule interface {
	Reason() string
	Fires(now time.Time, samples []signals.EmotionSample, t Thresholds) bool
}

// DefaultEmotionRules lists rules in precedence order; the first to fire
// supplies the reason.
func DefaultEmotionRules() []EmotionRule {
	return []EmotionRule{sustainedSadness{}, sustainedLowMood{}}
}

type sustainedSadness struct{}

func (sustainedSadness) Reason() string { return alerts.ReasonHighSadness }

// Fires when SadnessRun adjacent samples by list position all exceed the threshold.
func (sustainedSadness) Fires(_ time.Time, samples []signals.EmotionSample, t Thresholds) bool {
	run := 0
	for _, s := range samples {
		if s.Sadness > t.SadnessThreshold {
			run++
			if run >= t.SadnessRun {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

type sustainedLowMood struct{}

func (sustainedLowMood) Reason() string { return alerts.ReasonMoodVeryLow }

// Fires when the most recent low-mood sample is at least SustainedLowMood
// old. A fresh low reading resets the clock. With a lookback equal to
// SustainedLowMood this only matches at the exact window boundary.
func (sustainedLowMood) Fires(now time.Time, samples []signals.EmotionSample, t Thresholds) bool {
	for i := range samples {
		if samples[i].MoodScore <= t.EmotionLowMoodScore {
			return !samples[i].CreatedAt.After(now.Add(-t.SustainedLowMood))
		}
	}
	return false
}
