package alerting

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds carries every tunable of both tracks. Keys missing from a YAML
// override keep their defaults.
type Thresholds struct {
	MoodWindow          time.Duration `yaml:"mood_window"`
	BehaviourWindow     time.Duration `yaml:"behaviour_window"`
	LowMoodScore        int           `yaml:"low_mood_score"`
	LowMoodDaysWatch    int           `yaml:"low_mood_days_watch"`
	LowMoodDaysAction   int           `yaml:"low_mood_days_action"`
	MissedCheckinsWatch int           `yaml:"missed_checkins_watch"`
	SurveyActionMax     int           `yaml:"survey_action_max"`
	SurveyWatchMax      int           `yaml:"survey_watch_max"`
	ProlongedWatch      time.Duration `yaml:"prolonged_watch"`

	EmotionLookback         time.Duration `yaml:"emotion_lookback"`
	EmotionSampleLimit      int           `yaml:"emotion_sample_limit"`
	SadnessThreshold        float64       `yaml:"sadness_threshold"`
	SadnessRun              int           `yaml:"sadness_run"`
	EmotionLowMoodScore     int           `yaml:"emotion_low_mood_score"`
	SustainedLowMood        time.Duration `yaml:"sustained_low_mood"`
	NotificationSuppression time.Duration `yaml:"notification_suppression"`
}

// DefaultThresholds reproduces the production constants.
//
// SadnessThreshold is compared against stored sadness on its 0..100 scale, so
// 0.7 fires for almost any non-zero sadness. It stays at 0.7 until the
// clinical owners confirm whether 70 was meant.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MoodWindow:          14 * 24 * time.Hour,
		BehaviourWindow:     7 * 24 * time.Hour,
		LowMoodScore:        2,
		LowMoodDaysWatch:    2,
		LowMoodDaysAction:   3,
		MissedCheckinsWatch: 2,
		SurveyActionMax:     4,
		SurveyWatchMax:      6,
		ProlongedWatch:      10 * 24 * time.Hour,

		EmotionLookback:         24 * time.Hour,
		EmotionSampleLimit:      50,
		SadnessThreshold:        0.7,
		SadnessRun:              3,
		EmotionLowMoodScore:     2,
		SustainedLowMood:        24 * time.Hour,
		NotificationSuppression: 30 * time.Minute,
	}
}

// LoadThresholds reads a YAML override file on top of the defaults. An empty
// path returns the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read alert rules %s: %w", path, err)
	}
	return ParseThresholds(raw)
}

func ParseThresholds(raw []byte) (Thresholds, error) {
	t := DefaultThresholds()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return DefaultThresholds(), fmt.Errorf("parse alert rules: %w", err)
	}
	if err := t.Validate(); err != nil {
		return DefaultThresholds(), err
	}
	return t, nil
}

func (t Thresholds) Validate() error {
	switch {
	case t.MoodWindow <= 0 || t.BehaviourWindow <= 0:
		return fmt.Errorf("alert rules: windows must be positive")
	case t.LowMoodDaysWatch <= 0 || t.LowMoodDaysAction < t.LowMoodDaysWatch:
		return fmt.Errorf("alert rules: low_mood_days_action must be >= low_mood_days_watch > 0")
	case t.SurveyWatchMax < t.SurveyActionMax:
		return fmt.Errorf("alert rules: survey_watch_max must be >= survey_action_max")
	case t.SadnessRun <= 0:
		return fmt.Errorf("alert rules: sadness_run must be positive")
	case t.EmotionSampleLimit <= 0:
		return fmt.Errorf("alert rules: emotion_sample_limit must be positive")
	case t.EmotionLookback <= 0:
		return fmt.Errorf("alert rules: emotion_lookback must be positive")
	case t.NotificationSuppression < 0:
		return fmt.Errorf("alert rules: notification_suppression must not be negative")
	}
	return nil
}
