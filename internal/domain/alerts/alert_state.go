package alerts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TriggerMoodLow3Days         = "mood_low_3_days"
	TriggerMoodLow2Days         = "mood_low_2_days"
	TriggerMissedCheckins       = "missed_checkins"
	TriggerLowWeeklySurvey      = "low_weekly_survey"
	TriggerModerateWeeklySurvey = "moderate_weekly_survey"
	TriggerProlongedWatch       = "prolonged_watch"
)

// AlertState is the single mood/behaviour/survey track record per user.
// Version increments on every write and guards compare-and-swap updates.
type AlertState struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"-"`
	UserID        uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	CurrentState  Level                       `gorm:"not null;default:stable;column:current_state" json:"currentState"`
	TriggeredBy   datatypes.JSONSlice[string] `gorm:"column:triggered_by" json:"triggeredBy"`
	Explanation   string                      `gorm:"column:explanation" json:"explanation"`
	SinceDate     *time.Time                  `gorm:"column:since_date" json:"sinceDate"`
	LastEvaluated *time.Time                  `gorm:"column:last_evaluated" json:"lastEvaluated"`
	Version       int64                       `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time                   `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time                   `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (AlertState) TableName() string { return "alert_state" }

func (a *AlertState) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AlertHistory is append-only; one row per observed transition.
type AlertHistory struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                   `gorm:"type:uuid;not null;index:idx_alert_history_user_changed,priority:1" json:"userId"`
	FromState   Level                       `gorm:"not null;column:from_state" json:"fromState"`
	ToState     Level                       `gorm:"not null;column:to_state" json:"toState"`
	TriggeredBy datatypes.JSONSlice[string] `gorm:"column:triggered_by" json:"triggeredBy"`
	Explanation string                      `gorm:"column:explanation" json:"explanation"`
	ChangedAt   time.Time                   `gorm:"not null;index:idx_alert_history_user_changed,priority:2" json:"changedAt"`
}

func (AlertHistory) TableName() string { return "alert_history" }

func (h *AlertHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
