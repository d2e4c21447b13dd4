package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxSurveyItemScore = 2

// WeeklySurvey holds at most one row per user and week; WeekStartDate is the
// Monday 00:00 UTC of the submission week.
type WeeklySurvey struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_survey_user_week,priority:1" json:"userId"`
	Sleep         int       `gorm:"not null" json:"sleep"`
	Stress        int       `gorm:"not null" json:"stress"`
	Energy        int       `gorm:"not null" json:"energy"`
	Focus         int       `gorm:"not null" json:"focus"`
	Social        int       `gorm:"not null" json:"social"`
	TotalScore    int       `gorm:"not null;column:total_score" json:"totalScore"`
	WeekStartDate time.Time `gorm:"not null;uniqueIndex:idx_weekly_survey_user_week,priority:2" json:"weekStartDate"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (WeeklySurvey) TableName() string { return "weekly_survey" }

func (w *WeeklySurvey) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WeekStart returns Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := t.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
