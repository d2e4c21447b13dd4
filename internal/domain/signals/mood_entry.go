package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinMoodScore = 1
	MaxMoodScore = 5
)

// MoodEntry is a daily check-in. Immutable once written.
type MoodEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_mood_entry_user_date,priority:1" json:"userId"`
	MoodScore int       `gorm:"not null;column:mood_score" json:"moodScore"`
	Note      string    `gorm:"column:note" json:"note,omitempty"`
	Date      time.Time `gorm:"not null;index:idx_mood_entry_user_date,priority:2" json:"date"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (MoodEntry) TableName() string { return "mood_entry" }

func (m *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
