package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SourceManualSurvey = "manual-survey"
	SourceAffectiva    = "affectiva"
)

// EmotionSample stores percentages on a 0..100 scale plus the derived mood score.
type EmotionSample struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_emotion_sample_user_created,priority:1" json:"userId"`
	Sadness    float64   `gorm:"not null" json:"sadness"`
	Anger      float64   `gorm:"not null" json:"anger"`
	Fear       float64   `gorm:"not null" json:"fear"`
	Happy      float64   `gorm:"not null;default:0" json:"happy"`
	Engagement float64   `gorm:"not null" json:"engagement"`
	MoodScore  int       `gorm:"not null;column:mood_score" json:"moodScore"`
	Source     string    `gorm:"not null;default:'manual-survey'" json:"source"`
	Notes      string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index:idx_emotion_sample_user_created,priority:2" json:"createdAt"`
}

func (EmotionSample) TableName() string { return "emotion_sample" }

func (e *EmotionSample) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}
