package alerts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationStatus string

const (
	NotificationNotSent NotificationStatus = "not_sent"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

const (
	ReasonNoEmotionData       = "No recent emotion data"
	ReasonHighSadness         = "High sadness sustained"
	ReasonMoodVeryLow         = "Mood very low >24h"
	ReasonEmotionsWithinRange = "Emotions within normal range"
)

// EmotionAlert is the emotion track record, one per user, independent of AlertState.
type EmotionAlert struct {
	ID                     uuid.UUID          `gorm:"type:uuid;primaryKey" json:"-"`
	UserID                 uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	State                  Level              `gorm:"not null;default:watch" json:"state"`
	Reason                 string             `gorm:"column:reason" json:"reason"`
	TriggeredAt            *time.Time         `gorm:"column:triggered_at" json:"triggeredAt"`
	LastEvaluated          *time.Time         `gorm:"column:last_evaluated" json:"lastEvaluated"`
	LastNotificationStatus NotificationStatus `gorm:"not null;default:not_sent;column:last_notification_status" json:"lastNotificationStatus"`
	LastNotificationAt     *time.Time         `gorm:"column:last_notification_at" json:"lastNotificationAt"`
	LastNotificationError  *string            `gorm:"column:last_notification_error" json:"lastNotificationError,omitempty"`
	CreatedAt              time.Time          `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt              time.Time          `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (EmotionAlert) TableName() string { return "emotion_alert" }

func (e *EmotionAlert) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
