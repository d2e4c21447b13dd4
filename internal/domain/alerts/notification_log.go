package alerts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NotificationTypeEmergencySMS = "EMERGENCY_SMS"

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

// NotificationLog is append-only; one row per dispatch attempt.
type NotificationLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_notification_log_user_created,priority:1" json:"userId"`
	Type         string         `gorm:"not null;default:EMERGENCY_SMS" json:"type"`
	Phone        string         `gorm:"column:phone" json:"phone"`
	Status       DeliveryStatus `gorm:"not null" json:"status"`
	ProviderSID  string         `gorm:"column:provider_sid" json:"sid,omitempty"`
	ErrorMessage string         `gorm:"column:error_message" json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index:idx_notification_log_user_created,priority:2" json:"createdAt"`
}

func (NotificationLog) TableName() string { return "notification_log" }

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
