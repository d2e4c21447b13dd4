package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BehaviourType string

const (
	BehaviourMissedCheckin BehaviourType = "missed_checkin"
	BehaviourMissedMed     BehaviourType = "missed_med"
	BehaviourInactivity    BehaviourType = "inactivity"
)

func (t BehaviourType) Valid() bool {
	switch t {
	case BehaviourMissedCheckin, BehaviourMissedMed, BehaviourInactivity:
		return true
	default:
		return false
	}
}

type BehaviourLog struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index:idx_behaviour_log_user_date,priority:1" json:"userId"`
	Type      BehaviourType `gorm:"not null;column:type" json:"type"`
	Date      time.Time     `gorm:"not null;index:idx_behaviour_log_user_date,priority:2" json:"date"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (BehaviourLog) TableName() string { return "behaviour_log" }

func (b *BehaviourLog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
