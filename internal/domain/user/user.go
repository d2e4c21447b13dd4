package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RolePatient   Role = "patient"
	RoleHospital  Role = "hospital"
	RoleOldAge    Role = "oldage"
	RolePathology Role = "pathology"
	RoleDementia  Role = "dementia"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleHospital, RoleOldAge, RolePathology, RoleDementia:
		return true
	default:
		return false
	}
}

// User is identity only; credentials live with the auth provider.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Email     *string   `gorm:"uniqueIndex;column:email" json:"email,omitempty"`
	Phone     *string   `gorm:"uniqueIndex;column:phone" json:"phone,omitempty"`
	Role      Role      `gorm:"not null;default:patient;column:role" json:"role"`
	HealthID  string    `gorm:"uniqueIndex;not null;column:health_id" json:"healthId"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
