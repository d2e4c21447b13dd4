package contacts

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type EmergencyContactRepo interface {
	Upsert(dbc dbctx.Context, contact *types.EmergencyContact) (*types.EmergencyContact, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.EmergencyContact, error)
}

type emergencyContactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmergencyContactRepo(db *gorm.DB, baseLog *logger.Logger) EmergencyContactRepo {
	repoLog := baseLog.With("repo", "EmergencyContactRepo")
	return &emergencyContactRepo{db: db, log: repoLog}
}

func (r *emergencyContactRepo) Upsert(dbc dbctx.Context, contact *types.EmergencyContact) (*types.EmergencyContact, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "relationship", "updated_at"}),
		}).
		Create(contact).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, contact.UserID)
}

// GetByUserID returns nil, nil when the user has not set a contact.
func (r *emergencyContactRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.EmergencyContact, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var c types.EmergencyContact
	err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
