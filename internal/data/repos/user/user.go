package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByHealthID(dbc dbctx.Context, healthID string) (*types.User, error)
	HealthIDExists(dbc dbctx.Context, healthID string) (bool, error)
	ContactTaken(dbc dbctx.Context, email, phone string) (bool, error)
	ListIDsAfter(dbc dbctx.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByHealthID returns nil, nil when no user carries the id.
func (ur *userRepo) GetByHealthID(dbc dbctx.Context, healthID string) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var u types.User
	err := transaction.WithContext(dbc.Ctx).
		Where("health_id = ?", strings.TrimSpace(healthID)).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) HealthIDExists(dbc dbctx.Context, healthID string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("health_id = ?", healthID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ContactTaken reports whether another user already registered the email or phone.
func (ur *userRepo) ContactTaken(dbc dbctx.Context, email, phone string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if email == "" && phone == "" {
		return false, nil
	}

	q := transaction.WithContext(dbc.Ctx).Model(&types.User{})
	switch {
	case email != "" && phone != "":
		q = q.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		q = q.Where("email = ?", email)
	default:
		q = q.Where("phone = ?", phone)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListIDsAfter pages through user ids in ascending order, for sweeps.
func (ur *userRepo) ListIDsAfter(dbc dbctx.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if limit <= 0 {
		limit = 500
	}

	q := transaction.WithContext(dbc.Ctx).Model(&types.User{}).Order("id ASC").Limit(limit)
	if after != uuid.Nil {
		q = q.Where("id > ?", after)
	}

	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
