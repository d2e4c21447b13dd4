package alerts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type AlertHistoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.AlertHistory) ([]*types.AlertHistory, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.AlertHistory, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type alertHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertHistoryRepo(db *gorm.DB, baseLog *logger.Logger) AlertHistoryRepo {
	repoLog := baseLog.With("repo", "AlertHistoryRepo")
	return &alertHistoryRepo{db: db, log: repoLog}
}

func (r *alertHistoryRepo) Create(dbc dbctx.Context, rows []*types.AlertHistory) ([]*types.AlertHistory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.AlertHistory{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns transitions newest first.
func (r *alertHistoryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.AlertHistory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).Order("changed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.AlertHistory
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *alertHistoryRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.AlertHistory{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
