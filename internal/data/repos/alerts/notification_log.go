package alerts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type NotificationLogRepo interface {
	Create(dbc dbctx.Context, rows []*types.NotificationLog) ([]*types.NotificationLog, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.NotificationLog, error)
}

type notificationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationLogRepo(db *gorm.DB, baseLog *logger.Logger) NotificationLogRepo {
	repoLog := baseLog.With("repo", "NotificationLogRepo")
	return &notificationLogRepo{db: db, log: repoLog}
}

func (r *notificationLogRepo) Create(dbc dbctx.Context, rows []*types.NotificationLog) ([]*types.NotificationLog, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.NotificationLog{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns dispatch attempts newest first.
func (r *notificationLogRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.NotificationLog, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.NotificationLog
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
