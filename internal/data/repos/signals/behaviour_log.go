package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type BehaviourLogRepo interface {
	Create(dbc dbctx.Context, logs []*types.BehaviourLog) ([]*types.BehaviourLog, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.BehaviourLog, error)
}

type behaviourLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBehaviourLogRepo(db *gorm.DB, baseLog *logger.Logger) BehaviourLogRepo {
	repoLog := baseLog.With("repo", "BehaviourLogRepo")
	return &behaviourLogRepo{db: db, log: repoLog}
}

func (r *behaviourLogRepo) Create(dbc dbctx.Context, logs []*types.BehaviourLog) ([]*types.BehaviourLog, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.BehaviourLog{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *behaviourLogRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.BehaviourLog, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.BehaviourLog
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND date >= ?", userID, since.UTC()).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
