package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type EmotionSampleRepo interface {
	Create(dbc dbctx.Context, samples []*types.EmotionSample) ([]*types.EmotionSample, error)
	ListRecent(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*types.EmotionSample, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.EmotionSample, error)
}

type emotionSampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmotionSampleRepo(db *gorm.DB, baseLog *logger.Logger) EmotionSampleRepo {
	repoLog := baseLog.With("repo", "EmotionSampleRepo")
	return &emotionSampleRepo{db: db, log: repoLog}
}

func (r *emotionSampleRepo) Create(dbc dbctx.Context, samples []*types.EmotionSample) ([]*types.EmotionSample, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(samples) == 0 {
		return []*types.EmotionSample{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

// ListRecent returns up to limit samples created at or after since, newest first.
func (r *emotionSampleRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*types.EmotionSample, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.EmotionSample
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListSince returns every sample created at or after since, oldest first.
func (r *emotionSampleRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.EmotionSample, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.EmotionSample
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
