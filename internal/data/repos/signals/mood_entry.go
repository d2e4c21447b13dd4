package signals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type MoodEntryRepo interface {
	Create(dbc dbctx.Context, entries []*types.MoodEntry) ([]*types.MoodEntry, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.MoodEntry, error)
	ExistsBetween(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) (bool, error)
}

type moodEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodEntryRepo(db *gorm.DB, baseLog *logger.Logger) MoodEntryRepo {
	repoLog := baseLog.With("repo", "MoodEntryRepo")
	return &moodEntryRepo{db: db, log: repoLog}
}

func (r *moodEntryRepo) Create(dbc dbctx.Context, entries []*types.MoodEntry) ([]*types.MoodEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return []*types.MoodEntry{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSince returns entries dated at or after since, oldest first.
func (r *moodEntryRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.MoodEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.MoodEntry
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND date >= ?", userID, since.UTC()).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ExistsBetween checks for an entry in [start, end).
func (r *moodEntryRepo) ExistsBetween(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.MoodEntry{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start.UTC(), end.UTC()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
