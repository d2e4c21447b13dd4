package signals

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type WeeklySurveyRepo interface {
	Upsert(dbc dbctx.Context, survey *types.WeeklySurvey) (*types.WeeklySurvey, error)
	Latest(dbc dbctx.Context, userID uuid.UUID) (*types.WeeklySurvey, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, weekStart time.Time) ([]*types.WeeklySurvey, error)
}

type weeklySurveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklySurveyRepo(db *gorm.DB, baseLog *logger.Logger) WeeklySurveyRepo {
	repoLog := baseLog.With("repo", "WeeklySurveyRepo")
	return &weeklySurveyRepo{db: db, log: repoLog}
}

// Upsert writes the survey for (user, week), overwriting scores on resubmission,
// and returns the stored row.
func (r *weeklySurveyRepo) Upsert(dbc dbctx.Context, survey *types.WeeklySurvey) (*types.WeeklySurvey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	survey.WeekStartDate = survey.WeekStartDate.UTC()

	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sleep", "stress", "energy", "focus", "social", "total_score", "updated_at",
			}),
		}).
		Create(survey).Error; err != nil {
		return nil, err
	}

	var stored types.WeeklySurvey
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND week_start_date = ?", survey.UserID, survey.WeekStartDate).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Latest returns the most recent survey of any age, or nil.
func (r *weeklySurveyRepo) Latest(dbc dbctx.Context, userID uuid.UUID) (*types.WeeklySurvey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var s types.WeeklySurvey
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("week_start_date DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSince returns surveys with week_start_date >= weekStart, oldest first.
func (r *weeklySurveyRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, weekStart time.Time) ([]*types.WeeklySurvey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.WeeklySurvey
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND week_start_date >= ?", userID, weekStart.UTC()).
		Order("week_start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
