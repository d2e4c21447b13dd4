package alerts

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	domainAlerts "github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type EmotionAlertRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.EmotionAlert, error)
	Upsert(dbc dbctx.Context, userID uuid.UUID, level types.Level, reason string, now time.Time) (*types.EmotionAlert, error)
	ClaimNotification(dbc dbctx.Context, userID uuid.UUID, now time.Time, window time.Duration) (bool, error)
	RecordNotification(dbc dbctx.Context, userID uuid.UUID, status types.NotificationStatus, errMsg *string, at time.Time) error
}

type emotionAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmotionAlertRepo(db *gorm.DB, baseLog *logger.Logger) EmotionAlertRepo {
	repoLog := baseLog.With("repo", "EmotionAlertRepo")
	return &emotionAlertRepo{db: db, log: repoLog}
}

// GetByUserID returns nil, nil when no emotion alert exists yet.
func (r *emotionAlertRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.EmotionAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ea types.EmotionAlert
	err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&ea).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ea, nil
}

// Upsert persists the evaluated level. Entering action stamps triggered_at;
// any other level resets the notification status to not_sent. Notification
// timestamps are left alone so suppression survives re-evaluation.
func (r *emotionAlertRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, level types.Level, reason string, now time.Time) (*types.EmotionAlert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now = now.UTC()

	row := &types.EmotionAlert{
		UserID:                 userID,
		State:                  level,
		Reason:                 reason,
		LastEvaluated:          &now,
		LastNotificationStatus: domainAlerts.NotificationNotSent,
	}
	updates := map[string]any{
		"state":          level,
		"reason":         reason,
		"last_evaluated": now,
		"updated_at":     now,
	}
	if level == domainAlerts.LevelAction {
		row.TriggeredAt = &now
		updates["triggered_at"] = now
	} else {
		updates["last_notification_status"] = domainAlerts.NotificationNotSent
	}

	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	var stored types.EmotionAlert
	if err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ClaimNotification atomically stamps last_notification_at when the previous
// dispatch is at least window old. Only one concurrent caller gets true.
func (r *emotionAlertRepo) ClaimNotification(dbc dbctx.Context, userID uuid.UUID, now time.Time, window time.Duration) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now = now.UTC()
	cutoff := now.Add(-window)
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.EmotionAlert{}).
		Where("user_id = ? AND (last_notification_at IS NULL OR last_notification_at <= ?)", userID, cutoff).
		Updates(map[string]any{
			"last_notification_at": now,
			"updated_at":           now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *emotionAlertRepo) RecordNotification(dbc dbctx.Context, userID uuid.UUID, status types.NotificationStatus, errMsg *string, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	at = at.UTC()
	return transaction.WithContext(dbc.Ctx).
		Model(&types.EmotionAlert{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"last_notification_status": status,
			"last_notification_error":  errMsg,
			"last_notification_at":     at,
			"updated_at":               at,
		}).Error
}
