package repos

import (
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos/contacts"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos/signals"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos/user"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type MoodEntryRepo = signals.MoodEntryRepo
type BehaviourLogRepo = signals.BehaviourLogRepo
type WeeklySurveyRepo = signals.WeeklySurveyRepo
type EmotionSampleRepo = signals.EmotionSampleRepo

type AlertStateRepo = alerts.AlertStateRepo
type AlertHistoryRepo = alerts.AlertHistoryRepo
type EmotionAlertRepo = alerts.EmotionAlertRepo
type NotificationLogRepo = alerts.NotificationLogRepo

type EmergencyContactRepo = contacts.EmergencyContactRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewMoodEntryRepo(db *gorm.DB, baseLog *logger.Logger) MoodEntryRepo {
	return signals.NewMoodEntryRepo(db, baseLog)
}

func NewBehaviourLogRepo(db *gorm.DB, baseLog *logger.Logger) BehaviourLogRepo {
	return signals.NewBehaviourLogRepo(db, baseLog)
}

func NewWeeklySurveyRepo(db *gorm.DB, baseLog *logger.Logger) WeeklySurveyRepo {
	return signals.NewWeeklySurveyRepo(db, baseLog)
}

func NewEmotionSampleRepo(db *gorm.DB, baseLog *logger.Logger) EmotionSampleRepo {
	return signals.NewEmotionSampleRepo(db, baseLog)
}

func NewAlertStateRepo(db *gorm.DB, baseLog *logger.Logger) AlertStateRepo {
	return alerts.NewAlertStateRepo(db, baseLog)
}

func NewAlertHistoryRepo(db *gorm.DB, baseLog *logger.Logger) AlertHistoryRepo {
	return alerts.NewAlertHistoryRepo(db, baseLog)
}

func NewEmotionAlertRepo(db *gorm.DB, baseLog *logger.Logger) EmotionAlertRepo {
	return alerts.NewEmotionAlertRepo(db, baseLog)
}

func NewNotificationLogRepo(db *gorm.DB, baseLog *logger.Logger) NotificationLogRepo {
	return alerts.NewNotificationLogRepo(db, baseLog)
}

func NewEmergencyContactRepo(db *gorm.DB, baseLog *logger.Logger) EmergencyContactRepo {
	return contacts.NewEmergencyContactRepo(db, baseLog)
}
