package app

import (
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type Repos struct {
	User             repos.UserRepo
	MoodEntry        repos.MoodEntryRepo
	BehaviourLog     repos.BehaviourLogRepo
	WeeklySurvey     repos.WeeklySurveyRepo
	EmotionSample    repos.EmotionSampleRepo
	AlertState       repos.AlertStateRepo
	AlertHistory     repos.AlertHistoryRepo
	EmotionAlert     repos.EmotionAlertRepo
	NotificationLog  repos.NotificationLogRepo
	EmergencyContact repos.EmergencyContactRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		MoodEntry:        repos.NewMoodEntryRepo(db, log),
		BehaviourLog:     repos.NewBehaviourLogRepo(db, log),
		WeeklySurvey:     repos.NewWeeklySurveyRepo(db, log),
		EmotionSample:    repos.NewEmotionSampleRepo(db, log),
		AlertState:       repos.NewAlertStateRepo(db, log),
		AlertHistory:     repos.NewAlertHistoryRepo(db, log),
		EmotionAlert:     repos.NewEmotionAlertRepo(db, log),
		NotificationLog:  repos.NewNotificationLogRepo(db, log),
		EmergencyContact: repos.NewEmergencyContactRepo(db, log),
	}
}
