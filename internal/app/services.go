package app

import (
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Mood         services.MoodService
	Behaviour    services.BehaviourService
	Survey       services.SurveyService
	Emotion      services.EmotionService
	Contact      services.ContactService
	Alert        services.AlertService
	EmotionAlert services.EmotionAlertService
	Notification services.NotificationService
	Sweep        services.SweepService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, repos Repos, clients Clients, queue *jobs.Queue) Services {
	log.Info("Wiring services...")
	evaluator := alerting.NewEvaluator(cfg.Thresholds)

	var sender services.SMSSender
	if clients.SMS != nil {
		sender = clients.SMS
	}

	alertService := services.NewAlertService(db, log, evaluator, clients.Locker, metrics,
		repos.MoodEntry, repos.BehaviourLog, repos.WeeklySurvey, repos.AlertState, repos.AlertHistory, repos.EmotionAlert)

	return Services{
		Auth:         services.NewAuthService(log, cfg.JWTSecretKey),
		User:         services.NewUserService(db, log, repos.User),
		Mood:         services.NewMoodService(log, repos.MoodEntry, queue),
		Behaviour:    services.NewBehaviourService(log, repos.BehaviourLog, queue),
		Survey:       services.NewSurveyService(log, repos.WeeklySurvey, alertService),
		Emotion:      services.NewEmotionService(log, repos.EmotionSample, queue),
		Contact:      services.NewContactService(log, repos.EmergencyContact),
		Alert:        alertService,
		EmotionAlert: services.NewEmotionAlertService(log, evaluator, clients.Locker, metrics, queue,
			repos.EmotionSample, repos.EmotionAlert),
		Notification: services.NewNotificationService(log, metrics, repos.EmergencyContact, repos.NotificationLog,
			repos.EmotionAlert, sender, clients.SMSFrom, cfg.AppName),
		Sweep: services.NewSweepService(log, metrics, repos.User, repos.MoodEntry, repos.BehaviourLog, alertService),
	}
}
