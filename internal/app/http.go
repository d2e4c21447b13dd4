package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/http"
	httpH "github.com/moodwatch/moodwatch-backend/internal/http/handlers"
	httpMW "github.com/moodwatch/moodwatch-backend/internal/http/middleware"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	User    *httpH.UserHandler
	Mood    *httpH.MoodHandler
	Survey  *httpH.SurveyHandler
	Emotion *httpH.EmotionHandler
	Contact *httpH.ContactHandler
	Alert   *httpH.AlertHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		User:    httpH.NewUserHandler(services.User),
		Mood:    httpH.NewMoodHandler(services.User, services.Mood, services.Behaviour),
		Survey:  httpH.NewSurveyHandler(services.User, services.Survey),
		Emotion: httpH.NewEmotionHandler(services.User, services.Emotion),
		Contact: httpH.NewContactHandler(services.User, services.Contact),
		Alert:   httpH.NewAlertHandler(services.User, services.Alert, services.Notification),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, tracing bool, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		TracingEnabled: tracing,
		AllowOrigins:   cfg.AllowOrigins,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlers.Health,
		UserHandler:    handlers.User,
		MoodHandler:    handlers.Mood,
		SurveyHandler:  handlers.Survey,
		EmotionHandler: handlers.Emotion,
		ContactHandler: handlers.Contact,
		AlertHandler:   handlers.Alert,
	})
}
