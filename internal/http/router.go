package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/moodwatch/moodwatch-backend/internal/http/handlers"
	httpMW "github.com/moodwatch/moodwatch-backend/internal/http/middleware"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowOrigins   []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler  *httpH.HealthHandler
	UserHandler    *httpH.UserHandler
	MoodHandler    *httpH.MoodHandler
	SurveyHandler  *httpH.SurveyHandler
	EmotionHandler *httpH.EmotionHandler
	ContactHandler *httpH.ContactHandler
	AlertHandler   *httpH.AlertHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users/:userId", cfg.UserHandler.Get)
		}

		// Signals
		if cfg.MoodHandler != nil {
			api.POST("/mood", cfg.MoodHandler.RecordMood)
			api.POST("/behaviour-logs", cfg.MoodHandler.RecordBehaviour)
		}
		if cfg.SurveyHandler != nil {
			api.POST("/weekly-survey", cfg.SurveyHandler.Submit)
			api.GET("/weekly-survey/:userId/analytics", cfg.SurveyHandler.Analytics)
		}
		if cfg.EmotionHandler != nil {
			api.POST("/emotion", cfg.EmotionHandler.Record)
			api.GET("/emotion/:userId/analytics", cfg.EmotionHandler.Analytics)
		}

		// Emergency contact
		if cfg.ContactHandler != nil {
			api.POST("/emergency-contact", cfg.ContactHandler.Upsert)
			api.GET("/emergency-contact/:userId", cfg.ContactHandler.Get)
		}

		// Alerts
		if cfg.AlertHandler != nil {
			api.GET("/alert/:userId", cfg.AlertHandler.Overview)
			api.GET("/alert/:userId/history", cfg.AlertHandler.History)
			api.GET("/notifications/:userId", cfg.AlertHandler.Notifications)
		}
	}

	return r
}
