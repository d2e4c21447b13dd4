package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/jobs/sweep"
	"github.com/moodwatch/moodwatch-backend/internal/platform/envutil"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string

	JWTSecretKey string
	AllowOrigins []string
	AppName      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JobWorkerConcurrency int
	JobQueueSize         int
	JobTimeout           time.Duration

	SweepEnabled bool
	Sweep        sweep.Config

	AlertRulesPath string
	Thresholds     alerting.Thresholds
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "moodwatch-api"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		AllowOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil),
		AppName:      envutil.String("NOTIFY_APP_NAME", "MoodWatch"),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),

		JobWorkerConcurrency: envutil.Int("JOB_WORKER_CONCURRENCY", 4),
		JobQueueSize:         envutil.Int("JOB_QUEUE_SIZE", 1024),
		JobTimeout:           envutil.Duration("JOB_TIMEOUT", time.Minute),

		SweepEnabled: envutil.Bool("DAILY_SWEEP_ENABLED", true),
		Sweep: sweep.Config{
			Hour:    envutil.Int("DAILY_SWEEP_HOUR", 22),
			Minute:  envutil.Int("DAILY_SWEEP_MINUTE", 0),
			Timeout: envutil.Duration("DAILY_SWEEP_TIMEOUT", 30*time.Minute),
		},

		AlertRulesPath: strings.TrimSpace(envutil.String("ALERT_RULES_PATH", "")),
		Thresholds:     alerting.DefaultThresholds(),
	}

	if cfg.AlertRulesPath != "" {
		t, err := alerting.LoadThresholds(cfg.AlertRulesPath)
		if err != nil {
			return Config{}, fmt.Errorf("load alert rules: %w", err)
		}
		cfg.Thresholds = t
		log.Info("Loaded alert thresholds", "path", cfg.AlertRulesPath)
	}
	if cfg.SweepEnabled {
		if err := cfg.Sweep.Validate(); err != nil {
			return Config{}, err
		}
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; /api is served without bearer auth")
	}
	return cfg, nil
}
