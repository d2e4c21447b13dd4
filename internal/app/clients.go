package app

import (
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/moodwatch/moodwatch-backend/internal/clients/redis"
	"github.com/moodwatch/moodwatch-backend/internal/clients/twilio"
	"github.com/moodwatch/moodwatch-backend/internal/platform/locker"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type Clients struct {
	Redis   *goredis.Client
	SMS     twilio.Client
	SMSFrom string
	Locker  locker.Locker
}

// wireClients connects optional collaborators. Redis backs the evaluation
// lock across instances; without REDIS_ADDR an in-process lock is used. A
// missing Twilio account leaves SMS nil so dispatches record "not configured".
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	out := Clients{Locker: locker.NewKeyed()}

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewClient(log, redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Locker = locker.NewRedis(rdb, log, locker.RedisConfig{})
	} else {
		log.Warn("REDIS_ADDR not set; alert evaluations are serialized per process only")
	}

	smsCfg := twilio.ConfigFromEnv()
	sms, err := twilio.New(log, smsCfg)
	switch {
	case errors.Is(err, twilio.ErrNotConfigured):
		log.Warn("Twilio not configured; emergency SMS will be logged as failed")
	case err != nil:
		return Clients{}, fmt.Errorf("init twilio: %w", err)
	default:
		out.SMS = sms
		out.SMSFrom = smsCfg.From
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
