package emotion_alert_evaluate

import (
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type Pipeline struct {
	log     *logger.Logger
	emotion services.EmotionAlertService
}

func New(baseLog *logger.Logger, emotion services.EmotionAlertService) *Pipeline {
	return &Pipeline{
		log:     baseLog.With("job", domainJobs.TypeEmotionAlertEvaluate),
		emotion: emotion,
	}
}

func (p *Pipeline) Type() string { return domainJobs.TypeEmotionAlertEvaluate }
