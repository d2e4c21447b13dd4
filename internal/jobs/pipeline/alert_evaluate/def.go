package alert_evaluate

import (
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type Pipeline struct {
	log    *logger.Logger
	alerts services.AlertEvaluator
}

func New(baseLog *logger.Logger, alerts services.AlertEvaluator) *Pipeline {
	return &Pipeline{
		log:    baseLog.With("job", domainJobs.TypeAlertEvaluate),
		alerts: alerts,
	}
}

func (p *Pipeline) Type() string { return domainJobs.TypeAlertEvaluate }
