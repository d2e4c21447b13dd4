package emergency_sms

import (
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

// Pipeline delivers the emergency SMS queued by the emotion track. Delivery
// failures are recorded by the notification service and do not fail the job.
type Pipeline struct {
	log           *logger.Logger
	notifications services.NotificationService
}

func New(baseLog *logger.Logger, notifications services.NotificationService) *Pipeline {
	return &Pipeline{
		log:           baseLog.With("job", domainJobs.TypeEmergencySMS),
		notifications: notifications,
	}
}

func (p *Pipeline) Type() string { return domainJobs.TypeEmergencySMS }
