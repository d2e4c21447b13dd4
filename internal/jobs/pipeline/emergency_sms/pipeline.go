package emergency_sms

import (
	"fmt"

	"github.com/google/uuid"

	jobrt "github.com/moodwatch/moodwatch-backend/internal/jobs/runtime"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.UserID() == uuid.Nil {
		p.log.Warn("Skipping job without a user")
		return nil
	}
	res, err := p.notifications.SendEmergencySMS(jc.Ctx, jc.UserID())
	if err != nil {
		return fmt.Errorf("send emergency sms: %w", err)
	}
	if !res.OK {
		jc.Log.Warn("Emergency SMS not delivered", "reason", jc.Job.Reason, "error", res.Error)
		return nil
	}
	jc.Log.Info("Emergency SMS delivered", "reason", jc.Job.Reason, "sid", res.SID)
	return nil
}
