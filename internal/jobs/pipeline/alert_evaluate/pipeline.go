package alert_evaluate

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
	level, err := p.alerts.EvaluateAlert(jc.Ctx, jc.UserID())
	if err != nil {
		return fmt.Errorf("evaluate alert (%s): %w", jc.Job.Reason, err)
	}
	jc.Log.Debug("Alert evaluated", "reason", jc.Job.Reason, "state", string(level))
	return nil
}
