package emotion_alert_evaluate

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
	ea, err := p.emotion.EvaluateEmotionAlert(jc.Ctx, jc.UserID())
	if err != nil {
		return fmt.Errorf("evaluate emotion alert: %w", err)
	}
	jc.Log.Debug("Emotion alert evaluated", "state", string(ea.State), "reason", ea.Reason)
	return nil
}
