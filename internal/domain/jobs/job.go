package jobs

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeAlertEvaluate        = "alert.evaluate"
	TypeEmotionAlertEvaluate = "emotion_alert.evaluate"
	TypeEmergencySMS         = "notification.emergency_sms"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusDropped   = "dropped"
)

// Job is one unit of background work for a single user. Jobs live only in
// the in-process queue; their outcome is visible through the rows the
// handler writes.
type Job struct {
	ID         uuid.UUID
	Type       string
	UserID     uuid.UUID
	Reason     string
	EnqueuedAt time.Time
	TraceID    string
	RequestID  string
}

func New(jobType string, userID uuid.UUID, reason string) Job {
	return Job{
		ID:         uuid.New(),
		Type:       jobType,
		UserID:     userID,
		Reason:     reason,
		EnqueuedAt: time.Now().UTC(),
	}
}
