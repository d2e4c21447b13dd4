package domain

import (
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/contacts"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	"github.com/moodwatch/moodwatch-backend/internal/domain/user"
)

type User = user.User
type Role = user.Role

type MoodEntry = signals.MoodEntry
type BehaviourLog = signals.BehaviourLog
type BehaviourType = signals.BehaviourType
type WeeklySurvey = signals.WeeklySurvey
type EmotionSample = signals.EmotionSample

type Level = alerts.Level
type AlertState = alerts.AlertState
type AlertHistory = alerts.AlertHistory
type EmotionAlert = alerts.EmotionAlert
type NotificationLog = alerts.NotificationLog
type NotificationStatus = alerts.NotificationStatus
type DeliveryStatus = alerts.DeliveryStatus

type EmergencyContact = contacts.EmergencyContact

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&MoodEntry{},
		&BehaviourLog{},
		&WeeklySurvey{},
		&EmotionSample{},
		&EmergencyContact{},
		&AlertState{},
		&AlertHistory{},
		&EmotionAlert{},
		&NotificationLog{},
	}
}
