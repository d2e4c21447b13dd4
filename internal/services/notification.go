package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/moodwatch/moodwatch-backend/internal/clients/twilio"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

const (
	DispatchErrContactMissing = "Emergency contact missing"
	DispatchErrNotConfigured  = "Twilio not configured"
	DispatchErrNoSender       = "TWILIO_PHONE_NUMBER missing"
	DispatchErrSendFailed     = "SMS send failed"

	DefaultNotifyAppName = "MoodWatch"

	notificationKindSMS = "emergency_sms"
)

// DispatchResult is the outcome of one emergency SMS attempt. Dispatch
// problems are reported here, never as errors.
type DispatchResult struct {
	OK    bool   `json:"ok"`
	SID   string `json:"sid,omitempty"`
	Error string `json:"error,omitempty"`
}

// SMSSender is the slice of the Twilio client the dispatcher needs.
type SMSSender interface {
	SendMessage(ctx context.Context, req twilio.SendMessageRequest) (*twilio.Message, error)
}

type NotificationService interface {
	// SendEmergencySMS texts the user's emergency contact. Every outcome
	// appends one notification log row and updates the emotion alert's
	// notification status.
	SendEmergencySMS(ctx context.Context, userID uuid.UUID) (DispatchResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.NotificationLog, error)
}

type notificationService struct {
	log           *logger.Logger
	metrics       *observability.Metrics
	contacts      repos.EmergencyContactRepo
	logs          repos.NotificationLogRepo
	emotionAlerts repos.EmotionAlertRepo

	sender  SMSSender
	from    string
	appName string

	now func() time.Time
}

// NewNotificationService takes a nil sender when SMS credentials are absent;
// dispatches then fail with DispatchErrNotConfigured.
func NewNotificationService(
	log *logger.Logger,
	metrics *observability.Metrics,
	contacts repos.EmergencyContactRepo,
	logs repos.NotificationLogRepo,
	emotionAlerts repos.EmotionAlertRepo,
	sender SMSSender,
	from string,
	appName string,
) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	if strings.TrimSpace(appName) == "" {
		appName = DefaultNotifyAppName
	}
	return &notificationService{
		log:           serviceLog,
		metrics:       metrics,
		contacts:      contacts,
		logs:          logs,
		emotionAlerts: emotionAlerts,
		sender:        sender,
		from:          strings.TrimSpace(from),
		appName:       appName,
		now:           utcNow,
	}
}

func emergencyBody(appName string) string {
	return "This is an automated message from " + appName + ".\n" +
		"We noticed signs of emotional distress.\n" +
		"Please check in with the user."
}

func (s *notificationService) SendEmergencySMS(ctx context.Context, userID uuid.UUID) (DispatchResult, error) {
	if userID == uuid.Nil {
		return DispatchResult{}, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	ctx, span := observability.Tracer().Start(ctx, "notification.emergency_sms")
	defer span.End()

	dbc := dbctx.Context{Ctx: ctx}
	contact, err := s.contacts.GetByUserID(dbc, userID)
	if err != nil {
		span.RecordError(err)
		return DispatchResult{}, fmt.Errorf("load emergency contact: %w", err)
	}

	phone := ""
	if contact != nil {
		phone = strings.TrimSpace(contact.Phone)
	}

	var res DispatchResult
	switch {
	case phone == "":
		res = DispatchResult{Error: DispatchErrContactMissing}
	case s.sender == nil:
		res = DispatchResult{Error: DispatchErrNotConfigured}
	case s.from == "":
		res = DispatchResult{Error: DispatchErrNoSender}
	default:
		res = s.send(ctx, phone)
	}

	s.record(dbc, userID, phone, res)
	span.SetAttributes(attribute.Bool("notification.ok", res.OK))
	return res, nil
}

func (s *notificationService) send(ctx context.Context, phone string) DispatchResult {
	msg, err := s.sender.SendMessage(ctx, twilio.SendMessageRequest{
		To:   phone,
		From: s.from,
		Body: emergencyBody(s.appName),
	})
	if err != nil {
		reason := strings.TrimSpace(err.Error())
		if reason == "" {
			reason = DispatchErrSendFailed
		}
		return DispatchResult{Error: reason}
	}
	sid := ""
	if msg != nil {
		sid = msg.SID
	}
	return DispatchResult{OK: true, SID: sid}
}

// record writes the audit row and the emotion alert status. Storage failures
// here are logged; the dispatch outcome stands.
func (s *notificationService) record(dbc dbctx.Context, userID uuid.UUID, phone string, res DispatchResult) {
	now := s.now()
	row := &types.NotificationLog{
		UserID:    userID,
		Type:      alerts.NotificationTypeEmergencySMS,
		Phone:     phone,
		CreatedAt: now,
	}
	status := alerts.NotificationSent
	var errMsg *string
	if res.OK {
		row.Status = alerts.DeliverySent
		row.ProviderSID = res.SID
	} else {
		row.Status = alerts.DeliveryFailed
		row.ErrorMessage = res.Error
		status = alerts.NotificationFailed
		e := res.Error
		errMsg = &e
	}

	if _, err := s.logs.Create(dbc, []*types.NotificationLog{row}); err != nil {
		s.log.Error("Notification log write failed", "user_id", userID.String(), "error", err)
	}
	if err := s.emotionAlerts.RecordNotification(dbc, userID, status, errMsg, now); err != nil {
		s.log.Error("Emotion alert notification status write failed", "user_id", userID.String(), "error", err)
	}

	s.metrics.IncNotification(notificationKindSMS, string(row.Status))
	if res.OK {
		s.log.Info("Emergency SMS sent", "user_id", userID.String(), "phone", phone, "sid", res.SID)
	} else {
		s.log.Warn("Emergency SMS failed", "user_id", userID.String(), "phone", phone, "reason", res.Error)
	}
}

func (s *notificationService) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.NotificationLog, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	rows, err := s.logs.ListByUser(dbctx.Context{Ctx: ctx}, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}
	return rows, nil
}
