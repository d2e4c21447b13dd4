package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/clients/twilio"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/locker"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type queuedJob struct {
	Type   string
	UserID uuid.UUID
	Reason string
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, jobType string, userID uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, queuedJob{Type: jobType, UserID: userID, Reason: reason})
	return nil
}

func (f *fakeEnqueuer) ofType(jobType string) []queuedJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []queuedJob
	for _, j := range f.jobs {
		if j.Type == jobType {
			out = append(out, j)
		}
	}
	return out
}

type fakeSender struct {
	mu   sync.Mutex
	reqs []twilio.SendMessageRequest
	sid  string
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, req twilio.SendMessageRequest) (*twilio.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &twilio.Message{SID: f.sid, To: req.To, From: req.From, Body: req.Body}, nil
}

func (f *fakeSender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type testEnv struct {
	ctx     context.Context
	db      *gorm.DB
	log     *logger.Logger
	metrics *observability.Metrics
	locks   locker.Locker
	now     time.Time
	jobs    *fakeEnqueuer

	evaluator *alerting.Evaluator

	users         repos.UserRepo
	moods         repos.MoodEntryRepo
	behaviours    repos.BehaviourLogRepo
	surveys       repos.WeeklySurveyRepo
	samples       repos.EmotionSampleRepo
	states        repos.AlertStateRepo
	history       repos.AlertHistoryRepo
	emotionAlerts repos.EmotionAlertRepo
	notifications repos.NotificationLogRepo
	contacts      repos.EmergencyContactRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testEnv{
		ctx:           context.Background(),
		db:            db,
		log:           log,
		metrics:       observability.NewMetrics(),
		locks:         locker.NewKeyed(),
		now:           time.Now().UTC().Truncate(time.Second),
		jobs:          &fakeEnqueuer{},
		evaluator:     alerting.NewEvaluator(alerting.DefaultThresholds()),
		users:         repos.NewUserRepo(db, log),
		moods:         repos.NewMoodEntryRepo(db, log),
		behaviours:    repos.NewBehaviourLogRepo(db, log),
		surveys:       repos.NewWeeklySurveyRepo(db, log),
		samples:       repos.NewEmotionSampleRepo(db, log),
		states:        repos.NewAlertStateRepo(db, log),
		history:       repos.NewAlertHistoryRepo(db, log),
		emotionAlerts: repos.NewEmotionAlertRepo(db, log),
		notifications: repos.NewNotificationLogRepo(db, log),
		contacts:      repos.NewEmergencyContactRepo(db, log),
	}
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) alertService() *alertService {
	svc := NewAlertService(e.db, e.log, e.evaluator, e.locks, e.metrics,
		e.moods, e.behaviours, e.surveys, e.states, e.history, e.emotionAlerts).(*alertService)
	svc.now = e.clock
	return svc
}

func (e *testEnv) emotionAlertService() *emotionAlertService {
	svc := NewEmotionAlertService(e.log, e.evaluator, e.locks, e.metrics, e.jobs, e.samples, e.emotionAlerts).(*emotionAlertService)
	svc.now = e.clock
	return svc
}

func (e *testEnv) notificationService(sender SMSSender, from string) *notificationService {
	svc := NewNotificationService(e.log, e.metrics, e.contacts, e.notifications, e.emotionAlerts, sender, from, "MoodWatch").(*notificationService)
	svc.now = e.clock
	return svc
}
