package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/moodwatch/moodwatch-backend/internal/alerting"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/locker"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type recordingQueue struct {
	mu    sync.Mutex
	types []string
}

func (q *recordingQueue) Enqueue(_ context.Context, jobType string, _ uuid.UUID, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.types = append(q.types, jobType)
	return nil
}

func (q *recordingQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.types)
}

type apiEnv struct {
	t      *testing.T
	engine *gin.Engine
	queue  *recordingQueue
	users  services.UserService
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	queue := &recordingQueue{}
	metrics := observability.NewMetrics()

	userRepo := repos.NewUserRepo(db, log)
	moodRepo := repos.NewMoodEntryRepo(db, log)
	behaviourRepo := repos.NewBehaviourLogRepo(db, log)
	surveyRepo := repos.NewWeeklySurveyRepo(db, log)
	sampleRepo := repos.NewEmotionSampleRepo(db, log)
	stateRepo := repos.NewAlertStateRepo(db, log)
	historyRepo := repos.NewAlertHistoryRepo(db, log)
	emotionAlertRepo := repos.NewEmotionAlertRepo(db, log)
	notificationRepo := repos.NewNotificationLogRepo(db, log)
	contactRepo := repos.NewEmergencyContactRepo(db, log)

	users := services.NewUserService(db, log, userRepo)
	alertSvc := services.NewAlertService(db, log, alerting.NewEvaluator(alerting.DefaultThresholds()), locker.NewKeyed(), metrics,
		moodRepo, behaviourRepo, surveyRepo, stateRepo, historyRepo, emotionAlertRepo)
	notifications := services.NewNotificationService(log, metrics, contactRepo, notificationRepo, emotionAlertRepo, nil, "", "MoodWatch")

	userH := NewUserHandler(users)
	moodH := NewMoodHandler(users, services.NewMoodService(log, moodRepo, queue), services.NewBehaviourService(log, behaviourRepo, queue))
	surveyH := NewSurveyHandler(users, services.NewSurveyService(log, surveyRepo, alertSvc))
	emotionH := NewEmotionHandler(users, services.NewEmotionService(log, sampleRepo, queue))
	contactH := NewContactHandler(users, services.NewContactService(log, contactRepo))
	alertH := NewAlertHandler(users, alertSvc, notifications)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", userH.Create)
	api.GET("/users/:userId", userH.Get)
	api.POST("/mood", moodH.RecordMood)
	api.POST("/behaviour-logs", moodH.RecordBehaviour)
	api.POST("/weekly-survey", surveyH.Submit)
	api.GET("/weekly-survey/:userId/analytics", surveyH.Analytics)
	api.POST("/emotion", emotionH.Record)
	api.GET("/emotion/:userId/analytics", emotionH.Analytics)
	api.POST("/emergency-contact", contactH.Upsert)
	api.GET("/emergency-contact/:userId", contactH.Get)
	api.GET("/alert/:userId", alertH.Overview)
	api.GET("/alert/:userId/history", alertH.History)
	api.GET("/notifications/:userId", alertH.Notifications)

	return &apiEnv{t: t, engine: r, queue: queue, users: users}
}

func (e *apiEnv) do(method, path string, body any) (int, map[string]any) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		e.t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func (e *apiEnv) createUser(name, email string) (id, healthID string) {
	e.t.Helper()
	code, body := e.do(http.MethodPost, "/api/users", map[string]any{"name": name, "email": email})
	require.Equal(e.t, http.StatusCreated, code, body)
	u := body["user"].(map[string]any)
	return u["id"].(string), u["healthId"].(string)
}

func errorOf(body map[string]any) (message, code string) {
	e, _ := body["error"].(map[string]any)
	message, _ = e["message"].(string)
	code, _ = e["code"].(string)
	return message, code
}

func today() string { return time.Now().UTC().Format("2006-01-02") }
