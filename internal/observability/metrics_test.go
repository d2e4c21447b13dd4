package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveEvaluation("mood", "watch", time.Millisecond)
	m.IncTransition("mood", "stable", "watch")
	m.IncNotification("EMERGENCY_SMS", "SENT")
	m.SetQueueDepth("default", 3)
	m.IncJob("alert.evaluate", "succeeded")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsExposeCounters(t *testing.T) {
	m := NewMetrics()
	m.IncTransition("mood", "stable", "action")
	m.IncTransition("mood", "stable", "action")
	m.SetQueueDepth("default", 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `moodwatch_alert_transitions_total{from="stable",to="action",track="mood"} 2`))
	assert.True(t, strings.Contains(body, `moodwatch_jobs_queue_depth{queue="default"} 4`))
}
