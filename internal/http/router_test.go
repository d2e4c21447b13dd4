package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/moodwatch/moodwatch-backend/internal/http/handlers"
	httpMW "github.com/moodwatch/moodwatch-backend/internal/http/middleware"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

func TestRouterServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := observability.NewMetrics()
	r := NewRouter(RouterConfig{
		Log:           logger.NewNop(),
		Metrics:       metrics,
		HealthHandler: httpH.NewHealthHandler(nil),
		UserHandler:   httpH.NewUserHandler(nil),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: got=%d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad user body: got=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: got=%d", rec.Code)
	}
	scrape := rec.Body.String()
	if !strings.Contains(scrape, `moodwatch_http_requests_total{method="POST",route="/api/users",status="400"} 1`) {
		t.Fatalf("api request counter missing from scrape:\n%s", scrape)
	}
	if strings.Contains(scrape, `route="/healthcheck"`) {
		t.Fatalf("healthcheck should not be metered:\n%s", scrape)
	}
}

func TestRouterGuardsAPIWhenAuthEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	auth := services.NewAuthService(log, "s3cret")
	r := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, auth),
		UserHandler:    httpH.NewUserHandler(nil),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/MEDANY00000", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got=%d", rec.Code)
	}

	token, err := auth.IssueToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bind failure past auth, got=%d", rec.Code)
	}
}
