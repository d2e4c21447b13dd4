package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/platform/ctxutil"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext(), RequestLogger(logger.NewNop()))
	var seen *ctxutil.TraceData
	r.GET("/healthcheck", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("request id not echoed: %q", got)
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("trace id header missing")
	}
	if seen == nil || seen.RequestID != "req-123" {
		t.Fatalf("trace data not attached: %+v", seen)
	}
}

func TestAttachTraceContextReplacesUnsafeIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/alert/:userId", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/alert/x", nil)
	req.Header.Set("X-Request-Id", "bad id\nwith newline")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-Id")
	if got == "" || got == "bad id\nwith newline" {
		t.Fatalf("unsafe request id kept: %q", got)
	}
}

func TestSanitizeCorrelationID(t *testing.T) {
	cases := map[string]string{
		"  abc-123_x.y ": "abc-123_x.y",
		"has space":      "",
		"":               "",
		"ünicode":        "",
	}
	for in, want := range cases {
		if got := sanitizeCorrelationID(in); got != want {
			t.Fatalf("sanitizeCorrelationID(%q) = %q, want %q", in, got, want)
		}
	}
}
