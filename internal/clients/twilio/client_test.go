package twilio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(logger.NewNop(), Config{AccountSID: "AC1"})
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = New(logger.NewNop(), Config{AccountSID: "AC1", APIKey: "SK1"})
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = New(logger.NewNop(), Config{AccountSID: "AC1", AuthToken: "tok"})
	assert.NoError(t, err)
}

func TestSendSMSPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC1/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC1", user)
		assert.Equal(t, "tok", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001111", r.PostForm.Get("To"))
		assert.Equal(t, "+15559990000", r.PostForm.Get("From"))
		assert.Contains(t, r.PostForm.Get("Body"), "emotional distress")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	c, err := New(logger.NewNop(), Config{AccountSID: "AC1", AuthToken: "tok", From: "+15559990000", BaseURL: srv.URL})
	require.NoError(t, err)

	msg, err := c.SendSMS(context.Background(), "+15550001111", "We noticed signs of emotional distress.")
	require.NoError(t, err)
	assert.Equal(t, "SM123", msg.SID)
}

func TestSendSMSSurfacesProviderMessage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number.","status":400}`))
	}))
	defer srv.Close()

	c, err := New(logger.NewNop(), Config{AccountSID: "AC1", AuthToken: "tok", From: "+15559990000", BaseURL: srv.URL, MaxRetries: 2})
	require.NoError(t, err)

	_, err = c.SendSMS(context.Background(), "123", "hello")
	require.Error(t, err)
	assert.Equal(t, "The 'To' number is not a valid phone number.", err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendSMSRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM9"}`))
	}))
	defer srv.Close()

	c, err := New(logger.NewNop(), Config{AccountSID: "AC1", AuthToken: "tok", From: "+1", BaseURL: srv.URL, MaxRetries: 1})
	require.NoError(t, err)

	msg, err := c.SendSMS(context.Background(), "+15550001111", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM9", msg.SID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendSMSRequiresSender(t *testing.T) {
	c, err := New(logger.NewNop(), Config{AccountSID: "AC1", AuthToken: "tok"})
	require.NoError(t, err)
	_, err = c.SendSMS(context.Background(), "+15550001111", "hello")
	assert.Error(t, err)
}
