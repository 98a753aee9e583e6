package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyDisabledWithoutSecret(t *testing.T) {
	v := New("", "http://example.invalid/verify", time.Second, nil)
	assert.False(t, v.Enabled())
	assert.True(t, v.Verify(context.Background(), "anything", ""))
}

func TestVerifyAcceptsOnProviderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "shh", r.PostFormValue("secret"))
		assert.Equal(t, "tok-1", r.PostFormValue("response"))
		assert.Equal(t, "203.0.113.7", r.PostFormValue("remoteip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	v := New("shh", srv.URL, time.Second, nil)
	assert.True(t, v.Verify(context.Background(), "tok-1", "203.0.113.7"))
}

func TestVerifyRejectsOnExplicitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := New("shh", srv.URL, time.Second, nil)
	assert.False(t, v.Verify(context.Background(), "bad-token", ""))
}

func TestVerifyAllowsWhenProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	v := New("shh", srv.URL, 200*time.Millisecond, nil)
	assert.True(t, v.Verify(context.Background(), "tok", ""))
}

func TestVerifyAllowsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := New("shh", srv.URL, time.Second, nil)
	assert.True(t, v.Verify(context.Background(), "tok", ""))
}
