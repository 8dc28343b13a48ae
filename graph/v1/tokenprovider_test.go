package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, calls *atomic.Int32, token string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + token + `","expires_in":3600}`))
	}))
}

func TestTokenIsCachedUntilCloseToExpiry(t *testing.T) {
	var calls atomic.Int32
	server := newTokenServer(t, &calls, "tok-1")
	defer server.Close()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := NewClientCredentialsTokenProvider("tenant-1", "client-1", "secret")
	p.LoginURL = server.URL
	p.now = func() time.Time { return now }

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	tok, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int32(1), calls.Load())

	// one minute before upstream expiry the cache is considered stale
	now = now.Add(3541 * time.Second)
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenFailureWrapsErrAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad client secret", http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewClientCredentialsTokenProvider("tenant-1", "client-1", "wrong")
	p.LoginURL = server.URL

	_, err := p.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
}
