package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/redis"
)

func setupLimiter(t *testing.T, limit int) *Limiter {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewLimiter(client, &Config{
		DefaultLimit:  limit,
		DefaultWindow: time.Minute,
		Enabled:       true,
	})
}

func TestLimiter_CheckDefaultLimit(t *testing.T) {
	limiter := setupLimiter(t, 2)
	ctx := context.Background()

	first, err := limiter.CheckDefaultLimit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Remaining)

	second, err := limiter.CheckDefaultLimit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Remaining)

	third, err := limiter.CheckDefaultLimit(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, third.Remaining)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(nil, &Config{DefaultLimit: 1, DefaultWindow: time.Minute, Enabled: false})

	limit, err := limiter.CheckDefaultLimit(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 1, limit.Remaining)
}

func TestHTTPMiddleware_BlocksOverLimit(t *testing.T) {
	limiter := setupLimiter(t, 2)

	handler := limiter.HTTPMiddleware(ClientIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/callbacks/palmpay", nil)
		req.RemoteAddr = "10.0.0.9:54321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestHTTPMiddleware_SeparateKeys(t *testing.T) {
	limiter := setupLimiter(t, 1)

	handler := limiter.HTTPMiddleware(ClientIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"10.0.0.1:1111", "10.0.0.2:2222"} {
		req := httptest.NewRequest(http.MethodPost, "/callbacks/palmpay", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:40000"
	assert.Equal(t, "192.168.1.5", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}
