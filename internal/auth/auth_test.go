package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars!"

func TestIssueAndValidateToken(t *testing.T) {
	a := New(testSecret)

	token, err := a.IssueToken("user-123")
	require.NoError(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	a := New(testSecret)
	other := New("another-secret-that-is-32-chars-long!!")

	token, err := a.IssueToken("user-123")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	a := NewWithTTL(testSecret, -time.Minute)

	token, err := a.IssueToken("user-123")
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	a := New(testSecret)

	_, err := a.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	a := New(testSecret)

	var seenUserID string
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = r.Header.Get("X-User-ID")
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wallet", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := a.IssueToken("user-9")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-9", seenUserID)
	})
}

func TestHashAndCheckPin(t *testing.T) {
	hash, err := HashPin("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.True(t, CheckPin("1234", hash))
	assert.False(t, CheckPin("4321", hash))
	assert.False(t, CheckPin("1234", "not-a-hash"))
}
