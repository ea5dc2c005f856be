package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatefightclub-backend/internal/auth"
	"debatefightclub-backend/internal/models"
)

const testSecret = "middleware-test-secret"

func protectedEcho(t *testing.T, wantUserID uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		require.True(t, ok, "user ID missing from context")
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestJwtAuthMiddlewareValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewAccessToken(userID, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	handler := JwtAuthMiddleware(testSecret)(protectedEcho(t, userID))

	req := httptest.NewRequest(http.MethodGet, "/v1/debates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJwtAuthMiddlewareMissingHeader(t *testing.T) {
	handler := JwtAuthMiddleware(testSecret)(protectedEcho(t, uuid.Nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/debates", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJwtAuthMiddlewareMalformedHeader(t *testing.T) {
	handler := JwtAuthMiddleware(testSecret)(protectedEcho(t, uuid.Nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/debates", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJwtAuthMiddlewareExpiredToken(t *testing.T) {
	token, err := auth.NewAccessToken(uuid.New(), models.RoleUser, testSecret, -time.Minute)
	require.NoError(t, err)

	handler := JwtAuthMiddleware(testSecret)(protectedEcho(t, uuid.Nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/debates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJwtAuthMiddlewareWrongSecret(t *testing.T) {
	token, err := auth.NewAccessToken(uuid.New(), models.RoleUser, "other-secret", time.Hour)
	require.NoError(t, err)

	handler := JwtAuthMiddleware(testSecret)(protectedEcho(t, uuid.Nil))

	req := httptest.NewRequest(http.MethodGet, "/v1/debates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
