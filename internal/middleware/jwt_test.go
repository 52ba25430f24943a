package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "lilypad-api", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	token, err := auth.GenerateToken(uuid.New())
	assert.NoError(t, err)

	other := NewJWTAuth("different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestRequireRejectsMissingToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	handler := auth.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRequireSetsContextUser(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token, err := auth.GenerateToken(userID)
	assert.NoError(t, err)

	var seen uuid.UUID
	handler := auth.Require(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, userID, seen)
}

func TestRequireAcceptsQueryParamToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token, err := auth.GenerateToken(userID)
	assert.NoError(t, err)

	var seen uuid.UUID
	handler := auth.Require(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, userID, seen)
}

func TestOptionalLeavesAnonymousOnBadToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	var ok bool
	handler := auth.Optional(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	handler(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, ok)
}
