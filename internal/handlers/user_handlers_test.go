package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"lilypad/internal/api"
)

func userRows(userID uuid.UUID, username, email, passwordHash string) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(userID, username, email, passwordHash, now, now)
}

func TestLoginSuccess(t *testing.T) {
	server, mock, cleanup := newTestServer(t)
	defer cleanup()

	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("gator@swamp.io").
		WillReturnRows(userRows(userID, "gator", "gator@swamp.io", string(hash)))

	body, _ := json.Marshal(LoginRequest{UsernameOrEmail: "gator@swamp.io", Password: "secret"})
	req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	server.Routes().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	var out api.LoginResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, userID.String(), out.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	server, mock, cleanup := newTestServer(t)
	defer cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("gator").
		WillReturnRows(userRows(uuid.New(), "gator", "gator@swamp.io", string(hash)))

	body, _ := json.Marshal(LoginRequest{UsernameOrEmail: "gator", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	server.Routes().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var out api.LoginResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.False(t, out.Success)
	assert.Empty(t, out.Token)
}

func TestRegisterReturnsToken(t *testing.T) {
	server, mock, cleanup := newTestServer(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, _ := json.Marshal(RegisterUserRequest{
		Username: "gator",
		Email:    "gator@swamp.io",
		Password: "secret",
	})
	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	server.Routes().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	var out RegisterResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token)
	if assert.NotNil(t, out.User) {
		assert.Equal(t, "gator", out.User.Username)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	server, _, cleanup := newTestServer(t)
	defer cleanup()

	body, _ := json.Marshal(RegisterUserRequest{
		Username: "gator",
		Email:    "not-an-email",
		Password: "secret",
	})
	req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	server.Routes().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	server, _, cleanup := newTestServer(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	resp := httptest.NewRecorder()

	server.Routes().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHealth(t *testing.T) {
	server, mock, cleanup := newTestServer(t)
	defer cleanup()

	mock.ExpectPing()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()

	server.Routes().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "healthy", out["status"])
}
