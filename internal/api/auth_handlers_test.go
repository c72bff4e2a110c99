package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"username": "reader",
		"password": "SecurePassword123!",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var body AuthResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))

	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, "reader@example.com", body.User.Email)
	assert.Equal(t, "reader", body.User.Role, "role defaults to reader")
	assert.InDelta(t, 1.0, body.User.Settings.MoodSensitivity, 0.001)
	assert.Equal(t, 70, body.User.Settings.MusicVolume)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerUser(t, "dup@example.com", "reader")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "dup@example.com",
		"username": "other",
		"password": "SecurePassword123!",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "short password",
			body: map[string]any{
				"email":    "a@example.com",
				"username": "a",
				"password": "short",
			},
		},
		{
			name: "bad email",
			body: map[string]any{
				"email":    "not-an-email",
				"username": "a",
				"password": "SecurePassword123!",
			},
		},
		{
			name: "admin role rejected",
			body: map[string]any{
				"email":    "a@example.com",
				"username": "a",
				"password": "SecurePassword123!",
				"role":     "admin",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/register", tt.body)
			assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, resp.Code)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerUser(t, "login@example.com", "reader")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "SecurePassword123!",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var body AuthResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "login@example.com", body.User.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerUser(t, "victim@example.com", "reader")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "victim@example.com", password: "WrongPassword123!"},
		{name: "unknown email", email: "nobody@example.com", password: "SecurePassword123!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/login", map[string]any{
				"email":    tt.email,
				"password": tt.password,
			})
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.registerUser(t, "me@example.com", "creator")

	resp := ts.api.Get("/api/v1/users/me", bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code)

	var body UserResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.Equal(t, userID, body.ID)
	assert.Equal(t, "creator", body.Role)
}

func TestGetCurrentUser_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
