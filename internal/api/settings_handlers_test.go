package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_Defaults(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "reader@example.com", "reader")

	resp := ts.api.Get("/api/v1/users/me/settings", bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code)

	var body UserSettingsResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.InDelta(t, 1.0, body.MoodSensitivity, 0.001)
	assert.Equal(t, 70, body.MusicVolume)
	assert.True(t, body.DynamicBackground)
	assert.Equal(t, "light", body.Theme)
}

func TestUpdateSettings_Partial(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "reader@example.com", "reader")

	resp := ts.api.Patch("/api/v1/users/me/settings", bearer(token), map[string]any{
		"music_volume": 40,
		"theme":        "dark",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body UserSettingsResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.Equal(t, 40, body.MusicVolume)
	assert.Equal(t, "dark", body.Theme)
	assert.InDelta(t, 1.0, body.MoodSensitivity, 0.001, "untouched fields keep their value")
}

func TestUpdateSettings_SensitivityClamped(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "reader@example.com", "reader")

	resp := ts.api.Patch("/api/v1/users/me/settings", bearer(token), map[string]any{
		"mood_sensitivity": 9.0,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body UserSettingsResponse
	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.InDelta(t, 2.0, body.MoodSensitivity, 0.001, "clamped to the upper bound, not rejected")

	resp = ts.api.Patch("/api/v1/users/me/settings", bearer(token), map[string]any{
		"mood_sensitivity": -3.0,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, unmarshalBody(resp.Body.Bytes(), &body))
	assert.InDelta(t, 0.1, body.MoodSensitivity, 0.001)
}

func TestUpdateSettings_BadValues(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerUser(t, "reader@example.com", "reader")

	resp := ts.api.Patch("/api/v1/users/me/settings", bearer(token), map[string]any{
		"theme": "neon",
	})
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, resp.Code)

	resp = ts.api.Patch("/api/v1/users/me/settings", bearer(token), map[string]any{
		"music_volume": 150,
	})
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, resp.Code)
}
