package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"procflow/internal/adapters/http/middleware"
	"procflow/internal/adapters/persistence/store"
	"procflow/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Session: config.SessionConfig{TTLHours: 8},
	}
	config.AppConfig = cfg

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, st, config.DefaultDataset(), cfg)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := payload["data"].(map[string]any)
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, payload := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", payload["status"])
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, app, "admin", "123456")

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user := payload["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "admin", user["username"])
	assert.NotContains(t, user, "password")
}

func TestProcessesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/processes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/processes", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProcessVisibilityOverHTTP(t *testing.T) {
	app := newTestApp(t)

	hrToken := login(t, app, "hr", "123456")

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/processes", hrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := payload["data"].(map[string]any)
	processes := data["processes"].([]any)
	require.Len(t, processes, 1, "hr sees only the onboarding process")
	first := processes[0].(map[string]any)
	assert.Equal(t, "New Employee Onboarding", first["title"])
}

func TestRoleGuardsOverHTTP(t *testing.T) {
	app := newTestApp(t)

	empToken := login(t, app, "employee", "123456")

	// employees cannot list users or create processes
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/users", empToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/processes", empToken, fiber.Map{
		"title": "X", "category": "hr", "visibleTo": []string{"admin"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUserManagementOverHTTP(t *testing.T) {
	app := newTestApp(t)

	token := login(t, app, "admin", "123456")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/v1/users", token, fiber.Map{
		"username": "carol", "role": "finance",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := payload["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "carol", created["username"])

	// duplicate username conflicts
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/users", token, fiber.Map{
		"username": "Carol", "role": "finance",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// deleting the signed-in account is forbidden
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/users/1", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
