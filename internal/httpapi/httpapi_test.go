package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/reetreev/dashboard/internal/authstate"
	"github.com/reetreev/dashboard/internal/bridge"
	"github.com/reetreev/dashboard/internal/config"
	"github.com/reetreev/dashboard/internal/events"
	"github.com/reetreev/dashboard/internal/repository"
	"github.com/reetreev/dashboard/internal/service"
	"github.com/reetreev/dashboard/internal/storage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)
	require.NoError(t, storage.RunMigrations(context.Background(), db))

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := repository.NewUserRepository(db)
	identities := repository.NewIdentityRepository(db)

	userService := service.NewUserService(users, identities)
	authService := service.NewAuthService(
		identities,
		repository.NewUserSessionRepository(db),
		repository.NewPasswordResetRepository(db),
		userService,
		cfg.Security,
	)
	profileService := service.NewProfileService(repository.NewAIProfileRepository(db), users, cfg.Security.EncryptionKey)
	sessionService := service.NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewTranscriptRepository(db),
		repository.NewMessageRepository(db),
		repository.NewSummaryRepository(db),
	)
	presetService := service.NewPresetService(repository.NewPromptPresetRepository(db))

	emitter := events.NewEmitter()
	observer := authstate.NewObserver(userService, emitter, authstate.NewMemoryMirror())
	hub := bridge.NewHub(logger)

	return NewRouter(cfg, Services{
		Auth:     authService,
		Users:    userService,
		Profiles: profileService,
		Sessions: sessionService,
		Presets:  presetService,
		Observer: observer,
		Hub:      hub,
	}, logger)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func signUp(t *testing.T, handler http.Handler) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":           "alice@example.com",
		"password":        "MySecurePass1",
		"confirmPassword": "MySecurePass1",
		"displayName":     "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)["token"].(string)
}

func TestSignupLoginSession(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alice", user["display_name"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect password.", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "MySecurePass1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No account found with this email address.", decodeBody(t, rec)["error"])
}

func TestSignupFieldValidation(t *testing.T) {
	handler := newTestServer(t)

	// Malformed fields come back as a name-to-message map, before the
	// auth service is ever consulted.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":           "not-an-email",
		"password":        "123456",
		"confirmPassword": "different",
		"displayName":     "A",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["isValid"])
	fieldErrors := body["errors"].(map[string]any)
	assert.Equal(t, "Please enter a valid email address", fieldErrors["email"])
	assert.Equal(t, "Password should include a mix of letters, numbers, or special characters", fieldErrors["password"])
	assert.Equal(t, "Passwords do not match", fieldErrors["confirmPassword"])
	assert.Equal(t, "Display name must be at least 2 characters", fieldErrors["displayName"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":       "alice@example.com",
		"password":    "MySecurePass1",
		"displayName": "Alice",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fieldErrors = decodeBody(t, rec)["errors"].(map[string]any)
	assert.Equal(t, "Please confirm your password", fieldErrors["confirmPassword"])
}

func TestLoginFieldValidation(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "bad-address",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fieldErrors := decodeBody(t, rec)["errors"].(map[string]any)
	assert.Equal(t, "Please enter a valid email address", fieldErrors["email"])
	assert.Equal(t, "Password is required", fieldErrors["password"])
}

func TestResetRequestFieldValidation(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/reset", "", map[string]string{
		"email": "  ",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fieldErrors := decodeBody(t, rec)["errors"].(map[string]any)
	assert.Equal(t, "Email is required", fieldErrors["email"])
}

func TestAuthCallbackContract(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	// Non-POST methods are refused with the canonical body.
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/auth/callback", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed. Use POST.", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/callback", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID token is required and must be a string.", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/callback", "", map[string]any{"token": 42})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/callback", "", map[string]any{"token": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID token cannot be empty.", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/callback", "", map[string]any{"token": "not-a-real-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired ID token.", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/callback", "", map[string]any{"token": token})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["customToken"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "Alice", user["name"])

	// CORS stays open for the desktop app's embedded views.
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRuntimeConfig(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/runtime-config.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["API_URL"])
}

func TestDownloadPlatformDetection(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "mac", body["platform"])
	assert.Equal(t, "Reetreev.dmg", body["filename"])

	// Unrecognized agents get the Windows build.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/download", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	body = decodeBody(t, rec)
	assert.Equal(t, "Reetreev-Setup.exe", body["filename"])
}

func TestProfilesRequireAuth(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/profiles/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileLifecycle(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/profiles/", token, map[string]any{
		"name":      "work",
		"provider":  "anthropic",
		"model":     "claude-sonnet-4",
		"apiKey":    "sk-ant-secret",
		"isDefault": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	profileID := created["id"].(string)
	assert.Equal(t, "sk-ant-secret", created["apiKey"])

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/default", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	defaultProfile := decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, profileID, defaultProfile["id"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/profiles/", token, map[string]any{
		"name":     "personal",
		"provider": "openai",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	secondID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, handler, http.MethodPut, "/api/v1/profiles/"+secondID+"/default", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/default", token, nil)
	defaultProfile = decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, secondID, defaultProfile["id"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/profiles/"+profileID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/"+profileID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/profiles/", token, map[string]any{
		"name":     "weird",
		"provider": "mystery",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionEndpoints(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sessions/", token, map[string]string{"title": "Weekly sync"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/sessions/"+sessionID+"/transcripts", token, map[string]any{
		"text":    "hello everyone",
		"speaker": "alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/sessions/"+sessionID+"/messages", token, map[string]any{
		"role":    "user",
		"content": "summarize this",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPut, "/api/v1/sessions/"+sessionID+"/summary", token, map[string]any{
		"tldr": "quick sync",
		"text": "the team synced quickly",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/sessions/"+sessionID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decodeBody(t, rec)
	assert.Len(t, details["transcripts"], 1)
	assert.Len(t, details["ai_messages"], 1)
	require.NotNil(t, details["summary"])
	assert.Equal(t, "quick sync", details["summary"].(map[string]any)["tldr"])

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/sessions/search?q=weekly", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Len(t, matches, 1)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/sessions/missing-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/sessions/"+sessionID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBatchEndpoint(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sessions/", token, map[string]string{"title": "one"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/presets/", token, map[string]string{
		"title":  "summarizer",
		"prompt": "Summarize the call.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/batch", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "profile")
	assert.Len(t, body["sessions"], 1)
	assert.Len(t, body["presets"], 1)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/batch?include=sessions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.NotContains(t, body, "profile")
	assert.Contains(t, body, "sessions")
}

func TestDesktopHandoffDeepLink(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	// No companion socket is connected, so the hand-off falls back to a
	// deep link.
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/desktop/handoff", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "deeplink", body["delivery"])
	assert.Contains(t, body["url"], "reetreev://auth-success?")
}

func TestUserProfileEndpoints(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/user/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", decodeBody(t, rec)["display_name"])

	rec = doJSON(t, handler, http.MethodPut, "/api/v1/user/profile", token, map[string]string{"displayName": "Alice B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice B", decodeBody(t, rec)["display_name"])

	rec = doJSON(t, handler, http.MethodPut, "/api/v1/user/profile", token, map[string]string{"displayName": "A"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fieldErrors := decodeBody(t, rec)["errors"].(map[string]any)
	assert.Equal(t, "Display name must be at least 2 characters", fieldErrors["displayName"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/user/profile", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The account and its sessions are gone.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAPIKeyEndpoints(t *testing.T) {
	handler := newTestServer(t)
	token := signUp(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/user/apikey", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["hasApiKey"])

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/user/apikey", token, map[string]string{"apiKey": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/user/apikey", token, map[string]string{"apiKey": "sk-ant-account"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Status reports presence only; the key itself is never echoed back.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/user/apikey", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["hasApiKey"])
	assert.NotContains(t, rec.Body.String(), "sk-ant-account")

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/user/apikey", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/user/apikey", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["hasApiKey"])
}
