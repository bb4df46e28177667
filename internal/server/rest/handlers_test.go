package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swappo/authsvc/internal/logging"
	"github.com/swappo/authsvc/internal/server/auth"
	"github.com/swappo/authsvc/internal/server/repositories/sessions"
	"github.com/swappo/authsvc/internal/server/repositories/users"
	"github.com/swappo/authsvc/internal/server/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	codec := auth.NewCodec("test-access", "test-refresh", time.Minute, time.Hour)
	svc := services.NewAuthService(users.NewInMemoryRepository(), sessions.NewInMemoryRepository(), codec, logger)
	return NewServer(":0", svc, logger).routes()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTokens(t *testing.T, w *httptest.ResponseRecorder) tokenResponse {
	t.Helper()
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func registerAndLogin(t *testing.T, r *gin.Engine, email, username, password string) tokenResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    email,
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decodeTokens(t, w)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.True(t, resp.IsActive)

	// Duplicate email.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "password1",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Invalid payload.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "not-an-email",
		"username": "x",
		"password": "password1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t)
	registerAndLogin(t, r, "bob@example.com", "bob", "password1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "bob@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "password1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotation(t *testing.T) {
	r := newTestRouter(t)
	tokens := registerAndLogin(t, r, "carol@example.com", "carol", "password1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh", gin.H{
		"refresh_token": tokens.RefreshToken,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := decodeTokens(t, w)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// Replay of the consumed token.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh", gin.H{
		"refresh_token": tokens.RefreshToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	r := newTestRouter(t)
	tokens := registerAndLogin(t, r, "dave@example.com", "dave", "password1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", gin.H{
		"refresh_token": tokens.RefreshToken,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", gin.H{
		"refresh_token": tokens.RefreshToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	r := newTestRouter(t)
	tokens := registerAndLogin(t, r, "erin@example.com", "erin", "password1")

	w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tokens.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "erin@example.com", resp.Email)

	// No header, garbage token, and a refresh token where an access token
	// is required all fail the same way.
	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutAll(t *testing.T) {
	r := newTestRouter(t)
	tokens := registerAndLogin(t, r, "frank@example.com", "frank", "password1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout-all", nil, map[string]string{
		"Authorization": "Bearer " + tokens.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh", gin.H{
		"refresh_token": tokens.RefreshToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	r := newTestRouter(t)
	tokens := registerAndLogin(t, r, "grace@example.com", "grace", "password1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/change-password", gin.H{
		"old_password": "password1",
		"new_password": "password2",
	}, map[string]string{
		"Authorization": "Bearer " + tokens.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Old refresh sessions are revoked.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/refresh", gin.H{
		"refresh_token": tokens.RefreshToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "grace@example.com",
		"password": "password2",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
