package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wellspace/modules/auth"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func postJSON(t *testing.T, h http.Handler, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	router := auth.Router(svc)

	rec, env := postJSON(t, router, "/register",
		`{"name":"Maya","email":"maya@example.com","password":"correct horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)

	var registered auth.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	require.NotEmpty(t, registered.Token)
	assert.NotContains(t, string(env.Data), "password")

	rec, env = postJSON(t, router, "/login",
		`{"email":"maya@example.com","password":"correct horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", env.Message)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer "+registered.Token)
	mrec := httptest.NewRecorder()
	router.ServeHTTP(mrec, r)
	require.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "maya@example.com")
}

func TestRouter_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	router := auth.Router(svc)

	rec, env := postJSON(t, router, "/register", `{"name":"","email":"bad","password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestRouter_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	router := auth.Router(svc)

	body := `{"name":"Maya","email":"maya@example.com","password":"correct horse"}`
	rec, _ := postJSON(t, router, "/register", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := postJSON(t, router, "/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", env.Message)
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	router := auth.Router(svc)

	rec, env := postJSON(t, router, "/login", `{"email":"nobody@example.com","password":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestRouter_MeRequiresToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	router := auth.Router(svc)

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "Bearer not.a.token",
		"scheme":  "Basic abc",
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, r)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}
