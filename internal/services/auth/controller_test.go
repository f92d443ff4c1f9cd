package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	mux := http.NewServeMux()
	NewController(env.uc, nil).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, env
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHTTP_RegisterLogin(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Contains(t, body, "accessToken")
	require.Contains(t, body, "refreshToken")
	require.Contains(t, body, "user")
	// The password hash must never appear in a response.
	require.NotContains(t, string(body["user"]), "password")

	resp, _ = postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_Register_Validation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"name": "Alice", "email": "not-an-email", "password": "password-1"}},
		{"short name", map[string]string{"name": "A", "email": "a@example.com", "password": "password-1"}},
		{"bad role", map[string]string{"name": "Alice", "email": "a@example.com", "password": "password-1", "role": "root"}},
		{"weak password", map[string]string{"name": "Alice", "email": "a@example.com", "password": "short"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := postJSON(t, srv.URL+"/auth/register", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHTTP_Register_Conflict(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "password-1"}

	resp, _ := postJSON(t, srv.URL+"/auth/register", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/auth/register", req)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHTTP_Refresh(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	_, body := postJSON(t, srv.URL+"/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "password-1",
	})
	var refresh string
	require.NoError(t, json.Unmarshal(body["refreshToken"], &refresh))

	resp, _ := postJSON(t, srv.URL+"/auth/refresh", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/auth/refresh", map[string]string{"refreshToken": "garbage"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_PasswordResetRequest_SameBodyEitherWay(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	_, _ = postJSON(t, srv.URL+"/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "password-1",
	})

	respKnown, bodyKnown := postJSON(t, srv.URL+"/auth/password-reset-request",
		map[string]string{"email": "alice@example.com"})
	respUnknown, bodyUnknown := postJSON(t, srv.URL+"/auth/password-reset-request",
		map[string]string{"email": "ghost@example.com"})

	require.Equal(t, http.StatusOK, respKnown.StatusCode)
	require.Equal(t, http.StatusOK, respUnknown.StatusCode)
	require.Equal(t, bodyKnown["message"], bodyUnknown["message"])
}

func TestHTTP_PasswordReset(t *testing.T) {
	t.Parallel()

	srv, env := newTestServer(t)

	_, body := postJSON(t, srv.URL+"/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "old-password",
	})
	var sess struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body["user"], &sess.User))

	token, err := env.resets.Create(sess.User.ID)
	require.NoError(t, err)

	resp, _ := postJSON(t, srv.URL+"/auth/password-reset",
		map[string]string{"token": token, "newPassword": "new-password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Redeeming the same token again fails.
	resp, _ = postJSON(t, srv.URL+"/auth/password-reset",
		map[string]string{"token": token, "newPassword": "another-pass"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/auth/login",
		map[string]string{"email": "alice@example.com", "password": "new-password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_MalformedBody(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		bytes.NewReader([]byte(`{"email": `)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
