package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/deliverydesk/deliverydesk/internal/cli/auth"
)

func newTestStore(t *testing.T) auth.TokenStore {
	t.Helper()
	keyring.MockInit()
	return auth.NewKeyringStore("test")
}

// stubBackend serves the login and profile endpoints of the admin API
func stubBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("username") != "admin@x.com" || r.PostForm.Get("password") != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok1",
			"token_type":   "bearer",
			"admin_id":     "A1",
		})
	})
	mux.HandleFunc("/admins/A1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":    "A1",
			"name":  "Ada Admin",
			"email": "admin@x.com",
			"role":  "super_admin",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRequest_SendsDefaultHeaders(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("tok1", "A1"))

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New(server.URL, store)
	data, err := c.Request(context.Background(), "/ping")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, ClientType, got.Get(ClientTypeHeader))
	assert.Equal(t, "Bearer tok1", got.Get("Authorization"))
}

func TestRequest_NoAuthorizationWithoutToken(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.Request(context.Background(), "/ping")
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestRequest_HeaderOverride(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.Request(context.Background(), "/ping", WithHeader("X-Request-ID", "abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Get("X-Request-ID"))
}

func TestRequest_EmptyBodyReturnsEmptyObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	data, err := c.Request(context.Background(), "/restaurants/1", WithMethod(http.MethodDelete))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestRequest_ErrorStatusUsesMessageField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Restaurant already exists"}`))
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.Request(context.Background(), "/restaurants", WithMethod(http.MethodPost))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Restaurant already exists", err.Error())
}

func TestRequest_ErrorStatusIsLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := New(server.URL, newTestStore(t), WithLogger(zerolog.New(&buf)))
	_, err := c.Request(context.Background(), "/admins/me")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/admins/me", entry["path"])
	assert.Equal(t, float64(http.StatusUnauthorized), entry["status"])
	assert.Equal(t, "Invalid credentials", entry["api_message"])
}

func TestRequest_ErrorStatusWithoutBodyIsLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := New(server.URL, newTestStore(t), WithLogger(zerolog.New(&buf)))
	_, err := c.Request(context.Background(), "/restaurants")
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"status":502`)
	assert.Contains(t, buf.String(), `"api_message":"HTTP 502"`)
}

func TestRequest_ErrorStatusWithHTMLBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.Request(context.Background(), "/restaurants")
	require.Error(t, err)
	assert.Equal(t, "HTTP 502", err.Error())
}

func TestRequest_InvalidJSONOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t))
	_, err := c.Request(context.Background(), "/restaurants")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestRequest_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(url, newTestStore(t))
	_, err := c.Request(context.Background(), "/restaurants")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", 401, `{"detail":"Invalid credentials"}`, "Invalid credentials"},
		{"message", 400, `{"message":"Bad input"}`, "Bad input"},
		{"detail wins over message", 400, `{"message":"second","detail":"first"}`, "first"},
		{"empty detail falls through", 400, `{"detail":"","message":"Bad input"}`, "Bad input"},
		{"non-string detail is skipped", 422, `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`, "HTTP 422"},
		{"no known fields", 500, `{"error":"boom"}`, "HTTP 500"},
		{"array body", 500, `[1,2]`, "HTTP 500"},
		{"empty body", 404, ``, "HTTP 404"},
		{"not json", 503, `Service Unavailable`, "HTTP 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.status, []byte(tt.body)))
		})
	}
}

func TestNew_LoadsStoredCredential(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("tok1", "A1"))

	c := New("http://example.invalid", store)
	assert.True(t, c.IsAuthenticated())
	assert.Equal(t, "tok1", c.Token())
	assert.Equal(t, "A1", c.AdminID())
}
