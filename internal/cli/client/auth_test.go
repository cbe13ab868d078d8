package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SendsOAuthPasswordGrant(t *testing.T) {
	var form url.Values
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"access_token":"tok1","token_type":"bearer","admin_id":"A1"}`))
	}))
	defer server.Close()

	c := New(server.URL, newTestStore(t), WithClientCredentials("console", "s3cret"))
	_, err := c.Login(context.Background(), "admin@x.com", "correct")
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "password", form.Get("grant_type"))
	assert.Equal(t, "admin@x.com", form.Get("username"))
	assert.Equal(t, "correct", form.Get("password"))
	assert.True(t, form.Has("scope"))
	assert.Equal(t, "", form.Get("scope"))
	assert.Equal(t, "console", form.Get("client_id"))
	assert.Equal(t, "s3cret", form.Get("client_secret"))
}

func TestLogin_OmitsHeldBearerToken(t *testing.T) {
	var authHeader []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Values("Authorization")
		w.Write([]byte(`{"access_token":"tok2","token_type":"bearer","admin_id":"A1"}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	require.NoError(t, store.Save("stale", "A1"))

	c := New(server.URL, store)
	require.Equal(t, "stale", c.Token())

	_, err := c.Login(context.Background(), "admin@x.com", "correct")
	require.NoError(t, err)
	assert.Empty(t, authHeader)
	assert.Equal(t, "tok2", c.Token())
}

func TestLogin_StoresCredential(t *testing.T) {
	server := stubBackend(t)
	store := newTestStore(t)
	c := New(server.URL, store)

	resp, err := c.Login(context.Background(), "admin@x.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "tok1", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "A1", resp.AdminID)

	assert.True(t, c.IsAuthenticated())
	token, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "tok1", token)
	adminID, ok := store.AdminID()
	require.True(t, ok)
	assert.Equal(t, "A1", adminID)
}

func TestLogin_BadCredentialsStoresNothing(t *testing.T) {
	server := stubBackend(t)
	store := newTestStore(t)
	c := New(server.URL, store)

	_, err := c.Login(context.Background(), "admin@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, IsAuthFailure(err))
	assert.True(t, IsUnauthorized(err))

	assert.False(t, c.IsAuthenticated())
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestLogin_BadCredentialsKeepsPriorToken(t *testing.T) {
	server := stubBackend(t)
	store := newTestStore(t)
	require.NoError(t, store.Save("previous", "A0"))
	c := New(server.URL, store)

	_, err := c.Login(context.Background(), "admin@x.com", "wrong")
	require.Error(t, err)

	token, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "previous", token)
	assert.Equal(t, "previous", c.Token())
}

func TestLogin_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	c := New(server.URL, store)
	_, err := c.Login(context.Background(), "admin@x.com", "correct")
	assert.ErrorIs(t, err, ErrMissingAccessToken)
	assert.False(t, c.IsAuthenticated())
}

func TestLogout_ClearsStoreAndIsIdempotent(t *testing.T) {
	server := stubBackend(t)
	store := newTestStore(t)
	c := New(server.URL, store)

	_, err := c.Login(context.Background(), "admin@x.com", "correct")
	require.NoError(t, err)

	c.Logout()
	assert.False(t, c.IsAuthenticated())
	_, ok := store.Read()
	assert.False(t, ok)

	c.Logout()
	assert.False(t, c.IsAuthenticated())
	_, ok = store.Read()
	assert.False(t, ok)
}

func TestGetProfile_UsesStoredAdminID(t *testing.T) {
	server := stubBackend(t)
	c := New(server.URL, newTestStore(t))

	_, err := c.Login(context.Background(), "admin@x.com", "correct")
	require.NoError(t, err)

	profile, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A1", profile.ID)
	assert.Equal(t, "Ada Admin", profile.Name)
	assert.Equal(t, "super_admin", profile.Role)
}

func TestGetProfile_MissingEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	store := newTestStore(t)
	require.NoError(t, store.Save("tok1", "A1"))
	c := New(server.URL, store)

	_, err := c.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrProfileUnavailable)
}

func TestGetProfile_Unauthorized(t *testing.T) {
	server := stubBackend(t)
	store := newTestStore(t)
	require.NoError(t, store.Save("garbage", "A1"))
	c := New(server.URL, store)

	_, err := c.GetProfile(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrProfileUnavailable))
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Could not validate credentials", err.Error())
}

func TestRefreshToken_ReplacesStoredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/admin/refresh-token", r.URL.Path)
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok2", "token_type": "bearer"})
	}))
	defer server.Close()

	store := newTestStore(t)
	require.NoError(t, store.Save("tok1", "A1"))
	c := New(server.URL, store)

	_, err := c.RefreshToken(context.Background())
	require.NoError(t, err)

	token, _ := store.Read()
	adminID, _ := store.AdminID()
	assert.Equal(t, "tok2", token)
	assert.Equal(t, "A1", adminID)
	assert.Equal(t, "tok2", c.Token())
}
