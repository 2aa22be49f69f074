package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buymove/buymove-go/internal/api"
	"github.com/buymove/buymove-go/internal/store"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return token
}

func authServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]any{"access_token": accessToken, "token_type": "bearer"})
		case "/auth/me":
			json.NewEncoder(w).Encode(map[string]any{"id": "u1", "name": "Maria", "email": "maria@example.com"})
		case "/auth/register":
			json.NewEncoder(w).Encode(map[string]any{"id": "u2", "name": "João", "email": "joao@example.com"})
		case "/auth/password/forgot", "/auth/password/reset":
			json.NewEncoder(w).Encode(map[string]any{"message": "ok"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLogin_SetsUserAndPersistsToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	server := authServer(t, token)

	st := store.NewMemoryStore()
	sess := New(st)
	sess.UseAPI(api.NewClient(server.URL, sess.Token))
	sess.Init(context.Background())
	assert.False(t, sess.Initializing())
	assert.Nil(t, sess.User())

	user, err := sess.Login(context.Background(), "maria@example.com", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Maria", user.Name)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.Equal(t, token, sess.Token())
	assert.NoError(t, sess.Err())

	persisted, ok := st.Get("bm_token")
	require.True(t, ok)
	assert.Equal(t, token, persisted)
}

func TestLogout_ClearsSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	server := authServer(t, token)

	st := store.NewMemoryStore()
	sess := New(st)
	sess.UseAPI(api.NewClient(server.URL, sess.Token))
	_, err := sess.Login(context.Background(), "maria@example.com", "s3cret")
	require.NoError(t, err)

	sess.Logout()
	assert.Empty(t, sess.Token())
	assert.Nil(t, sess.User())
	_, ok := st.Get("bm_token")
	assert.False(t, ok)
}

func TestInit_RestoresStoredSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	server := authServer(t, token)

	st := store.NewMemoryStore()
	require.NoError(t, st.Set("bm_token", token))

	sess := New(st)
	sess.UseAPI(api.NewClient(server.URL, sess.Token))
	assert.True(t, sess.Initializing())
	sess.Init(context.Background())

	assert.False(t, sess.Initializing())
	require.NotNil(t, sess.User())
	assert.Equal(t, "u1", sess.User().ID)
}

func TestInit_ExpiredTokenClearsSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})

	st := store.NewMemoryStore()
	require.NoError(t, st.Set("bm_token", token))

	sess := New(st)
	sess.Init(context.Background())

	assert.Nil(t, sess.User())
	assert.Empty(t, sess.Token())
	_, ok := st.Get("bm_token")
	assert.False(t, ok)
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "credenciais invalidas", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	sess := New(store.NewMemoryStore())
	sess.UseAPI(api.NewClient(server.URL, sess.Token))

	_, err := sess.Login(context.Background(), "maria@example.com", "wrong")
	require.Error(t, err)
	assert.Error(t, sess.Err())
	assert.Nil(t, sess.User())
	assert.Empty(t, sess.Token())
}

func TestRegister(t *testing.T) {
	server := authServer(t, "")
	sess := New(store.NewMemoryStore())
	sess.UseAPI(api.NewClient(server.URL, sess.Token))

	user, err := sess.Register(context.Background(), "João", "joao@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	// registering does not sign in
	assert.Nil(t, sess.User())
}

func TestPasswordResetFlow(t *testing.T) {
	server := authServer(t, "")
	sess := New(store.NewMemoryStore())
	sess.UseAPI(api.NewClient(server.URL, sess.Token))

	require.NoError(t, sess.RequestPasswordReset(context.Background(), "maria@example.com"))
	require.NoError(t, sess.ResetPassword(context.Background(), "reset-token", "newpass"))
	assert.NoError(t, sess.Err())
}

func TestWithoutAPI(t *testing.T) {
	sess := New(store.NewMemoryStore())
	_, err := sess.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
