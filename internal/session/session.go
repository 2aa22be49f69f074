package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/buymove/buymove-go/internal/api"
	"github.com/buymove/buymove-go/internal/models"
	"github.com/buymove/buymove-go/internal/store"
)

// tokenKey is where the bearer token persists between runs.
const tokenKey = "bm_token"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrExpiredToken     = errors.New("token expired")
)

// Client is the authentication collaborator of the data services: it owns
// the bearer token, exposes the current user, and feeds the API client's
// Authorization header. Token issuance and verification stay on the server;
// the client only decodes claims to know who is signed in.
type Client struct {
	store store.Store

	mu           sync.Mutex
	api          *api.Client
	token        string
	user         *models.User
	initializing bool
	lastErr      error
}

// New restores the session state from the local store. Call UseAPI before
// any remote operation, then Init to resolve the restored user.
func New(st store.Store) *Client {
	c := &Client{store: st, initializing: true}
	if st != nil {
		if token, ok := st.Get(tokenKey); ok {
			c.token = token
		}
	}
	return c
}

// UseAPI attaches the API client. Kept separate from New because the API
// client itself needs this session as its token source.
func (c *Client) UseAPI(client *api.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.api = client
}

// Token returns the active bearer token, or "" for an anonymous session. It
// satisfies api.TokenSource.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Init resolves the user behind a restored token. An expired or rejected
// token clears the session instead of failing.
func (c *Client) Init(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.initializing = false
		c.mu.Unlock()
	}()

	token := c.Token()
	if token == "" {
		return
	}
	user, err := c.userFromToken(token)
	if err != nil {
		log.WithError(err).Debug("stored session token rejected")
		c.Logout()
		return
	}
	c.refreshRemoteUser(ctx, user)
}

// Initializing reports whether session restore is still in progress.
func (c *Client) Initializing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initializing
}

// User returns the signed-in user, or nil. It satisfies favorites.UserSource
// when wrapped as a func.
func (c *Client) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Err returns the failure recorded by the most recent auth call.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	client := c.apiClient()
	if client == nil {
		return nil, c.fail(ErrNotAuthenticated)
	}

	token, err := client.Login(ctx, email, password)
	if err != nil {
		return nil, c.fail(err)
	}

	user, err := c.userFromToken(token.AccessToken)
	if err != nil {
		return nil, c.fail(err)
	}
	if user.Email == "" {
		user.Email = email
	}

	c.mu.Lock()
	c.token = token.AccessToken
	c.user = user
	c.lastErr = nil
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Set(tokenKey, token.AccessToken); err != nil {
			log.WithError(err).Warn("could not persist session token")
		}
	}

	c.refreshRemoteUser(ctx, user)
	return c.User(), nil
}

// Logout clears the session locally. The server keeps no session state.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.lastErr = nil
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Delete(tokenKey)
	}
}

// Register creates an account. The caller still has to log in afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	client := c.apiClient()
	if client == nil {
		return nil, c.fail(ErrNotAuthenticated)
	}

	raw, err := client.Register(ctx, map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
	return userFromRaw(raw), nil
}

// RequestPasswordReset asks the server to start a reset flow for email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	client := c.apiClient()
	if client == nil {
		return c.fail(ErrNotAuthenticated)
	}
	if err := client.RequestPasswordReset(ctx, email); err != nil {
		return c.fail(err)
	}
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// ResetPassword redeems the emailed token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	client := c.apiClient()
	if client == nil {
		return c.fail(ErrNotAuthenticated)
	}
	if err := client.ResetPassword(ctx, token, password); err != nil {
		return c.fail(err)
	}
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// userFromToken decodes the token's claims without verifying the signature;
// verification is the server's job and the secret never reaches the client.
func (c *Client) userFromToken(raw string) (*models.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, err
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrNotAuthenticated
	}

	user := &models.User{ID: sub}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	return user, nil
}

// refreshRemoteUser fills in profile fields from /auth/me. Failures keep the
// claims-derived user; the session stays valid.
func (c *Client) refreshRemoteUser(ctx context.Context, fallback *models.User) {
	client := c.apiClient()
	if client == nil {
		c.setUser(fallback)
		return
	}
	raw, err := client.CurrentUser(ctx)
	if err != nil {
		log.WithError(err).Debug("could not refresh account details")
		c.setUser(fallback)
		return
	}
	remote := userFromRaw(raw)
	if remote.ID == "" {
		remote.ID = fallback.ID
	}
	c.setUser(remote)
}

func (c *Client) setUser(user *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
}

func (c *Client) apiClient() *api.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.api
}

func (c *Client) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	return err
}

func userFromRaw(raw map[string]any) *models.User {
	user := &models.User{}
	if id, ok := raw["id"].(string); ok {
		user.ID = id
	} else if id, ok := raw["_id"].(string); ok {
		user.ID = id
	}
	if name, ok := raw["name"].(string); ok {
		user.Name = name
	}
	if email, ok := raw["email"].(string); ok {
		user.Email = email
	}
	return user
}
