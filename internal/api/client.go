package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/buymove/buymove-go/internal/models"
)

// TokenSource supplies the current bearer token, or "" when the session is
// anonymous. The session client provides one; tests can use a literal.
type TokenSource func() string

// Client talks to the buyMove REST API. It performs no retries and no
// caching; the data services layer decides what to do with the results.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		token:   token,
	}
}

// RawPage is a page of not-yet-normalized listing records. Total is nil when
// the server omitted it.
type RawPage struct {
	Items []map[string]any `json:"items"`
	Total *int             `json:"total"`
}

// FavoriteEntry is the server's favorite association shape.
type FavoriteEntry struct {
	ID      string         `json:"id"`
	Vehicle map[string]any `json:"vehicle"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ListVehicles queries the public catalog. Numeric filters are sent only
// when positive and finite.
func (c *Client) ListVehicles(ctx context.Context, params models.FilterParams) (*RawPage, error) {
	params = params.Normalized()
	query := url.Values{}
	setIfPresent(query, "q", params.Q)
	setIfPresent(query, "brand", params.Brand)
	setIfPresent(query, "color", params.Color)
	setIfPresent(query, "location", params.Location)
	if params.Doors > 0 {
		query.Set("doors", strconv.Itoa(params.Doors))
	}
	setPositiveNumber(query, "min_price", params.MinPrice)
	setPositiveNumber(query, "max_price", params.MaxPrice)
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("page_size", strconv.Itoa(params.PageSize))

	var page RawPage
	if err := c.do(ctx, http.MethodGet, "/vehicles?"+query.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyVehicles queries the authenticated user's own listings.
func (c *Client) MyVehicles(ctx context.Context, page, pageSize int) (*RawPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var out RawPage
	if err := c.do(ctx, http.MethodGet, "/vehicles/me?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVehicle fetches a single listing by id.
func (c *Client) GetVehicle(ctx context.Context, id string) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, "/vehicles/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateVehicle posts a new listing.
func (c *Client) CreateVehicle(ctx context.Context, payload map[string]any) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/vehicles", payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateVehicle patches part of a listing.
func (c *Client) UpdateVehicle(ctx context.Context, id string, patch map[string]any) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPatch, "/vehicles/"+url.PathEscape(id), patch, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// DeleteVehicle removes a listing.
func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/vehicles/"+url.PathEscape(id), nil, nil)
}

// Recommendations fetches listings priced close to the given one.
func (c *Client) Recommendations(ctx context.Context, id string) ([]map[string]any, error) {
	var raws []map[string]any
	if err := c.do(ctx, http.MethodGet, "/vehicles/"+url.PathEscape(id)+"/recommendations", nil, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// ListFavorites fetches the user's favorite associations.
func (c *Client) ListFavorites(ctx context.Context) ([]FavoriteEntry, error) {
	var entries []FavoriteEntry
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddFavorite creates a favorite association for the vehicle.
func (c *Client) AddFavorite(ctx context.Context, vehicleID string) (*FavoriteEntry, error) {
	var entry FavoriteEntry
	body := map[string]any{"vehicle_id": vehicleID}
	if err := c.do(ctx, http.MethodPost, "/favorites", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveFavorite deletes the favorite association for the vehicle.
func (c *Client) RemoveFavorite(ctx context.Context, vehicleID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(vehicleID), nil, nil)
}

// Login exchanges credentials for a bearer token. The endpoint speaks
// OAuth2 password-flow form encoding.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token Token
	if err := c.send(req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Register creates an account and returns the server's public user record.
func (c *Client) Register(ctx context.Context, payload map[string]any) (map[string]any, error) {
	var user map[string]any
	if err := c.do(ctx, http.MethodPost, "/auth/register", payload, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// CurrentUser fetches the account behind the active token.
func (c *Client) CurrentUser(ctx context.Context) (map[string]any, error) {
	var user map[string]any
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset asks the server to mail a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/password/forgot", map[string]any{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]any{"token": token, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/password/reset", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func setIfPresent(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func setPositiveNumber(query url.Values, key string, value float64) {
	if value > 0 && !math.IsInf(value, 0) && !math.IsNaN(value) {
		query.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
	}
}
