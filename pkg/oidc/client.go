package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/todo/pkg/slogx"
)

var (
	// ErrAuthRejected is the single rejection kind for denied grants. The
	// provider's own error vocabulary (invalid_grant, invalid_client, ...)
	// is logged but deliberately not surfaced to callers.
	ErrAuthRejected = errors.New("oidc: grant rejected by provider")

	// ErrRevocationFailed reports a non-success status from the revoke
	// endpoint.
	ErrRevocationFailed = errors.New("oidc: revocation failed")

	// ErrUpstreamUnavailable reports that the provider could not be
	// reached within the configured timeout.
	ErrUpstreamUnavailable = errors.New("oidc: identity provider unavailable")
)

// GrantKind selects the OAuth2 grant used for token acquisition.
type GrantKind string

const (
	GrantPassword          GrantKind = "password"
	GrantRefreshToken      GrantKind = "refresh_token"
	GrantClientCredentials GrantKind = "client_credentials"
)

// Grant is a single-use token request. Client credentials travel with the
// grant, not the client: the service forwards whatever the caller
// presented rather than authenticating as itself.
type Grant struct {
	Kind         GrantKind
	ClientID     string
	ClientSecret string

	// Username and Password are only meaningful for password grants.
	// Callers must reject incomplete password grants before reaching this
	// package; Acquire simply omits empty credentials from the form.
	Username string
	Password string
}

// TokenPair is the provider's answer to a successful exchange. It is
// owned by the caller that requested it and never persisted here.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Client mediates all communication with the provider's token and
// revocation endpoints. It keeps no state between calls.
type Client struct {
	cfg  ProviderConfig
	http *http.Client
}

// NewClient builds a Client for the given provider.
func NewClient(cfg ProviderConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.timeout()},
	}
}

// Acquire exchanges a grant for a token pair at the provider's token
// endpoint.
func (c *Client) Acquire(ctx context.Context, g Grant) (*TokenPair, error) {
	form := url.Values{
		"grant_type":    {string(g.Kind)},
		"client_id":     {g.ClientID},
		"client_secret": {g.ClientSecret},
	}
	if c.cfg.Scope != "" {
		form.Set("scope", c.cfg.Scope)
	}
	if g.Kind == GrantPassword && g.Username != "" {
		form.Set("username", g.Username)
		form.Set("password", g.Password)
	}

	return c.requestToken(ctx, form)
}

// Refresh trades a refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*TokenPair, error) {
	form := url.Values{
		"grant_type":    {string(GrantRefreshToken)},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refreshToken},
	}

	return c.requestToken(ctx, form)
}

// Revoke invalidates a token server-side. Success is determined solely by
// the HTTP status; the body is never parsed.
func (c *Client) Revoke(ctx context.Context, clientID, clientSecret, token string) error {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"token":         {token},
	}

	resp, err := c.postForm(ctx, c.cfg.revokeURL(), form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRevocationFailed, resp.StatusCode)
	}
	return nil
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (*TokenPair, error) {
	resp, err := c.postForm(ctx, c.cfg.tokenURL(), form)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The upstream error taxonomy stays in the logs only.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		slogx.FromContext(ctx).Warn("token request rejected",
			"status", resp.StatusCode,
			"provider_error", strings.TrimSpace(string(body)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrAuthRejected, resp.StatusCode)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("oidc: decode token response: %w", err)
	}
	return &pair, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oidc: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4096))
}
