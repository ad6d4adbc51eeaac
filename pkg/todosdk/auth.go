package todosdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// PasswordGrant exchanges a username and password for a token pair.
func (c *SDKClient) PasswordGrant(
	ctx context.Context,
	clientID, clientSecret, username, password string,
) (*TokenResponse, error) {
	return c.requestToken(ctx, TokenRequest{
		GrantType:    "password",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Username:     username,
		Password:     password,
	})
}

// ClientCredentialsGrant requests an access token for machine-to-machine
// callers. No refresh token is issued; clients re-authenticate as needed.
func (c *SDKClient) ClientCredentialsGrant(
	ctx context.Context,
	clientID, clientSecret string,
) (*TokenResponse, error) {
	return c.requestToken(ctx, TokenRequest{
		GrantType:    "client_credentials",
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// RefreshGrant requests new tokens using a refresh token.
func (c *SDKClient) RefreshGrant(
	ctx context.Context,
	clientID, clientSecret, refreshToken string,
) (*TokenResponse, error) {
	resp, err := c.postJSON(ctx, "/auth/refresh", RefreshRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	}, "")
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}
	return &token, nil
}

// RevokeToken revokes a refresh token at the identity provider.
func (c *SDKClient) RevokeToken(ctx context.Context, clientID, clientSecret, token string) error {
	resp, err := c.postJSON(ctx, "/auth/revoke", RevokeRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Token:        token,
	}, "")
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

func (c *SDKClient) requestToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	resp, err := c.postJSON(ctx, "/auth/token", req, "")
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}
	return &token, nil
}

// Login performs a password grant and returns an authenticated Session.
func (c *SDKClient) Login(
	ctx context.Context,
	clientID, clientSecret, username, password string,
) (*Session, error) {
	token, err := c.PasswordGrant(ctx, clientID, clientSecret, username, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, clientID, clientSecret, token), nil
}

// AuthenticateWithClientCredentials returns a Session for a
// machine-to-machine caller.
func (c *SDKClient) AuthenticateWithClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
) (*Session, error) {
	token, err := c.ClientCredentialsGrant(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	return newSession(c, clientID, clientSecret, token), nil
}

// Session is an authenticated client for the todo API. It refreshes its
// access token automatically when one is about to expire and a refresh
// token is available.
type Session struct {
	client       *SDKClient
	clientID     string
	clientSecret string

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *SDKClient, clientID, clientSecret string, token *TokenResponse) *Session {
	s := &Session{
		client:       c,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	s.adopt(token)
	return s
}

// RefreshToken returns the session's current refresh token, if any.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// Logout revokes the session's refresh token and forgets both tokens.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshToken
	s.mu.Unlock()

	if refresh != "" {
		if err := s.client.RevokeToken(ctx, s.clientID, s.clientSecret, refresh); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return nil
}

func (s *Session) adopt(token *TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.refreshToken = token.RefreshToken
	}
	// Refresh 30s early so a token never expires mid-request.
	s.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - 30*time.Second)
}

// getValidToken returns the current access token, refreshing it first
// when it is expired and a refresh token is on hand.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.accessToken
	expired := !s.expiresAt.IsZero() && time.Now().After(s.expiresAt)
	refresh := s.refreshToken
	s.mu.Unlock()

	if !expired || refresh == "" {
		return token, nil
	}

	renewed, err := s.client.RefreshGrant(ctx, s.clientID, s.clientSecret, refresh)
	if err != nil {
		return "", err
	}
	s.adopt(renewed)
	return renewed.AccessToken, nil
}
