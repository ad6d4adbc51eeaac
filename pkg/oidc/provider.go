// Package oidc talks to an external OpenID-Connect identity provider:
// grant-based token acquisition, refresh and revocation against its token
// endpoints. All identity is delegated; this service never mints tokens.
package oidc

import (
	"strings"
	"time"
)

// ProviderConfig describes the external identity provider. Endpoint URLs
// default to the Keycloak realm layout under the authority, but any RFC
// 6749 provider works by setting them explicitly.
type ProviderConfig struct {
	// Authority is the issuer URL, e.g.
	// https://idp.example.com/realms/todo. Tokens must carry it verbatim
	// in their iss claim.
	Authority string

	// TokenURL, RevokeURL and JWKSURL override the well-known layout
	// derived from Authority when set.
	TokenURL  string
	RevokeURL string
	JWKSURL   string

	// Scope is requested on every token acquisition.
	Scope string

	// Timeout bounds every call to the provider.
	Timeout time.Duration
}

const defaultTimeout = 10 * time.Second

func (c ProviderConfig) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return strings.TrimSuffix(c.Authority, "/") + "/protocol/openid-connect/token"
}

func (c ProviderConfig) revokeURL() string {
	if c.RevokeURL != "" {
		return c.RevokeURL
	}
	return strings.TrimSuffix(c.Authority, "/") + "/protocol/openid-connect/revoke"
}

// JWKSEndpoint returns the published signing-key set URL.
func (c ProviderConfig) JWKSEndpoint() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return strings.TrimSuffix(c.Authority, "/") + "/protocol/openid-connect/certs"
}

func (c ProviderConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}
