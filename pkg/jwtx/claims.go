package jwtx

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified content of a bearer token. It is derived fresh
// from the raw token on every request and never cached across requests.
type Identity struct {
	// Subject is the stable caller identifier. For interactive users this
	// is the provider's user id; for service clients it is usually the
	// service account id. May be empty if the token carries no usable
	// subject claim.
	Subject string

	// SessionID is set when the token belongs to an end-user session. A
	// pure client-credentials token carries no session claim.
	SessionID string

	// Roles granted to the caller, read from the configured role claim.
	Roles []string

	// Username is the provider's preferred username, when present.
	Username string

	Issuer    string
	ExpiresAt time.Time
}

// IsUserSession reports whether the token represents an interactive user
// session rather than a service-to-service caller.
func (id Identity) IsUserSession() bool {
	return id.SessionID != ""
}

// HasRole reports whether the identity carries the given role.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ClaimMapping is the single source of truth for how provider claims map
// onto an Identity. Providers disagree on where roles and session markers
// live, so the mapping is explicit configuration rather than a hard-coded
// provider quirk.
type ClaimMapping struct {
	// SubjectClaims are tried in order; the first non-empty string wins.
	SubjectClaims []string

	// RoleClaim names the claim carrying the role list. The value may be
	// a JSON array of strings or a single space-delimited string.
	RoleClaim string

	// SessionClaims are tried in order to detect an end-user session.
	SessionClaims []string

	// UsernameClaim names the preferred-username claim.
	UsernameClaim string
}

// DefaultClaimMapping matches the common OIDC layout: "sub" with a
// "preferred_username" fallback, roles under "roles", and a session
// marker under "sid" or "session_state".
func DefaultClaimMapping() ClaimMapping {
	return ClaimMapping{
		SubjectClaims: []string{"sub", "preferred_username"},
		RoleClaim:     "roles",
		SessionClaims: []string{"sid", "session_state"},
		UsernameClaim: "preferred_username",
	}
}

// withDefaults fills any unset field from DefaultClaimMapping.
func (m ClaimMapping) withDefaults() ClaimMapping {
	def := DefaultClaimMapping()
	if len(m.SubjectClaims) == 0 {
		m.SubjectClaims = def.SubjectClaims
	}
	if m.RoleClaim == "" {
		m.RoleClaim = def.RoleClaim
	}
	if len(m.SessionClaims) == 0 {
		m.SessionClaims = def.SessionClaims
	}
	if m.UsernameClaim == "" {
		m.UsernameClaim = def.UsernameClaim
	}
	return m
}

// Identity maps raw token claims onto an Identity. Signature, issuer and
// expiry checks are the verifier's job; this only extracts.
func (m ClaimMapping) Identity(claims jwt.MapClaims) Identity {
	m = m.withDefaults()

	id := Identity{
		Subject:   firstStringClaim(claims, m.SubjectClaims),
		SessionID: firstStringClaim(claims, m.SessionClaims),
		Roles:     stringListClaim(claims, m.RoleClaim),
		Username:  stringClaim(claims, m.UsernameClaim),
		Issuer:    stringClaim(claims, "iss"),
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}

	return id
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if v, ok := claims[name].(string); ok {
		return v
	}
	return ""
}

func firstStringClaim(claims jwt.MapClaims, names []string) string {
	for _, name := range names {
		if v := stringClaim(claims, name); v != "" {
			return v
		}
	}
	return ""
}

// stringListClaim reads a claim that is either a JSON array of strings or
// a space-delimited string (both shapes exist in the wild).
func stringListClaim(claims jwt.MapClaims, name string) []string {
	switch v := claims[name].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		return strings.Fields(v)
	default:
		return nil
	}
}
