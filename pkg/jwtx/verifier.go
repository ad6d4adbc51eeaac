package jwtx

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrExpired    = errors.New("jwtx: token expired")
)

// Verifier validates a raw bearer token and returns the caller Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RemoteVerifier validates RS256 tokens against an identity provider's
// published signing keys. Key material comes from a RemoteKeySet so an
// unknown kid triggers at most one rate-limited key refresh.
type RemoteVerifier struct {
	keys    *RemoteKeySet
	issuer  string
	mapping ClaimMapping
	leeway  time.Duration
}

// NewRemoteVerifier creates a verifier bound to the configured issuer and
// claim mapping. An empty issuer disables the issuer check (tests only;
// production config always sets it).
func NewRemoteVerifier(keys *RemoteKeySet, issuer string, mapping ClaimMapping) *RemoteVerifier {
	return &RemoteVerifier{
		keys:    keys,
		issuer:  issuer,
		mapping: mapping.withDefaults(),
	}
}

// WithLeeway allows small clock skew when checking expiry. Zero by
// default: a token is rejected the instant its exp passes.
func (v *RemoteVerifier) WithLeeway(d time.Duration) *RemoteVerifier {
	v.leeway = d
	return v
}

// Verify checks structure, signature, issuer and expiry, in that order,
// and extracts the Identity via the configured claim mapping.
func (v *RemoteVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if strings.Count(raw, ".") != 2 {
		return Identity{}, ErrMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("missing kid header: %w", ErrNoKey)
		}

		key, err := v.keys.Resolve(ctx, kid)
		if err != nil {
			return nil, err
		}

		rsaPub, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("kid %q is not an RSA key: %w", kid, ErrNoKey)
		}
		return rsaPub, nil
	})
	if err != nil {
		return Identity{}, mapParseError(err)
	}

	if v.issuer != "" {
		if iss := stringClaim(claims, "iss"); iss != v.issuer {
			return Identity{}, ErrIssuer
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Identity{}, ErrMalformed
	}
	if !time.Now().Before(exp.Add(v.leeway)) {
		return Identity{}, ErrExpired
	}

	return v.mapping.Identity(claims), nil
}

// mapParseError folds golang-jwt's error vocabulary into ours. Provider
// outage during a key refresh stays distinguishable so callers can report
// "cannot verify" instead of "definitely invalid".
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrKeysUnavailable):
		return fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	default:
		// Unknown kid, wrong key type, algorithm mismatch and signature
		// failures all collapse to one kind; the caller gets a 401 either
		// way and the detail stays in the logs.
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	}
}
