package jwtx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://idp.test/realms/todo"

// jwksServer serves the given signers' public keys and counts fetches.
func jwksServer(t *testing.T, signers ...*RS256Signer) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		jwks := JWKS{}
		for _, s := range signers {
			jwks.Keys = append(jwks.Keys, s.PublicJWK())
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func userClaims(subject, sid string, roles []string, exp time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"iss":   testIssuer,
		"sub":   subject,
		"roles": roles,
		"exp":   exp.Unix(),
	}
	if sid != "" {
		claims["sid"] = sid
	}
	return claims
}

func TestRemoteVerifier_Verify(t *testing.T) {
	t.Parallel()

	signer, err := NewRS256Signer("kid-1", 2048)
	require.NoError(t, err)

	srv, _ := jwksServer(t, signer)
	keys := NewRemoteKeySet(srv.URL, time.Second)
	require.NoError(t, keys.Refresh(context.Background()))

	v := NewRemoteVerifier(keys, testIssuer, DefaultClaimMapping())

	t.Run("valid user token", func(t *testing.T) {
		token, err := signer.Sign(userClaims("user-1", "sess-1", []string{"todo-user"}, time.Now().Add(time.Hour)))
		require.NoError(t, err)

		id, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, "user-1", id.Subject)
		require.Equal(t, []string{"todo-user"}, id.Roles)
		require.True(t, id.IsUserSession())
	})

	t.Run("valid service token has no session", func(t *testing.T) {
		token, err := signer.Sign(userClaims("service-account", "", []string{"todo-user"}, time.Now().Add(time.Hour)))
		require.NoError(t, err)

		id, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		require.False(t, id.IsUserSession())
	})

	t.Run("expired token fails regardless of signature", func(t *testing.T) {
		token, err := signer.Sign(userClaims("user-1", "sess-1", nil, time.Now().Add(-time.Minute)))
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		claims := userClaims("user-1", "sess-1", nil, time.Now().Add(time.Hour))
		claims["iss"] = "https://rogue.test"
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("missing exp is malformed", func(t *testing.T) {
		token, err := signer.Sign(jwt.MapClaims{"iss": testIssuer, "sub": "user-1"})
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), token)
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not-a-token")
		require.ErrorIs(t, err, ErrMalformed)

		_, err = v.Verify(context.Background(), "a.b")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("wrong key signature", func(t *testing.T) {
		other, err := NewRS256Signer("kid-1", 2048) // same kid, different key
		require.NoError(t, err)
		token, err := other.Sign(userClaims("user-1", "sess-1", nil, time.Now().Add(time.Hour)))
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})
}

func TestRemoteVerifier_KeyRotation(t *testing.T) {
	t.Parallel()

	oldKey, err := NewRS256Signer("kid-old", 2048)
	require.NoError(t, err)
	newKey, err := NewRS256Signer("kid-new", 2048)
	require.NoError(t, err)

	// Server publishes both keys; the cache starts with only the old one.
	srv, hits := jwksServer(t, oldKey, newKey)
	keys := NewRemoteKeySet(srv.URL, time.Second)
	require.NoError(t, keys.keys.AddJWK(oldKey.PublicJWK()))

	v := NewRemoteVerifier(keys, testIssuer, DefaultClaimMapping())

	token, err := newKey.Sign(userClaims("user-1", "sess-1", nil, time.Now().Add(time.Hour)))
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", id.Subject)
	require.Equal(t, int64(1), hits.Load(), "unknown kid should trigger exactly one refresh")
}

func TestRemoteVerifier_UnknownKIDAfterRefresh(t *testing.T) {
	t.Parallel()

	signer, err := NewRS256Signer("kid-1", 2048)
	require.NoError(t, err)
	rogue, err := NewRS256Signer("kid-rogue", 2048)
	require.NoError(t, err)

	srv, hits := jwksServer(t, signer)
	keys := NewRemoteKeySet(srv.URL, time.Second)
	require.NoError(t, keys.Refresh(context.Background()))

	v := NewRemoteVerifier(keys, testIssuer, DefaultClaimMapping())

	token, err := rogue.Sign(userClaims("user-1", "sess-1", nil, time.Now().Add(time.Hour)))
	require.NoError(t, err)

	fetched := hits.Load()
	_, err = v.Verify(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidSig)
	require.Equal(t, fetched+1, hits.Load())

	// A second bogus-kid token inside the refresh window must not hit the
	// provider again.
	_, err = v.Verify(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidSig)
	require.Equal(t, fetched+1, hits.Load())
}

func TestRemoteKeySet_UpstreamDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // connection refused from here on

	keys := NewRemoteKeySet(srv.URL, time.Second)
	require.ErrorIs(t, keys.Refresh(context.Background()), ErrKeysUnavailable)
	require.False(t, keys.IsReady())
}
