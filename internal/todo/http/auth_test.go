package http

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/todo/pkg/todosdk"
	"github.com/stretchr/testify/require"
)

func TestTokenEndpoint_PasswordGrant(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
		GrantType: "password",
		ClientID:  "todo-web",
		Username:  "alice",
		Password:  "s3cret",
	})

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	body := decodeBody[todosdk.TokenResponse](t, rec)
	require.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
	require.Equal(t, "Bearer", body.TokenType)
	require.Equal(t, 3600, body.ExpiresIn)

	require.EqualValues(t, 1, f.idp.tokenHits.Load())
}

func TestTokenEndpoint_IncompletePasswordGrant(t *testing.T) {
	f := newFixture(t)

	t.Run("missing password", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
			GrantType: "password",
			ClientID:  "todo-web",
			Username:  "alice",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest)
	})

	t.Run("missing username", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
			GrantType: "password",
			ClientID:  "todo-web",
			Password:  "s3cret",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest)
	})

	// Incomplete grants must never reach the provider.
	require.EqualValues(t, 0, f.idp.tokenHits.Load())
}

func TestTokenEndpoint_Validation(t *testing.T) {
	f := newFixture(t)

	t.Run("unsupported grant type", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
			GrantType: "authorization_code",
			ClientID:  "todo-web",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeUnsupportedGrantType)
	})

	t.Run("missing client id", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
			GrantType: "password",
			Username:  "alice",
			Password:  "s3cret",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest)
	})

	t.Run("invalid json body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/token", "", "not an object")
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest)
	})

	require.EqualValues(t, 0, f.idp.tokenHits.Load())
}

func TestTokenEndpoint_ProviderRejection(t *testing.T) {
	f := newFixture(t)
	f.idp.rejectGrants.Store(true)

	rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
		GrantType: "password",
		ClientID:  "todo-web",
		Username:  "alice",
		Password:  "wrong",
	})

	// The provider's own error detail must not be echoed.
	requireErrorCode(t, rec, http.StatusUnauthorized, todosdk.ErrorCodeInvalidGrant)
	require.NotContains(t, rec.Body.String(), "Invalid user credentials")
}

func TestTokenEndpoint_ProviderDown(t *testing.T) {
	f := newFixture(t)
	f.idp.srv.Close()

	rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
		GrantType: "password",
		ClientID:  "todo-web",
		Username:  "alice",
		Password:  "s3cret",
	})

	requireErrorCode(t, rec, http.StatusServiceUnavailable, todosdk.ErrorCodeTemporarilyUnavailable)
}

func TestTokenEndpoint_ClientCredentialsGrant(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/token", "", todosdk.TokenRequest{
		GrantType:    "client_credentials",
		ClientID:     "todo-batch",
		ClientSecret: "batch-secret",
	})

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	body := decodeBody[todosdk.TokenResponse](t, rec)
	require.NotEmpty(t, body.AccessToken)
}

func TestRefreshEndpoint(t *testing.T) {
	f := newFixture(t)

	t.Run("success", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/refresh", "", todosdk.RefreshRequest{
			ClientID:     "todo-web",
			RefreshToken: "refresh-alice",
		})

		require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		body := decodeBody[todosdk.TokenResponse](t, rec)
		require.NotEmpty(t, body.AccessToken)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/refresh", "", todosdk.RefreshRequest{
			ClientID: "todo-web",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest)
	})

	t.Run("provider rejection", func(t *testing.T) {
		f.idp.rejectGrants.Store(true)
		defer f.idp.rejectGrants.Store(false)

		rec := f.do(t, http.MethodPost, "/auth/refresh", "", todosdk.RefreshRequest{
			ClientID:     "todo-web",
			RefreshToken: "stale",
		})
		requireErrorCode(t, rec, http.StatusUnauthorized, todosdk.ErrorCodeInvalidGrant)
	})
}

func TestRevokeEndpoint(t *testing.T) {
	f := newFixture(t)

	t.Run("success", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/revoke", "", todosdk.RevokeRequest{
			ClientID: "todo-web",
			Token:    "refresh-alice",
		})
		require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	})

	t.Run("provider refuses", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/revoke", "", todosdk.RevokeRequest{
			ClientID: "todo-web",
			Token:    "not-revocable",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeRevocationFailed)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/revoke", "", todosdk.RevokeRequest{
			ClientID: "todo-web",
		})
		requireErrorCode(t, rec, http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest)
	})
}
