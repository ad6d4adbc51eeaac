package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/todo/pkg/httpx"
	"github.com/aussiebroadwan/todo/pkg/oidc"
	"github.com/aussiebroadwan/todo/pkg/slogx"
	"github.com/aussiebroadwan/todo/pkg/todosdk"
)

// TokenHandler serves POST /auth/token. The service never sees or mints
// credentials itself; the grant is forwarded to the identity provider and
// the resulting token pair relayed back.
type TokenHandler struct {
	OIDC *oidc.Client
}

// ServeHTTP godoc
//
//	@Summary		Acquire Tokens
//	@Description	Exchanges credentials for an access/refresh token pair via the upstream identity provider.
//	@Description	Supports the password and client_credentials grants.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.TokenRequest	true	"Grant parameters"
//	@Success		200		{object}	todosdk.TokenResponse	"access_token, token_type, expires_in, refresh_token"
//	@Failure		400		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		503		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req todosdk.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		todosdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	if strings.TrimSpace(req.ClientID) == "" {
		todosdk.ErrInvalidRequest.WriteError(w)
		return
	}

	grant := oidc.Grant{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	}

	switch req.GrantType {
	case "password":
		// Incomplete password grants are rejected here, before any call
		// to the provider.
		if req.Username == "" || req.Password == "" {
			todosdk.ErrMissingCredentials.WriteError(w)
			return
		}
		grant.Kind = oidc.GrantPassword
		grant.Username = req.Username
		grant.Password = req.Password
	case "client_credentials":
		grant.Kind = oidc.GrantClientCredentials
	default:
		todosdk.ErrUnsupportedGrantType.WriteError(w)
		return
	}

	pair, err := h.OIDC.Acquire(ctx, grant)
	if err != nil {
		writeGrantError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

func tokenResponse(pair *oidc.TokenPair) todosdk.TokenResponse {
	return todosdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		Scope:        pair.Scope,
	}
}

// writeGrantError maps provider failures onto the wire. The provider's
// own error detail never reaches the caller.
func writeGrantError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, oidc.ErrAuthRejected):
		todosdk.ErrInvalidGrant.WriteError(w)
	case errors.Is(err, oidc.ErrUpstreamUnavailable):
		log.Warn("identity provider unreachable", "err", err)
		todosdk.ErrUpstreamUnavailable.WriteError(w)
	default:
		log.Error("token grant failed", "err", err)
		todosdk.ErrServerError.WriteError(w)
	}
}
