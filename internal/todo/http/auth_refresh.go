package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/todo/pkg/httpx"
	"github.com/aussiebroadwan/todo/pkg/oidc"
	"github.com/aussiebroadwan/todo/pkg/slogx"
	"github.com/aussiebroadwan/todo/pkg/todosdk"
)

// RefreshHandler serves POST /auth/refresh.
type RefreshHandler struct {
	OIDC *oidc.Client
}

// ServeHTTP godoc
//
//	@Summary		Refresh Tokens
//	@Description	Exchanges a refresh token for a new access/refresh token pair via the upstream identity provider.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.RefreshRequest	true	"Refresh parameters"
//	@Success		200		{object}	todosdk.TokenResponse	"access_token, token_type, expires_in, refresh_token"
//	@Failure		400		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		503		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req todosdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		todosdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	if strings.TrimSpace(req.ClientID) == "" || req.RefreshToken == "" {
		todosdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.OIDC.Refresh(ctx, req.ClientID, req.ClientSecret, req.RefreshToken)
	if err != nil {
		writeGrantError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}
