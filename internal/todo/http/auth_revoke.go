package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/todo/pkg/httpx"
	"github.com/aussiebroadwan/todo/pkg/oidc"
	"github.com/aussiebroadwan/todo/pkg/slogx"
	"github.com/aussiebroadwan/todo/pkg/todosdk"
)

// RevokeHandler serves POST /auth/revoke.
type RevokeHandler struct {
	OIDC *oidc.Client
}

// ServeHTTP godoc
//
//	@Summary		Revoke Token
//	@Description	Revokes a refresh token at the upstream identity provider.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.RevokeRequest	true	"Revocation parameters"
//	@Success		200		{object}	map[string]string		"status"
//	@Failure		400		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		503		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Router			/auth/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req todosdk.RevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		todosdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	if strings.TrimSpace(req.ClientID) == "" || req.Token == "" {
		todosdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.OIDC.Revoke(ctx, req.ClientID, req.ClientSecret, req.Token); err != nil {
		switch {
		case errors.Is(err, oidc.ErrRevocationFailed):
			todosdk.ErrRevocationFailed.WriteError(w)
		case errors.Is(err, oidc.ErrUpstreamUnavailable):
			log.Warn("identity provider unreachable", "err", err)
			todosdk.ErrUpstreamUnavailable.WriteError(w)
		default:
			log.Error("token revocation failed", "err", err)
			todosdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
