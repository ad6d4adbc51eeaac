package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/todo/pkg/jwtx"
	"github.com/aussiebroadwan/todo/pkg/slogx"
)

// AuthnMiddleware validates the bearer token on every request and injects
// the resulting Identity into the request context. All failures are 401;
// the token taxonomy (expired vs malformed vs bad signature) only shapes
// the RFC 6750 error description, never the status.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			id, err := v.Verify(ctx, raw)
			if err != nil {
				writeBearerError(w, bearerErrorDescription(err))
				log.Warn("bearer token rejected", "err", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(ctx, id)))
		})
	}
}

func bearerErrorDescription(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return "token expired"
	case errors.Is(err, jwtx.ErrKeysUnavailable):
		// Provider outage means "cannot verify", still fail closed.
		return "token verification unavailable"
	default:
		return "token verification failed"
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
