package httpx

import (
	"context"

	"github.com/aussiebroadwan/todo/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyIdentity ctxKey = "identity"
)

func contextWithIdentity(ctx context.Context, id jwtx.Identity) context.Context {
	return context.WithValue(ctx, CtxKeyIdentity, id)
}

// IdentityFromContext returns the verified caller identity placed into
// the request context by AuthnMiddleware. The second return is false on
// unauthenticated requests.
func IdentityFromContext(ctx context.Context) (jwtx.Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(jwtx.Identity)
	return id, ok
}
