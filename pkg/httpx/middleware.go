package httpx

import "net/http"

// Middleware wraps an http.Handler with more behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to a handler, outermost first. Chain(h, a, b)
// serves a(b(h)).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
