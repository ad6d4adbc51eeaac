package jwtx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrKeysUnavailable reports that the provider's JWKS endpoint could not
// be reached. Callers should fail closed (treat the token as unverifiable)
// rather than letting it through.
var ErrKeysUnavailable = errors.New("jwtx: signing keys unavailable")

// DefaultRefreshInterval bounds how often an unknown kid may trigger a
// key-set refresh. A malicious token with a bogus kid must not be able to
// hammer the provider on every request.
const DefaultRefreshInterval = 30 * time.Second

// retryBackoff is the pause before the single refresh retry after an
// upstream failure.
const retryBackoff = 250 * time.Millisecond

// RemoteKeySet is a KeySet fed from an identity provider's JWKS endpoint.
// Lookups never block on the network: a refresh fetches first and swaps
// the cached set only once the new one parsed, so concurrent requests
// keep verifying against the stale set in the meantime.
type RemoteKeySet struct {
	url    string
	client *http.Client

	keys    *KeySet
	limiter *rate.Limiter

	// refreshMu collapses concurrent refresh attempts into one fetch.
	refreshMu sync.Mutex
}

// NewRemoteKeySet builds a RemoteKeySet for the given JWKS URL. The
// timeout bounds each fetch; refreshes triggered by unknown kids are
// rate-limited to one per DefaultRefreshInterval.
func NewRemoteKeySet(jwksURL string, timeout time.Duration) *RemoteKeySet {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteKeySet{
		url:     jwksURL,
		client:  &http.Client{Timeout: timeout},
		keys:    NewKeySet(),
		limiter: rate.NewLimiter(rate.Every(DefaultRefreshInterval), 1),
	}
}

// Resolve returns the public key for kid. If the kid is not in the cached
// set, the set is refreshed from the provider at most once (rate-limited)
// and the lookup retried. An unknown kid after refresh is ErrNoKey; an
// unreachable provider is ErrKeysUnavailable.
func (r *RemoteKeySet) Resolve(ctx context.Context, kid string) (any, error) {
	if key, err := r.keys.Get(kid); err == nil {
		return key, nil
	}

	if !r.limiter.Allow() {
		return nil, ErrNoKey
	}

	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}

	return r.keys.Get(kid)
}

// Refresh fetches the JWKS and swaps it in. A transport failure is
// retried once after a short backoff before giving up.
func (r *RemoteKeySet) Refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	jwks, err := r.fetch(ctx)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrKeysUnavailable, ctx.Err())
		case <-time.After(retryBackoff):
		}
		jwks, err = r.fetch(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
		}
	}

	return r.keys.ResetFromJWKS(*jwks)
}

// IsReady reports whether at least one key has been loaded. Used by
// readiness probes; the set primes lazily if the initial fetch failed.
func (r *RemoteKeySet) IsReady() bool {
	return r.keys.IsReady()
}

func (r *RemoteKeySet) fetch(ctx context.Context) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwtx: jwks endpoint returned %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, err
	}
	return &jwks, nil
}
