package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/todo/internal/todo/service"
	"github.com/aussiebroadwan/todo/internal/todo/store/drivers/sqlite"
	"github.com/aussiebroadwan/todo/pkg/httpx"
	"github.com/aussiebroadwan/todo/pkg/jwtx"
	"github.com/aussiebroadwan/todo/pkg/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeIDP is an in-process stand-in for the external identity provider:
// a JWKS endpoint plus token and revocation endpoints under the Keycloak
// realm layout. Tokens it mints verify against its own JWKS.
type fakeIDP struct {
	srv    *httptest.Server
	signer *jwtx.RS256Signer

	tokenHits    atomic.Int32
	rejectGrants atomic.Bool
}

func newFakeIDP(t *testing.T) *fakeIDP {
	t.Helper()

	signer, err := jwtx.NewRS256Signer("idp-key-1", 2048)
	require.NoError(t, err)

	idp := &fakeIDP{signer: signer}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /protocol/openid-connect/certs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
	})
	mux.HandleFunc("POST /protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		idp.tokenHits.Add(1)

		if idp.rejectGrants.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
			return
		}

		require.NoError(t, r.ParseForm())
		subject := r.Form.Get("username")
		sid := "sess-" + subject
		if r.Form.Get("grant_type") == "client_credentials" {
			subject = "service-account-" + r.Form.Get("client_id")
			sid = ""
		}
		if r.Form.Get("grant_type") == "refresh_token" {
			subject = "refreshed-user"
			sid = "sess-refreshed"
		}

		access := idp.mint(t, subject, sid, []string{"todo-user"}, time.Hour)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"refresh_token": "refresh-" + subject,
			"token_type":    "Bearer",
			"expires_in":    3600,
			"scope":         "openid",
		})
	})
	mux.HandleFunc("POST /protocol/openid-connect/revoke", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("token") == "not-revocable" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	idp.srv = httptest.NewServer(mux)
	t.Cleanup(idp.srv.Close)
	return idp
}

// issuer doubles as the authority URL; the realm layout hangs off it.
func (f *fakeIDP) issuer() string { return f.srv.URL }

func (f *fakeIDP) mint(t *testing.T, subject, sid string, roles []string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"iss":                f.issuer(),
		"sub":                subject,
		"preferred_username": subject,
		"exp":                time.Now().Add(ttl).Unix(),
		"iat":                time.Now().Add(-time.Minute).Unix(),
		"roles":              roles,
	}
	if sid != "" {
		claims["sid"] = sid
	}

	token, err := f.signer.Sign(claims)
	require.NoError(t, err)
	return token
}

type fixture struct {
	router *Router
	idp    *fakeIDP

	// requests carry a per-fixture client IP so rate-limit buckets never
	// bleed between tests.
	clientIP string
}

var fixtureSeq atomic.Int32

func newFixture(t *testing.T) *fixture {
	t.Helper()

	idp := newFakeIDP(t)

	dsn := "file:" + filepath.Join(t.TempDir(), "todo_http_test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys := jwtx.NewRemoteKeySet(idp.issuer()+"/protocol/openid-connect/certs", 2*time.Second)
	require.NoError(t, keys.Refresh(t.Context()))
	verifier := jwtx.NewRemoteVerifier(keys, idp.issuer(), jwtx.DefaultClaimMapping())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(keys, verifier, "test", st, logger)
	router.OIDC = oidc.NewClient(oidc.ProviderConfig{
		Authority: idp.issuer(),
		Scope:     "openid",
		Timeout:   2 * time.Second,
	})
	router.Authorizer = service.NewAuthorizer(service.SharedRolePolicy("todo-user"))
	router.TodoService = &service.TodoService{Store: st}
	router.ApplyRoutes()

	return &fixture{
		router:   router,
		idp:      idp,
		clientIP: fmt.Sprintf("10.1.1.%d", fixtureSeq.Add(1)),
	}
}

// do performs a request against the router, JSON-encoding body when it
// is non-nil.
func (f *fixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Forwarded-For", f.clientIP)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	body := decodeBody[httpx.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error)
}
