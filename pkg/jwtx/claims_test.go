package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestClaimMapping_Identity(t *testing.T) {
	t.Parallel()

	t.Run("default mapping extracts standard claims", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Unix()
		claims := jwt.MapClaims{
			"iss":                "https://idp.example.com/realms/todo",
			"sub":                "user-1",
			"sid":                "sess-abc",
			"preferred_username": "alice",
			"roles":              []any{"todo-user", "admin"},
			"exp":                float64(exp),
		}

		id := DefaultClaimMapping().Identity(claims)
		require.Equal(t, "user-1", id.Subject)
		require.Equal(t, "sess-abc", id.SessionID)
		require.Equal(t, []string{"todo-user", "admin"}, id.Roles)
		require.Equal(t, "alice", id.Username)
		require.Equal(t, "https://idp.example.com/realms/todo", id.Issuer)
		require.Equal(t, exp, id.ExpiresAt.Unix())
		require.True(t, id.IsUserSession())
	})

	t.Run("subject falls back to preferred_username", func(t *testing.T) {
		id := DefaultClaimMapping().Identity(jwt.MapClaims{
			"preferred_username": "bob",
		})
		require.Equal(t, "bob", id.Subject)
	})

	t.Run("session_state also marks a user session", func(t *testing.T) {
		id := DefaultClaimMapping().Identity(jwt.MapClaims{
			"sub":           "user-2",
			"session_state": "sess-xyz",
		})
		require.True(t, id.IsUserSession())
		require.Equal(t, "sess-xyz", id.SessionID)
	})

	t.Run("no session claim means service caller", func(t *testing.T) {
		id := DefaultClaimMapping().Identity(jwt.MapClaims{
			"sub":   "service-account-todo",
			"roles": []any{"todo-user"},
		})
		require.False(t, id.IsUserSession())
	})

	t.Run("custom role claim name", func(t *testing.T) {
		m := ClaimMapping{RoleClaim: "resource_roles"}
		id := m.Identity(jwt.MapClaims{
			"sub":            "user-3",
			"resource_roles": []any{"read-todo"},
			"roles":          []any{"ignored"},
		})
		require.Equal(t, []string{"read-todo"}, id.Roles)
	})

	t.Run("space-delimited role string", func(t *testing.T) {
		id := DefaultClaimMapping().Identity(jwt.MapClaims{
			"sub":   "user-4",
			"roles": "list-todos read-todo",
		})
		require.Equal(t, []string{"list-todos", "read-todo"}, id.Roles)
	})

	t.Run("missing roles claim yields no roles", func(t *testing.T) {
		id := DefaultClaimMapping().Identity(jwt.MapClaims{"sub": "user-5"})
		require.Empty(t, id.Roles)
		require.False(t, id.HasRole("todo-user"))
	})
}

func TestIdentity_HasRole(t *testing.T) {
	t.Parallel()

	id := Identity{Roles: []string{"todo-user"}}
	require.True(t, id.HasRole("todo-user"))
	require.False(t, id.HasRole("admin"))
}
