package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/todo/internal/todo/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *TodoService {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "todo_service_test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return &TodoService{Store: s}
}

func ptr(s string) *string { return &s }

func TestTodoService_Forbidden(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	denied := Decision{}

	_, err := svc.List(ctx, denied)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, denied, 1)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(ctx, denied, TodoFields{Title: "x"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, denied, 1, TodoFields{Title: "x"})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, denied, 1)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestTodoService_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	authz := NewAuthorizer(SharedRolePolicy("todo-user"))
	d := authz.Authorize(userIdentity("u1", "todo-user"), OpCreate)

	_, err := svc.Create(ctx, d, TodoFields{Title: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, d, TodoFields{Title: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.Create(ctx, d, TodoFields{Title: "  groceries  "})
	require.NoError(t, err)
	require.Equal(t, "groceries", created.Title)
	require.Equal(t, "u1", created.UserID)
	require.False(t, created.Completed)
	require.False(t, created.CreatedAt.IsZero())
}

func TestTodoService_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	authz := NewAuthorizer(SharedRolePolicy("todo-user"))

	u1 := authz.Authorize(userIdentity("u1", "todo-user"), OpCreate)
	u2 := authz.Authorize(userIdentity("u2", "todo-user"), OpRead)

	created, err := svc.Create(ctx, u1, TodoFields{Title: "mine", Description: ptr("keep out")})
	require.NoError(t, err)

	t.Run("owner sees own record", func(t *testing.T) {
		got, err := svc.Get(ctx, authz.Authorize(userIdentity("u1", "todo-user"), OpRead), created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, "mine", got.Title)
	})

	t.Run("foreign record reads as absent", func(t *testing.T) {
		_, err := svc.Get(ctx, u2, created.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign record cannot be updated", func(t *testing.T) {
		_, err := svc.Update(ctx, authz.Authorize(userIdentity("u2", "todo-user"), OpUpdate), created.ID, TodoFields{Title: "stolen"})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign record cannot be deleted", func(t *testing.T) {
		err := svc.Delete(ctx, authz.Authorize(userIdentity("u2", "todo-user"), OpDelete), created.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("lists are scoped per owner", func(t *testing.T) {
		_, err := svc.Create(ctx, authz.Authorize(userIdentity("u2", "todo-user"), OpCreate), TodoFields{Title: "theirs"})
		require.NoError(t, err)

		mine, err := svc.List(ctx, authz.Authorize(userIdentity("u1", "todo-user"), OpList))
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, "mine", mine[0].Title)
	})

	t.Run("service caller sees everything", func(t *testing.T) {
		all, err := svc.List(ctx, authz.Authorize(serviceIdentity("service-account-todo", "todo-user"), OpList))
		require.NoError(t, err)
		require.Len(t, all, 2)
	})
}

func TestTodoService_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	authz := NewAuthorizer(SharedRolePolicy("todo-user"))
	id := userIdentity("u1", "todo-user")

	created, err := svc.Create(ctx, authz.Authorize(id, OpCreate), TodoFields{Title: "draft"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, authz.Authorize(id, OpUpdate), created.ID, TodoFields{
		Title:       "final",
		Description: ptr("done now"),
		Completed:   true,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "final", updated.Title)
	require.True(t, updated.Completed)
	require.Equal(t, created.UserID, updated.UserID)

	got, err := svc.Get(ctx, authz.Authorize(id, OpRead), created.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Title)
	require.True(t, got.Completed)

	require.NoError(t, svc.Delete(ctx, authz.Authorize(id, OpDelete), created.ID))

	err = svc.Delete(ctx, authz.Authorize(id, OpDelete), created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, authz.Authorize(id, OpRead), created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
