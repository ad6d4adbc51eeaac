package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/todo/internal/todo/domain"
	"github.com/aussiebroadwan/todo/internal/todo/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "todo_test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func ptr(s string) *string { return &s }

func seedTodo(t *testing.T, s *Store, title, owner string) domain.Todo {
	t.Helper()

	created, err := s.Todos().Create(context.Background(), domain.Todo{
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UserID:    owner,
	})
	require.NoError(t, err)
	return created
}

func TestTodos_CreateAndGet(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Todos().Create(ctx, domain.Todo{
		Title:       "buy milk",
		Description: ptr("two liters"),
		CreatedAt:   time.Now().UTC(),
		UserID:      "u1",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := s.Todos().Get(ctx, created.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "buy milk", got.Title)
	require.NotNil(t, got.Description)
	require.Equal(t, "two liters", *got.Description)
	require.Equal(t, "u1", got.UserID)
	require.False(t, got.Completed)
}

func TestTodos_OwnerFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	mine := seedTodo(t, s, "mine", "u1")
	theirs := seedTodo(t, s, "theirs", "u2")

	t.Run("list scopes to owner", func(t *testing.T) {
		todos, err := s.Todos().List(ctx, ptr("u1"))
		require.NoError(t, err)
		require.Len(t, todos, 1)
		require.Equal(t, mine.ID, todos[0].ID)
	})

	t.Run("unfiltered list sees everything", func(t *testing.T) {
		todos, err := s.Todos().List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, todos, 2)
	})

	t.Run("foreign row by id behaves like a missing row", func(t *testing.T) {
		_, err := s.Todos().Get(ctx, theirs.ID, ptr("u1"))
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Todos().Delete(ctx, theirs.ID, ptr("u1"))
		require.ErrorIs(t, err, store.ErrNotFound)

		theirs.Title = "hijacked"
		err = s.Todos().Update(ctx, theirs, ptr("u1"))
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTodos_Update(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	created := seedTodo(t, s, "draft", "u1")

	created.Title = "final"
	created.Description = ptr("now with details")
	created.Completed = true
	require.NoError(t, s.Todos().Update(ctx, created, ptr("u1")))

	got, err := s.Todos().Get(ctx, created.ID, ptr("u1"))
	require.NoError(t, err)
	require.Equal(t, "final", got.Title)
	require.True(t, got.Completed)

	t.Run("missing id", func(t *testing.T) {
		missing := created
		missing.ID = 9999
		require.ErrorIs(t, s.Todos().Update(ctx, missing, nil), store.ErrNotFound)
	})
}

func TestTodos_DeleteTwice(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	created := seedTodo(t, s, "ephemeral", "u1")

	require.NoError(t, s.Todos().Delete(ctx, created.ID, nil))
	require.ErrorIs(t, s.Todos().Delete(ctx, created.ID, nil), store.ErrNotFound)
}
