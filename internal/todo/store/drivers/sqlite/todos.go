package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/todo/internal/todo/domain"
	"github.com/aussiebroadwan/todo/internal/todo/store"
)

type todosRepo struct {
	db *sql.DB
}

// Ownership filtering happens in SQL so a filtered lookup of a foreign
// row is indistinguishable from a missing row.

func (r *todosRepo) List(ctx context.Context, owner *string) ([]domain.Todo, error) {
	const q = `
		SELECT id, title, description, is_completed, created_at, user_id
		FROM todos
		WHERE (?1 IS NULL OR user_id = ?1)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, mapOptionalString(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *todosRepo) Get(ctx context.Context, id int64, owner *string) (domain.Todo, error) {
	const q = `
		SELECT id, title, description, is_completed, created_at, user_id
		FROM todos
		WHERE id = ?1 AND (?2 IS NULL OR user_id = ?2)`

	row := r.db.QueryRowContext(ctx, q, id, mapOptionalString(owner))
	t, err := scanTodo(row)
	if err != nil {
		return domain.Todo{}, mapNotFound(err)
	}
	return t, nil
}

func (r *todosRepo) Create(ctx context.Context, t domain.Todo) (domain.Todo, error) {
	const q = `
		INSERT INTO todos (title, description, is_completed, created_at, user_id)
		VALUES (?1, ?2, ?3, ?4, ?5)
		RETURNING id, title, description, is_completed, created_at, user_id`

	row := r.db.QueryRowContext(ctx, q,
		t.Title,
		mapOptionalString(t.Description),
		t.Completed,
		t.CreatedAt.UTC(),
		t.UserID,
	)
	return scanTodo(row)
}

func (r *todosRepo) Update(ctx context.Context, t domain.Todo, owner *string) error {
	const q = `
		UPDATE todos
		SET title = ?2, description = ?3, is_completed = ?4
		WHERE id = ?1 AND (?5 IS NULL OR user_id = ?5)`

	res, err := r.db.ExecContext(ctx, q,
		t.ID,
		t.Title,
		mapOptionalString(t.Description),
		t.Completed,
		mapOptionalString(owner),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *todosRepo) Delete(ctx context.Context, id int64, owner *string) error {
	const q = `DELETE FROM todos WHERE id = ?1 AND (?2 IS NULL OR user_id = ?2)`

	res, err := r.db.ExecContext(ctx, q, id, mapOptionalString(owner))
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var (
		t    domain.Todo
		desc sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.CreatedAt, &t.UserID); err != nil {
		return domain.Todo{}, err
	}
	t.Description = mapNullString(desc)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
