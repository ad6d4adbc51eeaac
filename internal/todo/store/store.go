package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/todo/internal/todo/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this.
type Store interface {
	Todos() Todos

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Todos is the persistence surface for to-do records. Every read and
// mutation takes an optional owner filter: when non-nil, rows owned by
// anyone else behave exactly like absent rows (ErrNotFound), so callers
// cannot probe foreign records by id.
type Todos interface {
	// List returns all records, scoped to owner when the filter is set.
	List(ctx context.Context, owner *string) ([]domain.Todo, error)

	// Get returns a single record by id under the owner filter.
	Get(ctx context.Context, id int64, owner *string) (domain.Todo, error)

	// Create inserts a new record and returns it with its assigned id and
	// creation timestamp.
	Create(ctx context.Context, t domain.Todo) (domain.Todo, error)

	// Update rewrites title, description and completion of an existing
	// record under the owner filter.
	Update(ctx context.Context, t domain.Todo, owner *string) error

	// Delete removes a record by id under the owner filter. Deleting an
	// already-deleted id is ErrNotFound, not an error state.
	Delete(ctx context.Context, id int64, owner *string) error
}
