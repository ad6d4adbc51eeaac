package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/todo/internal/todo/domain"
	"github.com/aussiebroadwan/todo/internal/todo/store"
)

var (
	// ErrForbidden reports a failed role check.
	ErrForbidden = errors.New("service: operation forbidden")

	// ErrNotFound reports a record that is absent or owned by someone
	// else under the caller's ownership filter.
	ErrNotFound = errors.New("service: todo not found")

	// ErrInvalidInput reports a validation failure on the caller's fields.
	ErrInvalidInput = errors.New("service: invalid input")
)

// TodoFields are the caller-writable fields of a record.
type TodoFields struct {
	Title       string
	Description *string
	Completed   bool
}

func (f TodoFields) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

// TodoService applies an Authorization Decision to the store. Every
// operation takes the decision computed for this request and fails
// ErrForbidden immediately when it says no.
type TodoService struct {
	Store store.Store
}

// List returns the caller-visible records, owner-filtered when the
// decision says so.
func (s *TodoService) List(ctx context.Context, d Decision) ([]domain.Todo, error) {
	if !d.Allowed {
		return nil, ErrForbidden
	}

	todos, err := s.Store.Todos().List(ctx, d.Owner)
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// Get resolves a record by id under the decision's owner filter, so a
// caller cannot discover another owner's record even by guessing its id.
func (s *TodoService) Get(ctx context.Context, d Decision, id int64) (domain.Todo, error) {
	if !d.Allowed {
		return domain.Todo{}, ErrForbidden
	}

	t, err := s.Store.Todos().Get(ctx, id, d.Owner)
	if err != nil {
		return domain.Todo{}, mapStoreErr(err)
	}
	return t, nil
}

// Create inserts a new record owned per the decision and returns it with
// its assigned id and creation timestamp.
func (s *TodoService) Create(ctx context.Context, d Decision, fields TodoFields) (domain.Todo, error) {
	if !d.Allowed {
		return domain.Todo{}, ErrForbidden
	}
	if err := fields.validate(); err != nil {
		return domain.Todo{}, err
	}

	created, err := s.Store.Todos().Create(ctx, domain.Todo{
		Title:       strings.TrimSpace(fields.Title),
		Description: fields.Description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
		UserID:      d.NewOwner(),
	})
	if err != nil {
		return domain.Todo{}, err
	}
	return created, nil
}

// Update rewrites the caller-writable fields of an existing record under
// the decision's owner filter.
func (s *TodoService) Update(ctx context.Context, d Decision, id int64, fields TodoFields) (domain.Todo, error) {
	if !d.Allowed {
		return domain.Todo{}, ErrForbidden
	}
	if err := fields.validate(); err != nil {
		return domain.Todo{}, err
	}

	current, err := s.Store.Todos().Get(ctx, id, d.Owner)
	if err != nil {
		return domain.Todo{}, mapStoreErr(err)
	}

	current.Title = strings.TrimSpace(fields.Title)
	current.Description = fields.Description
	current.Completed = fields.Completed

	if err := s.Store.Todos().Update(ctx, current, d.Owner); err != nil {
		return domain.Todo{}, mapStoreErr(err)
	}
	return current, nil
}

// Delete removes a record under the decision's owner filter. A repeated
// delete is ErrNotFound, never a crash.
func (s *TodoService) Delete(ctx context.Context, d Decision, id int64) error {
	if !d.Allowed {
		return ErrForbidden
	}

	if err := s.Store.Todos().Delete(ctx, id, d.Owner); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
