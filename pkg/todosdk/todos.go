package todosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListTodos returns the todos visible to this session. End-user sessions
// see only their own records; service sessions see every record.
func (s *Session) ListTodos(ctx context.Context) ([]Todo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}

	var todos []Todo
	if err := decodeJSON(resp, &todos, http.StatusOK); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo fetches a single record by id.
func (s *Session) GetTodo(ctx context.Context, id int64) (*Todo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, fmt.Sprintf("/todos/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var todo Todo
	if err := decodeJSON(resp, &todo, http.StatusOK); err != nil {
		return nil, err
	}
	return &todo, nil
}

// CreateTodo creates a record and returns it with its assigned id.
func (s *Session) CreateTodo(ctx context.Context, req TodoRequest) (*Todo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/todos", req)
	if err != nil {
		return nil, err
	}

	var todo Todo
	if err := decodeJSON(resp, &todo, http.StatusCreated); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo replaces the writable fields of an existing record.
func (s *Session) UpdateTodo(ctx context.Context, id int64, req TodoRequest) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, fmt.Sprintf("/todos/%d", id), req)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// DeleteTodo removes a record by id.
func (s *Session) DeleteTodo(ctx context.Context, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// doAuthRequest performs an authenticated request, JSON-encoding body
// when it is non-nil.
func (s *Session) doAuthRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	var req *http.Request
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, s.client.url(path), reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, s.client.url(path), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}
