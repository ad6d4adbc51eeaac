package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/todo/internal/todo/service"
	"github.com/aussiebroadwan/todo/pkg/httpx"
	"github.com/aussiebroadwan/todo/pkg/jwtx"
	"github.com/aussiebroadwan/todo/pkg/slogx"
	"github.com/aussiebroadwan/todo/pkg/todosdk"
)

// TodosHandler serves the bearer-authenticated /todos surface. Every
// request is authorized fresh against the role policy; end-user sessions
// are scoped to their own records.
type TodosHandler struct {
	Authorizer  *service.Authorizer
	TodoService *service.TodoService
}

// HandleList godoc
//
//	@Summary		List Todos
//	@Description	Lists the caller's todos. Service callers (client_credentials tokens) see all records.
//	@Tags			Todos
//	@Produce		json
//	@Success		200	{array}		todosdk.Todo			"todos"
//	@Failure		401	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/todos [get].
func (h *TodosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	todos, err := h.TodoService.List(r.Context(), h.Authorizer.Authorize(id, service.OpList))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, todos)
}

// HandleGet godoc
//
//	@Summary		Get Todo
//	@Description	Fetches a single todo by id. Records owned by other users read as absent.
//	@Tags			Todos
//	@Produce		json
//	@Param			id	path		int						true	"Todo id"
//	@Success		200	{object}	todosdk.Todo			"todo"
//	@Failure		401	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/todos/{id} [get].
func (h *TodosHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	todoID, ok := pathID(w, r)
	if !ok {
		return
	}

	todo, err := h.TodoService.Get(r.Context(), h.Authorizer.Authorize(id, service.OpRead), todoID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, todo)
}

// HandleCreate godoc
//
//	@Summary		Create Todo
//	@Description	Creates a todo owned by the caller.
//	@Tags			Todos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		todosdk.TodoRequest		true	"Todo fields"
//	@Success		201		{object}	todosdk.Todo			"created todo"
//	@Failure		400		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/todos [post].
func (h *TodosHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	fields, ok := todoFields(w, r)
	if !ok {
		return
	}

	created, err := h.TodoService.Create(r.Context(), h.Authorizer.Authorize(id, service.OpCreate), fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, created)
}

// HandleUpdate godoc
//
//	@Summary		Update Todo
//	@Description	Replaces the writable fields of an existing todo.
//	@Tags			Todos
//	@Accept			json
//	@Param			id		path	int					true	"Todo id"
//	@Param			request	body	todosdk.TodoRequest	true	"Todo fields"
//	@Success		204		"no content"
//	@Failure		400		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	todosdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/todos/{id} [put].
func (h *TodosHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	todoID, ok := pathID(w, r)
	if !ok {
		return
	}
	fields, ok := todoFields(w, r)
	if !ok {
		return
	}

	_, err := h.TodoService.Update(r.Context(), h.Authorizer.Authorize(id, service.OpUpdate), todoID, fields)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete godoc
//
//	@Summary		Delete Todo
//	@Description	Deletes a todo by id.
//	@Tags			Todos
//	@Param			id	path	int	true	"Todo id"
//	@Success		204	"no content"
//	@Failure		401	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	todosdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/todos/{id} [delete].
func (h *TodosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	todoID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.TodoService.Delete(r.Context(), h.Authorizer.Authorize(id, service.OpDelete), todoID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// callerIdentity pulls the verified identity placed in the context by
// the authn middleware.
func callerIdentity(w http.ResponseWriter, r *http.Request) (jwtx.Identity, bool) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		// Route misconfiguration; the middleware must run first.
		todosdk.NewAPIError(http.StatusUnauthorized, todosdk.ErrorCodeInvalidToken, "no verified identity").WriteError(w)
		return jwtx.Identity{}, false
	}
	return id, true
}

// pathID parses the {id} path segment. Non-numeric ids behave like
// absent records.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		todosdk.ErrTodoNotFound.WriteError(w)
		return 0, false
	}
	return id, true
}

func todoFields(w http.ResponseWriter, r *http.Request) (service.TodoFields, bool) {
	var req todosdk.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		todosdk.ErrInvalidJSONBody.WriteError(w)
		return service.TodoFields{}, false
	}
	return service.TodoFields{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		todosdk.ErrAccessDenied.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		todosdk.ErrTodoNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvalidInput):
		todosdk.NewAPIError(http.StatusBadRequest, todosdk.ErrorCodeInvalidRequest, "title is required").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("todo operation failed", "err", err)
		todosdk.ErrServerError.WriteError(w)
	}
}
