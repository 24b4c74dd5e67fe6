package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tasknest/tasknest/internal/todo/domain"
	"github.com/tasknest/tasknest/internal/todo/service"
	"github.com/tasknest/tasknest/pkg/apierr"
	"github.com/tasknest/tasknest/pkg/httpx"
	"github.com/tasknest/tasknest/pkg/slogx"
)

type TodosHandler struct {
	TodoService *service.TodoService
}

// HandleCreate godoc
//
//	@Summary		Create a todo
//	@Description	Creates a todo owned by the authenticated user. Priority defaults
//	@Description	to medium when omitted.
//	@Tags			Todos
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateTodoRequest	true	"Todo fields"
//	@Success		201		{object}	TodoResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed body"
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		422		{object}	ErrorResponse	"Validation failure"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/api/v1/todos [post].
func (h *TodosHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.ErrInvalidRequest.WriteError(w)
		return
	}

	in := service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}

	todo, err := h.TodoService.Create(ctx, httpx.UserIDFromCtx(ctx), in)
	if err != nil {
		writeTodoError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTodoResponse(todo))
}

// HandleList godoc
//
//	@Summary		List todos
//	@Description	Returns one page of the authenticated user's todos, oldest first.
//	@Tags			Todos
//	@Security		BearerAuth
//	@Produce		json
//	@Param			skip	query		int	false	"Rows to skip"			default(0)
//	@Param			limit	query		int	false	"Page size (max 100)"	default(100)
//	@Success		200		{object}	TodoListResponse
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/api/v1/todos [get].
func (h *TodosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", service.DefaultListLimit)

	page, err := h.TodoService.List(ctx, httpx.UserIDFromCtx(ctx), skip, limit)
	if err != nil {
		writeTodoError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTodoListResponse(page.Items, page.Total, page.Skip, page.Limit))
}

// HandleGet godoc
//
//	@Summary		Get a todo
//	@Description	Returns one of the authenticated user's todos. Another user's todo
//	@Description	answers 404, same as a missing one.
//	@Tags			Todos
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Todo id"
//	@Success		200	{object}	TodoResponse
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	ErrorResponse	"Not found or not owned"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/api/v1/todos/{id} [get].
func (h *TodosHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	todo, err := h.TodoService.Get(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeTodoError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTodoResponse(todo))
}

// HandleUpdate godoc
//
//	@Summary		Update a todo
//	@Description	Applies a partial update. Omitted fields keep their stored value;
//	@Description	an explicit null due_date clears it. PUT and PATCH behave the same.
//	@Tags			Todos
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Todo id"
//	@Param			body	body		UpdateTodoRequest	true	"Fields to change"
//	@Success		200		{object}	TodoResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed body"
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		404		{object}	ErrorResponse	"Not found or not owned"
//	@Failure		422		{object}	ErrorResponse	"Validation failure"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/api/v1/todos/{id} [patch].
func (h *TodosHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.ErrInvalidRequest.WriteError(w)
		return
	}

	in := service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}
	if len(req.DueDate) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.DueDate), []byte("null")) {
			in.ClearDueDate = true
		} else {
			var due time.Time
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				apierr.ErrInvalidRequest.WriteError(w)
				return
			}
			in.DueDate = &due
		}
	}

	todo, err := h.TodoService.Update(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id"), in)
	if err != nil {
		writeTodoError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTodoResponse(todo))
}

// HandleDelete godoc
//
//	@Summary		Delete a todo
//	@Tags			Todos
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Todo id"
//	@Success		204	"Deleted"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	ErrorResponse	"Not found or not owned"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/api/v1/todos/{id} [delete].
func (h *TodosHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.TodoService.Delete(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id")); err != nil {
		writeTodoError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateTodoRequest is the JSON body for PUT/PATCH /api/v1/todos/{id}.
// DueDate stays raw so "absent" and "null" are distinguishable.
type UpdateTodoRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	IsCompleted *bool           `json:"is_completed"`
	Priority    *string         `json:"priority" enums:"low,medium,high"`
	DueDate     json.RawMessage `json:"due_date" swaggertype:"string" format:"date-time"`
}

func writeTodoError(ctx context.Context, w http.ResponseWriter, err error) {
	log := slogx.FromContext(ctx)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apierr.Validation(verr.Error()).WriteError(w)
	case errors.Is(err, service.ErrTodoNotFound):
		apierr.ErrNotFound.WriteError(w)
	default:
		log.Error("todo operation failed", "err", err)
		apierr.ErrServerError.WriteError(w)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
