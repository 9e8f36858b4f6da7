package task

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/internal/transport"
	"github.com/frahmantamala/task-gamification/pkg/logger"
)

type ServiceAPI interface {
	CreateTask(ctx context.Context, dto CreateTaskDTO, actor Actor) (*Task, error)
	GetTask(ctx context.Context, id int64, actor Actor) (*Task, error)
	ListTasks(ctx context.Context, actor Actor, status Status, assignedToMe bool) ([]*Task, error)
	AssignTask(ctx context.Context, id int64, actor Actor) (*Task, error)
	CompleteTask(ctx context.Context, id int64, actor Actor) (*CompletionResult, error)
	CancelTask(ctx context.Context, id int64, actor Actor) (*Task, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func actorFromRequest(r *http.Request) (Actor, bool) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok || !auth.IsAuthenticated(s) {
		return Actor{}, false
	}
	return Actor{UserID: s.UserID, Role: string(s.Role), BusinessID: s.BusinessID}, true
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	var dto CreateTaskDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	t, err := h.Service.CreateTask(r.Context(), dto, actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	query := r.URL.Query()
	status := Status(strings.ToUpper(strings.TrimSpace(query.Get("status"))))
	assignedToMe := query.Get("assignedToMe") == "true"

	tasks, err := h.Service.ListTasks(r.Context(), actor, status, assignedToMe)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*Task{}
	}

	h.WriteJSON(w, http.StatusOK, TasksResponse{Tasks: tasks})
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, func(ctx context.Context, id int64, actor Actor) (interface{}, error) {
		return h.Service.GetTask(ctx, id, actor)
	})
}

func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, func(ctx context.Context, id int64, actor Actor) (interface{}, error) {
		return h.Service.AssignTask(ctx, id, actor)
	})
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, func(ctx context.Context, id int64, actor Actor) (interface{}, error) {
		return h.Service.CompleteTask(ctx, id, actor)
	})
}

func (h *Handler) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, func(ctx context.Context, id int64, actor Actor) (interface{}, error) {
		return h.Service.CancelTask(ctx, id, actor)
	})
}

func (h *Handler) withTask(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64, actor Actor) (interface{}, error)) {
	actor, ok := actorFromRequest(r)
	if !ok {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	resp, err := fn(r.Context(), id, actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
