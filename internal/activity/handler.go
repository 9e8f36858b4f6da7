package activity

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type ServiceAPI interface {
	Record(ctx context.Context, userID int64) (*RecordResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// RecordActivity handles POST /user/activity.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	result, err := h.Service.Record(r.Context(), userID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
