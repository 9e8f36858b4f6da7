package achievement

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type ServiceAPI interface {
	ListForUser(ctx context.Context, userID int64) (*AchievementsResponse, error)
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

func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	resp, err := h.Service.ListForUser(r.Context(), userID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
