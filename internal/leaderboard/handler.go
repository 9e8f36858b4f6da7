package leaderboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal/transport"
)

type ServiceAPI interface {
	Get(ctx context.Context, period Period) ([]*Entry, error)
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

// GetLeaderboard handles GET /leaderboard?period=weekly|monthly|all-time
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := ParsePeriod(r.URL.Query().Get("period"))

	entries, err := h.Service.Get(r.Context(), period)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Period: period, Leaderboard: entries})
}
