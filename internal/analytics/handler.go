package analytics

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type ServiceAPI interface {
	Report(ctx context.Context, session *auth.Session) (*Report, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetAnalytics handles GET /manager/analytics
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	report, err := h.Service.Report(r.Context(), session)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
