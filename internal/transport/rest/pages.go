package rest

import (
	"net/http"

	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type Page struct {
	Page string        `json:"page"`
	User *auth.Session `json:"user"`
}

// PageHandler answers page routes with a small JSON model. Access control
// already happened in the gate.
type PageHandler struct {
	*transport.BaseHandler
}

func NewPageHandler(baseHandler *transport.BaseHandler) *PageHandler {
	return &PageHandler{BaseHandler: baseHandler}
}

func (h *PageHandler) Render(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.SessionFromContext(r.Context())
		h.WriteJSON(w, http.StatusOK, Page{Page: name, User: s})
	}
}
