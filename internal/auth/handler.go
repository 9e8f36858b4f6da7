package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/transport"
	"github.com/frahmantamala/task-gamification/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Cookies  *CookieStore
	Resolver *Resolver
}

func NewHandler(svc ServiceAPI, cookies *CookieStore) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Cookies:     cookies,
		Resolver:    NewResolver(svc, cookies),
	}
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if h.Cookies != nil {
		if err := h.Cookies.Save(w, r, tokens.AccessToken); err != nil {
			h.Logger.Warn("failed to persist session cookie", "error", err)
		}
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

type signupResponse struct {
	Message string   `json:"message"`
	User    *Account `json:"user"`
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	account, err := h.Service.SignUp(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, signupResponse{Message: "User created successfully", User: account})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if appErr := dto.Validate(); appErr != nil {
		h.WriteAppError(w, r, appErr)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if h.Cookies != nil {
		if err := h.Cookies.Save(w, r, tokens.AccessToken); err != nil {
			h.Logger.Warn("failed to persist session cookie", "error", err)
		}
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if h.Cookies != nil {
		if err := h.Cookies.Clear(w, r); err != nil {
			h.Logger.Warn("failed to clear session cookie", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	User *Session `json:"user"`
}

// CurrentSession reports the caller's session, or a null user when signed out.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.Resolver.Resolve(r)
	if err != nil {
		h.WriteJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	h.WriteJSON(w, http.StatusOK, sessionResponse{User: s})
}

// RequireSession rejects API calls that carry no valid token.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.Resolver.Resolve(r)
		if err != nil {
			if _, ok := internal.IsAppError(err); !ok {
				err = internal.ErrAuthenticationRequired
			}
			h.WriteAppError(w, r, err)
			return
		}

		ctx := ContextWithSession(r.Context(), s)
		ctx = internal.ContextWithUserID(ctx, s.UserID)
		ctx = logger.With(ctx, "user_id", s.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
