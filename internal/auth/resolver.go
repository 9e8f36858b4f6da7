package auth

import (
	"net/http"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/transport"
)

type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*Session, error)
}

// Resolver turns a request into a session. The Authorization header wins
// over the session cookie.
type Resolver struct {
	Validator TokenValidator
	Cookies   *CookieStore
}

func NewResolver(validator TokenValidator, cookies *CookieStore) *Resolver {
	return &Resolver{Validator: validator, Cookies: cookies}
}

func (r *Resolver) Token(req *http.Request) string {
	if token := transport.BearerToken(req); token != "" {
		return token
	}
	return r.Cookies.Token(req)
}

func (r *Resolver) Resolve(req *http.Request) (*Session, error) {
	if s, ok := SessionFromContext(req.Context()); ok {
		return s, nil
	}
	token := r.Token(req)
	if token == "" {
		return nil, internal.ErrAuthenticationRequired
	}
	return r.Validator.ValidateAccessToken(token)
}
