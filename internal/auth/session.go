package auth

import (
	"context"
	"strings"

	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
)

type Role string

const (
	RoleEmployee Role = userDatamodel.RoleEmployee
	RoleManager  Role = userDatamodel.RoleManager
	RoleAdmin    Role = userDatamodel.RoleAdmin
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Session is the verified identity carried by a request. It is built from
// token claims and passed explicitly through the request context.
type Session struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       Role   `json:"role"`
	Points     int64  `json:"points"`
	BusinessID *int64 `json:"businessId,omitempty"`
}

func (s *Session) HasBusiness() bool {
	return s != nil && s.BusinessID != nil
}

func IsAuthenticated(s *Session) bool {
	return s != nil && s.UserID != 0
}

func HasRole(s *Session, role Role) bool {
	return IsAuthenticated(s) && s.Role == role
}

func HasAnyRole(s *Session, roles ...Role) bool {
	if !IsAuthenticated(s) {
		return false
	}
	for _, role := range roles {
		if s.Role == role {
			return true
		}
	}
	return false
}

type ctxKey string

const sessionKey ctxKey = "session"

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

const (
	SignInPath       = "/auth/signin"
	DefaultLoginPath = "/dashboard"
	OnboardingPath   = "/onboarding"
)

// LandingURL is where a signed-in user goes after sign-in. Users outside any
// business are sent to onboarding once, here; later visits are not redirected.
func LandingURL(s *Session, callback string) string {
	if !s.HasBusiness() {
		return OnboardingPath
	}
	return RedirectURL(callback)
}

// RedirectURL returns callback only when it is a local path that does not
// loop back to sign-in; anything else lands on the dashboard.
func RedirectURL(callback string) string {
	if callback == "" || strings.Contains(callback, SignInPath) {
		return DefaultLoginPath
	}
	if !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") || strings.Contains(callback, `\`) {
		return DefaultLoginPath
	}
	return callback
}
