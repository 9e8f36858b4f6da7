package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/pkg/logger"
)

type RouteClass int

const (
	RouteOther RouteClass = iota
	RouteAsset
	RoutePublic
	RouteProtected
)

var (
	publicAssets = []string{
		"/manifest.json",
		"/icon-192x192.png",
		"/icon-512x512.png",
		"/icon.png",
		"/favicon.ico",
		"/screenshots",
	}

	publicPaths = []string{
		"/about",
		auth.SignInPath,
		"/auth/signup",
		"/api/auth",
	}

	protectedPaths = []string{
		"/dashboard",
		"/tasks",
		"/rewards",
		"/leaderboard",
		"/manager",
		"/onboarding",
		"/achievements",
		"/admin",
	}

	roleRestricted = map[string]auth.Role{
		"/admin":   auth.RoleAdmin,
		"/manager": auth.RoleManager,
	}
)

func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if matchesPrefix(path, p) {
			return true
		}
	}
	return false
}

// Classify places a request path in the first matching class. "/" is only
// public as an exact match.
func Classify(path string) RouteClass {
	switch {
	case matchesAny(path, publicAssets):
		return RouteAsset
	case path == "/" || matchesAny(path, publicPaths):
		return RoutePublic
	case matchesAny(path, protectedPaths):
		return RouteProtected
	}
	return RouteOther
}

// RequiredRole reports the role a path is restricted to, if any.
func RequiredRole(path string) (auth.Role, bool) {
	for prefix, role := range roleRestricted {
		if matchesPrefix(path, prefix) {
			return role, true
		}
	}
	return "", false
}

type SessionResolver interface {
	Resolve(r *http.Request) (*auth.Session, error)
}

type ActivityTracker interface {
	Track(userID int64) bool
}

// AccessGate decides per request whether it may proceed, must sign in first,
// or lacks the role for the area. Signed-in traffic is handed to the activity
// tracker once the downstream handler is done.
type AccessGate struct {
	resolver SessionResolver
	tracker  ActivityTracker
	logger   *slog.Logger
}

func NewAccessGate(resolver SessionResolver, tracker ActivityTracker, logger *slog.Logger) *AccessGate {
	return &AccessGate{
		resolver: resolver,
		tracker:  tracker,
		logger:   logger,
	}
}

func (g *AccessGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		class := Classify(path)

		if class == RouteAsset {
			next.ServeHTTP(w, r)
			return
		}

		session := g.session(r)

		if session != nil && matchesPrefix(path, auth.SignInPath) {
			http.Redirect(w, r, auth.LandingURL(session, r.URL.Query().Get("callbackUrl")), http.StatusFound)
			return
		}

		if class == RouteProtected {
			if session == nil {
				http.Redirect(w, r, signInURL(r), http.StatusFound)
				return
			}
			if role, ok := RequiredRole(path); ok && !auth.HasRole(session, role) {
				g.logger.WarnContext(r.Context(), "gate: role required",
					"path", path,
					"user_id", session.UserID,
					"role", session.Role,
					"required", role)
				http.Redirect(w, r, auth.DefaultLoginPath, http.StatusFound)
				return
			}
		}

		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.ContextWithSession(r.Context(), session)
		ctx = internal.ContextWithUserID(ctx, session.UserID)
		ctx = logger.With(ctx, "user_id", session.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))

		if g.tracker != nil {
			g.tracker.Track(session.UserID)
		}
	})
}

// session never fails the request; an invalid token is just anonymous.
func (g *AccessGate) session(r *http.Request) *auth.Session {
	if g.resolver == nil {
		return nil
	}
	s, err := g.resolver.Resolve(r)
	if err != nil || !auth.IsAuthenticated(s) {
		return nil
	}
	return s
}

func signInURL(r *http.Request) string {
	return auth.SignInPath + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
}
