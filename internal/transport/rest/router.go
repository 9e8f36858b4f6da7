package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/task-gamification/internal/achievement"
	"github.com/frahmantamala/task-gamification/internal/analytics"
	"github.com/frahmantamala/task-gamification/internal/activity"
	"github.com/frahmantamala/task-gamification/internal/auth"
	"github.com/frahmantamala/task-gamification/internal/leaderboard"
	"github.com/frahmantamala/task-gamification/internal/reward"
	"github.com/frahmantamala/task-gamification/internal/task"
	"github.com/frahmantamala/task-gamification/internal/transport/middleware"
	"github.com/frahmantamala/task-gamification/internal/transport/swagger"
	"github.com/frahmantamala/task-gamification/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Health      *HealthHandler
	Pages       *PageHandler
	Auth        *auth.Handler
	User        *user.Handler
	Task        *task.Handler
	Achievement *achievement.Handler
	Activity    *activity.Handler
	Reward      *reward.Handler
	Leaderboard *leaderboard.Handler
	Analytics   *analytics.Handler
}

type Options struct {
	AllowedOrigins []string
	OpenAPIPath    string
	Gate           *middleware.AccessGate
	Logger         *slog.Logger
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	if opts.Gate != nil {
		router.Use(opts.Gate.Handler)
	}

	if opts.OpenAPIPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	if h.Pages != nil {
		registerPages(router, h.Pages)
	}

	if h.Auth != nil {
		router.Route("/api/auth", func(r chi.Router) {
			r.Post("/signin", h.Auth.SignIn)
			r.Post("/signup", h.Auth.SignUp)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/signout", h.Auth.SignOut)
			r.Get("/session", h.Auth.CurrentSession)
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireSession)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Get("/users/me/dashboard", h.User.GetDashboard)
			}

			if h.Activity != nil {
				pr.Post("/user/activity", h.Activity.RecordActivity)
			}

			if h.Task != nil {
				pr.Route("/tasks", func(tr chi.Router) {
					tr.Get("/", h.Task.ListTasks)
					tr.Get("/{id}", h.Task.GetTask)
					tr.Post("/{id}/assign", h.Task.AssignTask)
					tr.Post("/{id}/complete", h.Task.CompleteTask)

					tr.Group(func(mr chi.Router) {
						mr.Use(auth.RequireManager())
						mr.Post("/", h.Task.CreateTask)
						mr.Post("/{id}/cancel", h.Task.CancelTask)
					})
				})
			}

			if h.Achievement != nil {
				pr.Get("/achievements", h.Achievement.GetAchievements)
			}

			if h.Reward != nil {
				pr.Route("/rewards", func(rr chi.Router) {
					rr.Get("/", h.Reward.GetRewards)
					rr.Get("/redemptions", h.Reward.GetRedemptions)
					rr.Post("/{id}/redeem", h.Reward.RedeemReward)
				})
			}

			if h.Leaderboard != nil {
				pr.Get("/leaderboard", h.Leaderboard.GetLeaderboard)
			}

			if h.Analytics != nil {
				pr.With(auth.RequireManager()).Get("/manager/analytics", h.Analytics.GetAnalytics)
			}

			if h.Reward != nil {
				pr.Route("/admin", func(ar chi.Router) {
					ar.Use(auth.RequireAdmin())
					ar.Post("/rewards", h.Reward.CreateReward)
					ar.Patch("/rewards/{id}", h.Reward.UpdateAvailability)
				})
			}
		})
	})
}

func registerPages(router chi.Router, pages *PageHandler) {
	router.Get("/", pages.Render("home"))
	router.Get("/about", pages.Render("about"))
	router.Get("/auth/signin", pages.Render("signin"))
	router.Get("/auth/signup", pages.Render("signup"))

	for _, name := range []string{"dashboard", "tasks", "rewards", "leaderboard", "achievements", "onboarding", "manager", "admin"} {
		router.Get("/"+name, pages.Render(name))
		router.Get("/"+name+"/*", pages.Render(name))
	}
}
