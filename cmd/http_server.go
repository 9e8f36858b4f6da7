package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	"github.com/frahmantamala/task-gamification/internal/activity"
	activityPostgres "github.com/frahmantamala/task-gamification/internal/activity/postgres"
	"github.com/frahmantamala/task-gamification/internal/analytics"
	analyticsPostgres "github.com/frahmantamala/task-gamification/internal/analytics/postgres"
	"github.com/frahmantamala/task-gamification/internal/auth"
	authPostgres "github.com/frahmantamala/task-gamification/internal/auth/postgres"
	"github.com/frahmantamala/task-gamification/internal/core/events"
	"github.com/frahmantamala/task-gamification/internal/core/worker"
	"github.com/frahmantamala/task-gamification/internal/leaderboard"
	leaderboardPostgres "github.com/frahmantamala/task-gamification/internal/leaderboard/postgres"
	"github.com/frahmantamala/task-gamification/internal/reward"
	rewardPostgres "github.com/frahmantamala/task-gamification/internal/reward/postgres"
	"github.com/frahmantamala/task-gamification/internal/task"
	taskPostgres "github.com/frahmantamala/task-gamification/internal/task/postgres"
	"github.com/frahmantamala/task-gamification/internal/transport"
	"github.com/frahmantamala/task-gamification/internal/transport/middleware"
	"github.com/frahmantamala/task-gamification/internal/transport/rest"
	"github.com/frahmantamala/task-gamification/internal/transport/swagger"
	"github.com/frahmantamala/task-gamification/internal/user"
	userPostgres "github.com/frahmantamala/task-gamification/internal/user/postgres"
	"github.com/frahmantamala/task-gamification/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const leaderboardCacheTTL = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API and page requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Bus    *events.EventBus
	Pool   *worker.Pool
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

// close drains background work before the database goes away.
func (d *Dependencies) close() {
	d.Pool.Shutdown()
	d.Bus.Wait()
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	db := deps.Gorm
	base := transport.NewBaseHandler(lg)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(db), tokens, cfg.Security.BCryptCost, lg)
	cookies := auth.NewCookieStore(cfg.Security.SessionSecret, cfg.Security.SecureCookie, cfg.Security.AccessTokenDuration)
	authHandler := auth.NewHandler(authService, cookies)

	activityService := activity.NewService(activityPostgres.NewRepository(db), deps.Bus, lg)
	tracker := activity.NewTracker(activityService, deps.Pool, lg)

	leaderboardService := leaderboard.NewService(
		leaderboardPostgres.NewRepository(deps.DB),
		leaderboard.NewCache(leaderboardCacheTTL),
		lg,
	)
	leaderboardService.RegisterEventHandlers(deps.Bus)
	registerAuditHandlers(deps.Bus, lg)

	openAPIPath := ""
	if cfg.Server.OpenAPIPath != "" {
		if _, err := swagger.LoadSpec(context.Background(), cfg.Server.OpenAPIPath); err != nil {
			lg.Warn("openapi spec unavailable, docs disabled", "path", cfg.Server.OpenAPIPath, "error", err)
		} else {
			openAPIPath = cfg.Server.OpenAPIPath
		}
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:      rest.NewHealthHandler(base, deps.DB.DB, deps.Pool),
		Pages:       rest.NewPageHandler(base),
		Auth:        authHandler,
		User:        user.NewHandler(base, user.NewService(userPostgres.NewRepository(db), lg)),
		Task:        task.NewHandler(task.NewService(taskPostgres.NewTaskRepository(db), deps.Bus, lg)),
		Achievement: achievement.NewHandler(base, achievement.NewService(achievementPostgres.NewRepository(db), lg)),
		Activity:    activity.NewHandler(base, activityService),
		Reward:      reward.NewHandler(base, reward.NewService(rewardPostgres.NewRewardRepository(db), deps.Bus, lg)),
		Leaderboard: leaderboard.NewHandler(base, leaderboardService),
		Analytics:   analytics.NewHandler(base, analytics.NewService(analyticsPostgres.NewRepository(db), lg)),
	}, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPIPath:    openAPIPath,
		Gate:           middleware.NewAccessGate(authHandler.Resolver, tracker, lg),
		Logger:         lg,
	})
}

// registerAuditHandlers logs domain events for the audit trail.
func registerAuditHandlers(bus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		lg.InfoContext(ctx, "domain event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"user_id", event.UserID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
	bus.SubscribeMany(events.ScoreEventTypes, audit)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	pool := worker.NewPool(worker.Config{
		Name:         "activity",
		MaxWorkers:   config.Activity.Workers,
		JobQueueSize: config.Activity.QueueSize,
		JobTimeout:   config.Activity.JobTimeout,
	}, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
		Bus:    events.NewEventBus(lg),
		Pool:   pool,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm so both sides see the
// same limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}
