package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/task-gamification/internal"
	"golang.org/x/sync/errgroup"
)

const recentAchievementLimit = 5

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	TaskCounts(ctx context.Context, userID int64) (TaskCounts, error)
	ActiveDays(ctx context.Context, userID int64) (int64, error)
	RecentAchievements(ctx context.Context, userID int64, limit int) ([]RecentAchievement, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.wrap(ctx, "failed to get user by id", userID, err)
	}
	return u, nil
}

// Dashboard loads the profile and its counters concurrently. The first
// failing query cancels the others.
func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	dashboard := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.repo.GetByID(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.User = u
		return nil
	})
	g.Go(func() error {
		counts, err := s.repo.TaskCounts(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.Tasks = counts
		return nil
	})
	g.Go(func() error {
		days, err := s.repo.ActiveDays(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.ActiveDays = days
		return nil
	})
	g.Go(func() error {
		recent, err := s.repo.RecentAchievements(gctx, userID, recentAchievementLimit)
		if err != nil {
			return err
		}
		dashboard.RecentAchievements = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, s.wrap(ctx, "failed to load dashboard", userID, err)
	}
	if dashboard.RecentAchievements == nil {
		dashboard.RecentAchievements = []RecentAchievement{}
	}
	return dashboard, nil
}

func (s *Service) wrap(ctx context.Context, msg string, userID int64, err error) error {
	if errors.Is(err, internal.ErrUserNotFound) {
		return internal.ErrUserNotFound
	}
	s.logger.ErrorContext(ctx, msg, "user_id", userID, "error", err)
	return internal.NewInternalError(msg, err)
}
