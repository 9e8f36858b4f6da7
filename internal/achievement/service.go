package achievement

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/task-gamification/internal"
)

type RepositoryAPI interface {
	ListForUser(ctx context.Context, userID int64) ([]Progress, error)
	Evaluate(ctx context.Context, userID int64) ([]Achievement, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListForUser(ctx context.Context, userID int64) (*AchievementsResponse, error) {
	progress, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list achievements", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list achievements", err)
	}

	unlocked := 0
	for _, p := range progress {
		if p.Unlocked {
			unlocked++
		}
	}

	return &AchievementsResponse{
		Achievements: progress,
		Unlocked:     unlocked,
		Total:        len(progress),
	}, nil
}

// Reconcile re-runs evaluation outside of a task completion, e.g. after the
// catalogue changed.
func (s *Service) Reconcile(ctx context.Context, userID int64) ([]Achievement, error) {
	unlocked, err := s.repo.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(unlocked) > 0 {
		s.logger.InfoContext(ctx, "achievements unlocked on reconcile", "user_id", userID, "count", len(unlocked))
	}
	return unlocked, nil
}
