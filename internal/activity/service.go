package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	"github.com/frahmantamala/task-gamification/internal/core/events"
)

type RepositoryAPI interface {
	// RecordDay stores day for userID and evaluates achievements when the
	// row is new. recorded is false when the day was already logged.
	RecordDay(ctx context.Context, userID int64, day time.Time) (recorded bool, unlocked []achievement.Achievement, err error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Record logs today's activity for userID. Repeated calls on the same day
// are no-ops.
func (s *Service) Record(ctx context.Context, userID int64) (*RecordResult, error) {
	if userID == 0 {
		return nil, internal.ErrAuthenticationRequired
	}

	day := Day(s.now())
	recorded, unlocked, err := s.repo.RecordDay(ctx, userID, day)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.ErrorContext(ctx, "failed to record activity", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to record activity", err)
	}

	if recorded {
		s.logger.DebugContext(ctx, "activity recorded", "user_id", userID, "day", day.Format(time.DateOnly))
	}

	if s.publisher != nil {
		for _, a := range unlocked {
			if err := s.publisher.Publish(ctx, events.NewAchievementUnlockedEvent(a.ID, a.Name, userID, a.Points)); err != nil {
				s.logger.WarnContext(ctx, "failed to publish achievement unlocked event", "achievement_id", a.ID, "error", err)
			}
		}
	}

	return &RecordResult{
		Success:         true,
		Recorded:        recorded,
		Day:             day,
		NewAchievements: unlocked,
	}, nil
}
