package leaderboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/core/events"
)

type RepositoryAPI interface {
	Top(ctx context.Context, limit int, since *time.Time) ([]*Entry, error)
}

type Service struct {
	repo   RepositoryAPI
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the service. A nil cache disables caching.
func NewService(repo RepositoryAPI, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Get(ctx context.Context, period Period) ([]*Entry, error) {
	if s.cache != nil {
		if entries, ok := s.cache.Get(period); ok {
			return entries, nil
		}
	}

	var since *time.Time
	if t, ok := period.Since(s.now()); ok {
		since = &t
	}

	entries, err := s.repo.Top(ctx, Size, since)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load leaderboard", "period", period, "error", err)
		return nil, internal.NewInternalError("failed to fetch leaderboard", err)
	}

	if s.cache != nil {
		s.cache.Set(period, entries)
	}
	return entries, nil
}

// RegisterEventHandlers drops cached boards whenever points or achievements move.
func (s *Service) RegisterEventHandlers(bus *events.EventBus) {
	if s.cache == nil {
		return
	}

	invalidate := func(ctx context.Context, event events.Event) error {
		s.cache.Invalidate()
		s.logger.DebugContext(ctx, "leaderboard cache invalidated", "event_type", event.EventType(), "event_id", event.EventID())
		return nil
	}

	bus.SubscribeMany(events.ScoreEventTypes, invalidate)
}
