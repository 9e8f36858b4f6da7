package task

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	"github.com/frahmantamala/task-gamification/internal/core/common/validation"
	"github.com/frahmantamala/task-gamification/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, t *Task) ([]achievement.Achievement, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, filter ListFilter) ([]*Task, error)
	Assign(ctx context.Context, taskID, userID int64) (*Task, error)
	Complete(ctx context.Context, taskID, userID int64) (*CompletionResult, error)
	Cancel(ctx context.Context, taskID int64) (*Task, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateTask(ctx context.Context, dto CreateTaskDTO, actor Actor) (*Task, error) {
	if !actor.IsManager() {
		s.logger.WarnContext(ctx, "create task denied: manager role required", "user_id", actor.UserID, "role", actor.Role)
		return nil, internal.ErrRoleRequired
	}

	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		s.logger.DebugContext(ctx, "task validation failed", "error", appErr, "user_id", actor.UserID)
		return nil, appErr
	}

	t := NewTask(dto, actor)
	unlocked, err := s.repo.Create(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to create task", err)
	}

	s.logger.InfoContext(ctx, "task created",
		"task_id", t.ID,
		"user_id", actor.UserID,
		"points", t.Points)

	s.publishUnlocked(ctx, actor.UserID, unlocked)
	return t, nil
}

func (s *Service) GetTask(ctx context.Context, id int64, actor Actor) (*Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to get task", id)
	}
	if !sameBusiness(t.BusinessID, actor.BusinessID) {
		return nil, internal.ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) ListTasks(ctx context.Context, actor Actor, status Status, assignedToMe bool) ([]*Task, error) {
	if appErr := validation.ValidateTaskStatus(string(status), StatusNames()); appErr != nil {
		return nil, appErr
	}

	filter := ListFilter{BusinessID: actor.BusinessID, Status: status}
	if assignedToMe {
		uid := actor.UserID
		filter.AssigneeID = &uid
	}

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks", "error", err, "user_id", actor.UserID)
		return nil, internal.NewInternalError("failed to list tasks", err)
	}
	return tasks, nil
}

func (s *Service) AssignTask(ctx context.Context, id int64, actor Actor) (*Task, error) {
	if _, err := s.GetTask(ctx, id, actor); err != nil {
		return nil, err
	}

	t, err := s.repo.Assign(ctx, id, actor.UserID)
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to assign task", id)
	}

	s.logger.InfoContext(ctx, "task assigned", "task_id", id, "user_id", actor.UserID)
	return t, nil
}

// CompleteTask runs the completion workflow and announces the outcome once
// it is committed.
func (s *Service) CompleteTask(ctx context.Context, id int64, actor Actor) (*CompletionResult, error) {
	if _, err := s.GetTask(ctx, id, actor); err != nil {
		return nil, err
	}

	result, err := s.repo.Complete(ctx, id, actor.UserID)
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to complete task", id)
	}

	s.logger.InfoContext(ctx, "task completed",
		"task_id", id,
		"user_id", actor.UserID,
		"points_earned", result.PointsEarned,
		"new_achievements", len(result.NewAchievements))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewTaskCompletedEvent(id, actor.UserID, result.PointsEarned)); err != nil {
			s.logger.WarnContext(ctx, "failed to publish task completed event", "task_id", id, "error", err)
		}
	}
	s.publishUnlocked(ctx, actor.UserID, result.NewAchievements)
	return result, nil
}

func (s *Service) CancelTask(ctx context.Context, id int64, actor Actor) (*Task, error) {
	if !actor.IsManager() {
		return nil, internal.ErrRoleRequired
	}
	if _, err := s.GetTask(ctx, id, actor); err != nil {
		return nil, err
	}

	t, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to cancel task", id)
	}

	s.logger.InfoContext(ctx, "task cancelled", "task_id", id, "user_id", actor.UserID)
	return t, nil
}

func (s *Service) publishUnlocked(ctx context.Context, userID int64, unlocked []achievement.Achievement) {
	if s.publisher == nil {
		return
	}
	for _, a := range unlocked {
		if err := s.publisher.Publish(ctx, events.NewAchievementUnlockedEvent(a.ID, a.Name, userID, a.Points)); err != nil {
			s.logger.WarnContext(ctx, "failed to publish achievement unlocked event", "achievement_id", a.ID, "error", err)
		}
	}
}

// wrap passes typed errors through and hides everything else behind a 500.
func (s *Service) wrap(ctx context.Context, err error, message string, taskID int64) error {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.ErrorContext(ctx, message, "error", err, "task_id", taskID)
	return internal.NewInternalError(message, err)
}

func sameBusiness(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
