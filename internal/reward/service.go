package reward

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/core/events"
)

type RepositoryAPI interface {
	ListAvailable(ctx context.Context) ([]*Reward, error)
	Redeem(ctx context.Context, rewardID, userID int64) (*RedeemResult, error)
	ListRedemptions(ctx context.Context, userID int64, limit int) ([]*Redemption, error)
	Create(ctx context.Context, r *Reward) (*Reward, error)
	SetAvailability(ctx context.Context, id int64, available bool) (*Reward, error)
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

func (s *Service) ListRewards(ctx context.Context) ([]*Reward, error) {
	rewards, err := s.repo.ListAvailable(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get rewards from repository", "error", err)
		return nil, internal.NewInternalError("failed to list rewards", err)
	}
	return rewards, nil
}

// Redeem spends the user's points on a reward. The balance check and the
// debit are one guarded statement, so the balance never goes negative.
func (s *Service) Redeem(ctx context.Context, rewardID, userID int64) (*RedeemResult, error) {
	if userID == 0 {
		return nil, internal.ErrAuthenticationRequired
	}

	result, err := s.repo.Redeem(ctx, rewardID, userID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			s.logger.InfoContext(ctx, "redemption rejected", "reward_id", rewardID, "user_id", userID, "code", appErr.Code)
			return nil, appErr
		}
		s.logger.ErrorContext(ctx, "failed to redeem reward", "reward_id", rewardID, "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to redeem reward", err)
	}

	s.logger.InfoContext(ctx, "reward redeemed",
		"reward_id", rewardID,
		"user_id", userID,
		"points_spent", result.Redemption.PointsSpent,
		"points_remaining", result.PointsRemaining,
		"reference", result.Redemption.Reference)

	if s.publisher != nil {
		event := events.NewRewardRedeemedEvent(rewardID, userID, result.Redemption.PointsSpent, result.Redemption.Reference)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish reward redeemed event", "error", err)
		}
	}
	return result, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]*Redemption, error) {
	redemptions, err := s.repo.ListRedemptions(ctx, userID, 50)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list redemptions", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list redemptions", err)
	}
	return redemptions, nil
}

// CreateReward adds a reward to the catalogue. Names are unique.
func (s *Service) CreateReward(ctx context.Context, dto CreateRewardDTO) (*Reward, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.Create(ctx, NewReward(dto.Name, dto.Description, dto.Cost))
	if err != nil {
		return nil, s.catalogueError(ctx, "failed to create reward", err)
	}
	s.logger.InfoContext(ctx, "reward created", "reward_id", created.ID, "name", created.Name, "cost", created.Cost)
	return created, nil
}

func (s *Service) SetAvailability(ctx context.Context, id int64, dto AvailabilityDTO) (*Reward, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	updated, err := s.repo.SetAvailability(ctx, id, *dto.IsAvailable)
	if err != nil {
		return nil, s.catalogueError(ctx, "failed to update reward", err)
	}
	s.logger.InfoContext(ctx, "reward availability changed", "reward_id", id, "is_available", updated.IsAvailable)
	return updated, nil
}

func (s *Service) catalogueError(ctx context.Context, msg string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.ErrorContext(ctx, msg, "error", err)
	return internal.NewInternalError(msg, err)
}
