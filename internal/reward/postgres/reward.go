package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	rewardDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/reward"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"github.com/frahmantamala/task-gamification/internal/reward"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) ListAvailable(ctx context.Context) ([]*reward.Reward, error) {
	var rows []*rewardDatamodel.Reward
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("cost ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rewards := make([]*reward.Reward, 0, len(rows))
	for _, row := range rows {
		rewards = append(rewards, reward.FromDataModel(row))
	}
	return rewards, nil
}

func (r *RewardRepository) GetByID(ctx context.Context, id int64) (*reward.Reward, error) {
	var row rewardDatamodel.Reward
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRewardNotFound
		}
		return nil, err
	}
	return reward.FromDataModel(&row), nil
}

// Redeem debits the reward cost and records the redemption in one
// transaction. The debit only matches while points >= cost.
func (r *RewardRepository) Redeem(ctx context.Context, rewardID, userID int64) (*reward.RedeemResult, error) {
	var result *reward.RedeemResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rw rewardDatamodel.Reward
		if err := tx.First(&rw, rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrRewardNotFound
			}
			return err
		}
		if !rw.IsAvailable {
			return internal.ErrRewardUnavailable
		}

		res := tx.Model(&userDatamodel.User{}).
			Where("id = ? AND points >= ?", userID, rw.Cost).
			UpdateColumn("points", gorm.Expr("points - ?", rw.Cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&userDatamodel.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return internal.ErrUserNotFound
			}
			return internal.ErrInsufficientPoints
		}

		row := rewardDatamodel.Redemption{
			UserID:      userID,
			RewardID:    rw.ID,
			PointsSpent: rw.Cost,
			Reference:   uuid.NewString(),
			RedeemedAt:  time.Now(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&userDatamodel.User{}).Where("id = ?", userID).Pluck("points", &remaining).Error; err != nil {
			return err
		}

		redemption := reward.RedemptionFromDataModel(&row)
		redemption.RewardName = rw.Name
		result = &reward.RedeemResult{Redemption: redemption, PointsRemaining: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RewardRepository) ListRedemptions(ctx context.Context, userID int64, limit int) ([]*reward.Redemption, error) {
	type redemptionRow struct {
		rewardDatamodel.Redemption
		RewardName string
	}

	var rows []redemptionRow
	err := r.db.WithContext(ctx).
		Table("reward_redemptions").
		Select("reward_redemptions.*, rewards.name AS reward_name").
		Joins("JOIN rewards ON rewards.id = reward_redemptions.reward_id").
		Where("reward_redemptions.user_id = ?", userID).
		Order("reward_redemptions.redeemed_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*reward.Redemption, 0, len(rows))
	for i := range rows {
		red := reward.RedemptionFromDataModel(&rows[i].Redemption)
		red.RewardName = rows[i].RewardName
		out = append(out, red)
	}
	return out, nil
}

// Create inserts a reward; a taken name is ErrRewardExists.
func (r *RewardRepository) Create(ctx context.Context, rw *reward.Reward) (*reward.Reward, error) {
	row := reward.ToDataModel(rw)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, internal.ErrRewardExists
	}
	return reward.FromDataModel(row), nil
}

func (r *RewardRepository) SetAvailability(ctx context.Context, id int64, available bool) (*reward.Reward, error) {
	res := r.db.WithContext(ctx).Model(&rewardDatamodel.Reward{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_available": available, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, internal.ErrRewardNotFound
	}
	return r.GetByID(ctx, id)
}

// Seed inserts rewards that are not in the table yet.
func (r *RewardRepository) Seed(ctx context.Context, rewards []*reward.Reward) (int64, error) {
	rows := make([]*rewardDatamodel.Reward, 0, len(rewards))
	for _, rw := range rewards {
		rows = append(rows, reward.ToDataModel(rw))
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows)
	return res.RowsAffected, res.Error
}
