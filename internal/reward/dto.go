package reward

import (
	"strings"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/core/common/validation"
)

type RewardsResponse struct {
	Rewards []*Reward `json:"rewards"`
}

type RedeemResult struct {
	Redemption      *Redemption `json:"redemption"`
	PointsRemaining int64       `json:"pointsRemaining"`
}

type RedemptionsResponse struct {
	Redemptions []*Redemption `json:"redemptions"`
}

type CreateRewardDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
}

func (d *CreateRewardDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreateRewardDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("description", d.Description).MaxLength(validation.MaxDescriptionLength)
	v.Field("cost", d.Cost).MinInt(1, internal.ErrCodeValidationFailed)
	return v.Validate()
}

// AvailabilityDTO toggles whether a reward can be redeemed.
type AvailabilityDTO struct {
	IsAvailable *bool `json:"isAvailable"`
}

func (d AvailabilityDTO) Validate() *internal.AppError {
	if d.IsAvailable == nil {
		return internal.NewValidationFieldError("isAvailable", "isAvailable is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
