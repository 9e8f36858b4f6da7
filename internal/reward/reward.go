package reward

import (
	"time"

	rewardDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/reward"
)

type Reward struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cost        int64     `json:"cost"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r *Reward) AffordableWith(points int64) bool {
	return points >= r.Cost
}

type Redemption struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	RewardID    int64     `json:"rewardId"`
	RewardName  string    `json:"rewardName,omitempty"`
	PointsSpent int64     `json:"pointsSpent"`
	Reference   string    `json:"reference"`
	RedeemedAt  time.Time `json:"redeemedAt"`
}

func NewReward(name, description string, cost int64) *Reward {
	now := time.Now()
	return &Reward{
		Name:        name,
		Description: description,
		Cost:        cost,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Catalogue is the seeded reward list.
func Catalogue() []*Reward {
	return []*Reward{
		NewReward("Coffee Break", "A free coffee from the office coffee machine", 100),
		NewReward("Extra Break Time", "30 minutes of extra break time", 200),
		NewReward("Team Lunch", "Free lunch with your team", 300),
		NewReward("Work From Home Day", "One day of remote work", 500),
		NewReward("Professional Development Course", "Access to an online course of your choice", 1000),
	}
}

func ToDataModel(r *Reward) *rewardDatamodel.Reward {
	return &rewardDatamodel.Reward{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Cost:        r.Cost,
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *rewardDatamodel.Reward) *Reward {
	return &Reward{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Cost:        r.Cost,
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func RedemptionFromDataModel(r *rewardDatamodel.Redemption) *Redemption {
	return &Redemption{
		ID:          r.ID,
		UserID:      r.UserID,
		RewardID:    r.RewardID,
		PointsSpent: r.PointsSpent,
		Reference:   r.Reference,
		RedeemedAt:  r.RedeemedAt,
	}
}
