package reward

import "time"

type Reward struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Cost        int64     `gorm:"column:cost;not null"`
	IsAvailable bool      `gorm:"column:is_available;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reward) TableName() string {
	return "rewards"
}

type Redemption struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	RewardID    int64     `gorm:"column:reward_id;not null;index"`
	PointsSpent int64     `gorm:"column:points_spent;not null"`
	Reference   string    `gorm:"column:reference;uniqueIndex;not null"`
	RedeemedAt  time.Time `gorm:"column:redeemed_at;not null"`
}

func (Redemption) TableName() string {
	return "reward_redemptions"
}
