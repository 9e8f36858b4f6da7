package achievement

import "time"

type Achievement struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	Description string `gorm:"column:description"`
	Icon        string `gorm:"column:icon"`
	Type        string `gorm:"column:type;not null;index"`
	Threshold   int64  `gorm:"column:threshold;not null"`
	Points      int64  `gorm:"column:points;not null"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement rows are unique per (user_id, achievement_id); inserts rely on it.
type UserAchievement struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex:uq_user_achievement"`
	AchievementID int64     `gorm:"column:achievement_id;not null;uniqueIndex:uq_user_achievement"`
	UnlockedAt    time.Time `gorm:"column:unlocked_at;not null"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
