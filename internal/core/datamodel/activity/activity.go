package activity

import "time"

// UserActivityLog holds one row per user per UTC calendar day.
type UserActivityLog struct {
	ID     int64     `gorm:"primaryKey"`
	UserID int64     `gorm:"column:user_id;not null;uniqueIndex:uq_user_activity_day"`
	Date   time.Time `gorm:"column:date;not null;uniqueIndex:uq_user_activity_day"`
}

func (UserActivityLog) TableName() string {
	return "user_activity_logs"
}
