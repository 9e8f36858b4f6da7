package task

import "time"

type Task struct {
	ID          int64      `gorm:"primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;not null"`
	Points      int64      `gorm:"column:points;not null"`
	Status      string     `gorm:"column:status;not null;index"`
	BusinessID  *int64     `gorm:"column:business_id;index"`
	CreatorID   int64      `gorm:"column:creator_id;not null;index"`
	AssigneeID  *int64     `gorm:"column:assignee_id;index"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
