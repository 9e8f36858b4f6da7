package business

import "time"

type Business struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	OwnerID   *int64    `gorm:"column:owner_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Business) TableName() string {
	return "businesses"
}
