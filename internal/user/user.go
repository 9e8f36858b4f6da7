package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
)

type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Points     int64     `json:"points"`
	BusinessID *int64    `json:"businessId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) IsManager() bool {
	return u.Role == userDatamodel.RoleManager
}

func (u *User) IsAdmin() bool {
	return u.Role == userDatamodel.RoleAdmin
}

func (u *User) HasBusiness() bool {
	return u.BusinessID != nil
}

type TaskCounts struct {
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"inProgress"`
}

type RecentAchievement struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	Points     int64     `json:"points"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

type Dashboard struct {
	User               *User               `json:"user"`
	Tasks              TaskCounts          `json:"tasks"`
	ActiveDays         int64               `json:"activeDays"`
	RecentAchievements []RecentAchievement `json:"recentAchievements"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Points:     u.Points,
		BusinessID: u.BusinessID,
		CreatedAt:  u.CreatedAt,
	}
}
