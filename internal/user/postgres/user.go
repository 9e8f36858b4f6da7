package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/task-gamification/internal"
	activityDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/activity"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"github.com/frahmantamala/task-gamification/internal/task"
	"github.com/frahmantamala/task-gamification/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).First(&row, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) TaskCounts(ctx context.Context, userID int64) (user.TaskCounts, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Select("status, COUNT(*) AS total").
		Where("assignee_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return user.TaskCounts{}, err
	}

	var counts user.TaskCounts
	for _, row := range rows {
		switch row.Status {
		case string(task.StatusCompleted):
			counts.Completed = row.Total
		case string(task.StatusInProgress):
			counts.InProgress = row.Total
		}
	}
	return counts, nil
}

func (r *Repository) ActiveDays(ctx context.Context, userID int64) (int64, error) {
	var days int64
	err := r.db.WithContext(ctx).
		Model(&activityDatamodel.UserActivityLog{}).
		Where("user_id = ?", userID).
		Count(&days).Error
	return days, err
}

func (r *Repository) RecentAchievements(ctx context.Context, userID int64, limit int) ([]user.RecentAchievement, error) {
	var recent []user.RecentAchievement
	err := r.db.WithContext(ctx).
		Table("user_achievements").
		Select("achievements.id, achievements.name, achievements.icon, achievements.points, user_achievements.unlocked_at").
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.unlocked_at DESC").
		Limit(limit).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	return recent, nil
}
