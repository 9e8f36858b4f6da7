package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/task-gamification/internal/analytics"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"github.com/frahmantamala/task-gamification/internal/task"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) StatusCounts(ctx context.Context, businessID int64) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Select("status, COUNT(*) AS total").
		Where("business_id = ?", businessID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// EmployeeStats lists the business's employees with counters over the tasks
// assigned to them, best scorers first.
func (r *Repository) EmployeeStats(ctx context.Context, businessID int64) ([]analytics.EmployeeStats, error) {
	var rows []struct {
		ID              int64
		Name            string
		Points          int64
		TotalTasks      int64
		CompletedTasks  int64
		InProgressTasks int64
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id, users.name, users.points,
			COUNT(tasks.id) AS total_tasks,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS in_progress_tasks`,
			string(task.StatusCompleted), string(task.StatusInProgress)).
		Joins("LEFT JOIN tasks ON tasks.assignee_id = users.id").
		Where("users.business_id = ? AND users.role = ?", businessID, userDatamodel.RoleEmployee).
		Group("users.id, users.name, users.points").
		Order("users.points DESC, users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]analytics.EmployeeStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, analytics.EmployeeStats{
			ID:              row.ID,
			Name:            row.Name,
			Points:          row.Points,
			TotalTasks:      row.TotalTasks,
			CompletedTasks:  row.CompletedTasks,
			InProgressTasks: row.InProgressTasks,
		})
	}
	return stats, nil
}

func (r *Repository) CompletedSince(ctx context.Context, businessID int64, since time.Time) ([]analytics.Completion, error) {
	var rows []taskDatamodel.Task
	err := r.db.WithContext(ctx).
		Select("id", "completed_at", "points").
		Where("business_id = ? AND status = ? AND completed_at >= ?", businessID, string(task.StatusCompleted), since).
		Order("completed_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	completions := make([]analytics.Completion, 0, len(rows))
	for _, row := range rows {
		if row.CompletedAt == nil {
			continue
		}
		completions = append(completions, analytics.Completion{CompletedAt: *row.CompletedAt, Points: row.Points})
	}
	return completions, nil
}
