package task

import (
	"strings"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	"github.com/frahmantamala/task-gamification/internal/core/common/validation"
)

type CreateTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int64  `json:"points"`
}

func (d *CreateTaskDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreateTaskDTO) Validate() *internal.AppError {
	if appErr := validation.ValidateTaskTitle(d.Title); appErr != nil {
		return appErr
	}
	v := validation.NewValidator()
	v.Field("description", d.Description).Required().MaxLength(validation.MaxDescriptionLength)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return validation.ValidateTaskPoints(d.Points)
}

// ListFilter narrows a task listing. BusinessID scopes the listing to one
// business; nil means tasks that belong to no business.
type ListFilter struct {
	BusinessID *int64
	Status     Status
	AssigneeID *int64
}

type TasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

// CompletionResult is what a successful completion returns.
type CompletionResult struct {
	Task            *Task                     `json:"task"`
	PointsEarned    int64                     `json:"pointsEarned"`
	NewAchievements []achievement.Achievement `json:"newAchievements"`
}

