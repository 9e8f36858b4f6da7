package task

import (
	"time"

	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var allStatuses = []Status{StatusOpen, StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func StatusNames() []string {
	names := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		names[i] = string(s)
	}
	return names
}

// Terminal statuses never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Assignable statuses can move to IN_PROGRESS.
func AssignableStatuses() []string {
	return []string{string(StatusOpen), string(StatusPending)}
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int64      `json:"points"`
	Status      Status     `json:"status"`
	BusinessID  *int64     `json:"businessId,omitempty"`
	CreatorID   int64      `json:"creatorId"`
	AssigneeID  *int64     `json:"assigneeId,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) IsAssignedTo(userID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

func (t *Task) CanBeAssigned() bool {
	return t.Status == StatusOpen || t.Status == StatusPending
}

// Actor is the caller acting on tasks.
type Actor struct {
	UserID     int64
	Role       string
	BusinessID *int64
}

func (a Actor) IsManager() bool {
	return a.Role == userDatamodel.RoleManager
}

func NewTask(dto CreateTaskDTO, actor Actor) *Task {
	now := time.Now()
	return &Task{
		Title:       dto.Title,
		Description: dto.Description,
		Points:      dto.Points,
		Status:      StatusOpen,
		BusinessID:  actor.BusinessID,
		CreatorID:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Points:      t.Points,
		Status:      string(t.Status),
		BusinessID:  t.BusinessID,
		CreatorID:   t.CreatorID,
		AssigneeID:  t.AssigneeID,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	return &Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Points:      t.Points,
		Status:      Status(t.Status),
		BusinessID:  t.BusinessID,
		CreatorID:   t.CreatorID,
		AssigneeID:  t.AssigneeID,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
