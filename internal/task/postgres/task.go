package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	"github.com/frahmantamala/task-gamification/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements task.RepositoryAPI using GORM
type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// Create stores t and evaluates the creator's achievements in the same
// transaction, since TASKS_CREATED depends on it.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) ([]achievement.Achievement, error) {
	var unlocked []achievement.Achievement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := task.ToDataModel(t)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		t.ID = row.ID
		t.CreatedAt = row.CreatedAt
		t.UpdatedAt = row.UpdatedAt

		if err := achievementPostgres.CreditPoints(tx, t.CreatorID, 0); err != nil {
			return err
		}

		var err error
		unlocked, err = achievementPostgres.EvaluateTx(tx, t.CreatorID, r.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	row, err := getTask(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return task.FromDataModel(row), nil
}

// List returns tasks newest first.
func (r *TaskRepository) List(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	q := r.db.WithContext(ctx).Model(&taskDatamodel.Task{})
	if filter.BusinessID != nil {
		q = q.Where("business_id = ?", *filter.BusinessID)
	} else {
		q = q.Where("business_id IS NULL")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var rows []*taskDatamodel.Task
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, task.FromDataModel(row))
	}
	return tasks, nil
}

// Assign moves an OPEN or PENDING task to IN_PROGRESS for userID. The status
// guard lives in the UPDATE so two concurrent claims cannot both win.
func (r *TaskRepository) Assign(ctx context.Context, taskID, userID int64) (*task.Task, error) {
	var out *task.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&taskDatamodel.Task{}).
			Where("id = ? AND status IN ?", taskID, task.AssignableStatuses()).
			Updates(map[string]interface{}{
				"assignee_id": userID,
				"status":      string(task.StatusInProgress),
				"updated_at":  r.now(),
			})
		if res.Error != nil {
			return res.Error
		}

		row, err := getTask(tx, taskID)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return internal.ErrTaskNotAvailable
		}
		out = task.FromDataModel(row)
		return nil
	})
	return out, err
}

// Complete is the completion workflow. Everything happens in one
// transaction:
//   - a guarded UPDATE flips the task to COMPLETED only if it is still open
//     and assigned to userID, so a second completion of the same task loses
//   - the task's points are credited to the user
//   - achievements are evaluated and their bonus credited
//
// Any error rolls the whole thing back.
func (r *TaskRepository) Complete(ctx context.Context, taskID, userID int64) (*task.CompletionResult, error) {
	var result *task.CompletionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now()

		res := tx.Model(&taskDatamodel.Task{}).
			Where("id = ? AND assignee_id = ? AND status NOT IN ?", taskID, userID,
				[]string{string(task.StatusCompleted), string(task.StatusCancelled)}).
			Updates(map[string]interface{}{
				"status":       string(task.StatusCompleted),
				"completed_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}

		row, err := getTask(tx, taskID)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return completionRejection(row, userID)
		}

		if err := achievementPostgres.CreditPoints(tx, userID, row.Points); err != nil {
			return err
		}

		unlocked, err := achievementPostgres.EvaluateTx(tx, userID, now)
		if err != nil {
			return err
		}

		if unlocked == nil {
			unlocked = []achievement.Achievement{}
		}
		result = &task.CompletionResult{
			Task:            task.FromDataModel(row),
			PointsEarned:    row.Points + achievement.Bonus(unlocked),
			NewAchievements: unlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel moves a task that is not yet terminal to CANCELLED.
func (r *TaskRepository) Cancel(ctx context.Context, taskID int64) (*task.Task, error) {
	var out *task.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&taskDatamodel.Task{}).
			Where("id = ? AND status NOT IN ?", taskID,
				[]string{string(task.StatusCompleted), string(task.StatusCancelled)}).
			Updates(map[string]interface{}{
				"status":     string(task.StatusCancelled),
				"updated_at": r.now(),
			})
		if res.Error != nil {
			return res.Error
		}

		row, err := getTask(tx, taskID)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			if task.Status(row.Status) == task.StatusCompleted {
				return internal.ErrTaskAlreadyCompleted
			}
			return internal.ErrTaskCancelled
		}
		out = task.FromDataModel(row)
		return nil
	})
	return out, err
}

// completionRejection explains why the guarded update matched nothing.
func completionRejection(row *taskDatamodel.Task, userID int64) error {
	switch {
	case task.Status(row.Status) == task.StatusCompleted:
		return internal.ErrTaskAlreadyCompleted
	case task.Status(row.Status) == task.StatusCancelled:
		return internal.ErrTaskCancelled
	default:
		return internal.ErrTaskNotAssigned
	}
}

func getTask(db *gorm.DB, id int64) (*taskDatamodel.Task, error) {
	var row taskDatamodel.Task
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTaskNotFound
		}
		return nil, err
	}
	return &row, nil
}
