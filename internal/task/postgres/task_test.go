package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	achievementDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/achievement"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/sqlitetest"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"github.com/frahmantamala/task-gamification/internal/task"
	taskPostgres "github.com/frahmantamala/task-gamification/internal/task/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestTaskPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TaskRepository Suite")
}

var _ = Describe("TaskRepository", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		repo     *taskPostgres.TaskRepository
		manager  userDatamodel.User
		employee userDatamodel.User
	)

	newTask := func(status task.Status, assignee *int64, points int64) *taskDatamodel.Task {
		row := &taskDatamodel.Task{
			Title:       "Write report",
			Description: "Quarterly numbers",
			Points:      points,
			Status:      string(status),
			CreatorID:   manager.ID,
			AssigneeID:  assignee,
		}
		Expect(db.Create(row).Error).To(Succeed())
		return row
	}

	reloadUser := func(id int64) userDatamodel.User {
		var u userDatamodel.User
		Expect(db.First(&u, id).Error).To(Succeed())
		return u
	}

	countUnlocks := func(userID int64, name string) int64 {
		var count int64
		Expect(db.Model(&achievementDatamodel.UserAchievement{}).
			Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
			Where("user_achievements.user_id = ? AND achievements.name = ?", userID, name).
			Count(&count).Error).To(Succeed())
		return count
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		_, err = achievementPostgres.NewRepository(db).Seed(ctx, achievement.Catalogue())
		Expect(err).NotTo(HaveOccurred())

		manager = userDatamodel.User{Email: "boss@example.com", Name: "Boss", PasswordHash: "x", Role: userDatamodel.RoleManager}
		employee = userDatamodel.User{Email: "emp@example.com", Name: "Emp", PasswordHash: "x", Role: userDatamodel.RoleEmployee}
		Expect(db.Create(&manager).Error).To(Succeed())
		Expect(db.Create(&employee).Error).To(Succeed())

		repo = taskPostgres.NewTaskRepository(db)
	})

	AfterEach(func() {
		sqlitetest.Close(db)
	})

	Describe("Create", func() {
		It("stores an open task and unlocks Task Creator for the manager", func() {
			t := task.NewTask(task.CreateTaskDTO{Title: "Plan sprint", Description: "Next two weeks", Points: 20}, task.Actor{UserID: manager.ID, Role: manager.Role})

			unlocked, err := repo.Create(ctx, t)

			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).NotTo(BeZero())
			Expect(unlocked).To(HaveLen(1))
			Expect(unlocked[0].Name).To(Equal("Task Creator"))
			Expect(reloadUser(manager.ID).Points).To(Equal(int64(100)))
		})
	})

	Describe("List", func() {
		It("filters by status and assignee, newest first", func() {
			assignee := employee.ID
			first := newTask(task.StatusOpen, nil, 10)
			second := newTask(task.StatusInProgress, &assignee, 10)
			third := newTask(task.StatusOpen, nil, 10)

			all, err := repo.List(ctx, task.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].ID).To(Equal(third.ID))
			Expect(all[2].ID).To(Equal(first.ID))

			open, err := repo.List(ctx, task.ListFilter{Status: task.StatusOpen})
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(HaveLen(2))

			mine, err := repo.List(ctx, task.ListFilter{AssigneeID: &assignee})
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].ID).To(Equal(second.ID))
		})

		It("scopes tasks to a business", func() {
			business := int64(42)
			row := newTask(task.StatusOpen, nil, 10)
			Expect(db.Model(row).Update("business_id", business).Error).To(Succeed())
			newTask(task.StatusOpen, nil, 10)

			scoped, err := repo.List(ctx, task.ListFilter{BusinessID: &business})
			Expect(err).NotTo(HaveOccurred())
			Expect(scoped).To(HaveLen(1))
			Expect(scoped[0].ID).To(Equal(row.ID))
		})
	})

	Describe("Assign", func() {
		It("claims an open task", func() {
			row := newTask(task.StatusOpen, nil, 10)

			t, err := repo.Assign(ctx, row.ID, employee.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusInProgress))
			Expect(t.IsAssignedTo(employee.ID)).To(BeTrue())
		})

		It("refuses a task that is already in progress", func() {
			other := manager.ID
			row := newTask(task.StatusInProgress, &other, 10)

			_, err := repo.Assign(ctx, row.ID, employee.ID)

			Expect(err).To(MatchError(internal.ErrTaskNotAvailable))
		})

		It("reports a missing task", func() {
			_, err := repo.Assign(ctx, 999, employee.ID)
			Expect(err).To(MatchError(internal.ErrTaskNotFound))
		})
	})

	Describe("Complete", func() {
		It("credits task points plus the newly unlocked bonus", func() {
			assignee := employee.ID
			for i := 0; i < 9; i++ {
				newTask(task.StatusCompleted, &assignee, 10)
			}
			// First Steps was earned along the way.
			var firstSteps achievementDatamodel.Achievement
			Expect(db.Where("name = ?", "First Steps").First(&firstSteps).Error).To(Succeed())
			Expect(db.Create(&achievementDatamodel.UserAchievement{UserID: employee.ID, AchievementID: firstSteps.ID}).Error).To(Succeed())
			Expect(db.Model(&userDatamodel.User{}).Where("id = ?", employee.ID).Update("points", 140).Error).To(Succeed())

			tenth := newTask(task.StatusInProgress, &assignee, 10)

			result, err := repo.Complete(ctx, tenth.ID, employee.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Task.Status).To(Equal(task.StatusCompleted))
			Expect(result.Task.CompletedAt).NotTo(BeNil())
			Expect(result.PointsEarned).To(Equal(int64(110)))
			Expect(result.NewAchievements).To(HaveLen(1))
			Expect(result.NewAchievements[0].Name).To(Equal("Rising Star"))
			Expect(reloadUser(employee.ID).Points).To(Equal(int64(250)))
			Expect(countUnlocks(employee.ID, "Rising Star")).To(Equal(int64(1)))
		})

		It("returns an empty achievement list when nothing unlocks", func() {
			assignee := employee.ID
			newTask(task.StatusCompleted, &assignee, 10)
			var firstSteps achievementDatamodel.Achievement
			Expect(db.Where("name = ?", "First Steps").First(&firstSteps).Error).To(Succeed())
			Expect(db.Create(&achievementDatamodel.UserAchievement{UserID: employee.ID, AchievementID: firstSteps.ID}).Error).To(Succeed())
			row := newTask(task.StatusInProgress, &assignee, 15)

			result, err := repo.Complete(ctx, row.ID, employee.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.PointsEarned).To(Equal(int64(15)))
			Expect(result.NewAchievements).NotTo(BeNil())
			Expect(result.NewAchievements).To(BeEmpty())
		})

		It("rejects an already completed task without touching points", func() {
			assignee := employee.ID
			row := newTask(task.StatusCompleted, &assignee, 10)

			_, err := repo.Complete(ctx, row.ID, employee.ID)

			Expect(err).To(MatchError(internal.ErrTaskAlreadyCompleted))
			Expect(reloadUser(employee.ID).Points).To(BeZero())
		})

		It("rejects a caller who is not the assignee", func() {
			assignee := manager.ID
			row := newTask(task.StatusInProgress, &assignee, 10)

			_, err := repo.Complete(ctx, row.ID, employee.ID)

			Expect(err).To(MatchError(internal.ErrTaskNotAssigned))
			var reloaded taskDatamodel.Task
			Expect(db.First(&reloaded, row.ID).Error).To(Succeed())
			Expect(reloaded.Status).To(Equal(string(task.StatusInProgress)))
			Expect(reloadUser(employee.ID).Points).To(BeZero())
		})

		It("rejects an unassigned task", func() {
			row := newTask(task.StatusOpen, nil, 10)

			_, err := repo.Complete(ctx, row.ID, employee.ID)

			Expect(err).To(MatchError(internal.ErrTaskNotAssigned))
		})

		It("rejects a cancelled task", func() {
			assignee := employee.ID
			row := newTask(task.StatusCancelled, &assignee, 10)

			_, err := repo.Complete(ctx, row.ID, employee.ID)

			Expect(err).To(MatchError(internal.ErrTaskCancelled))
		})

		It("reports a missing task", func() {
			_, err := repo.Complete(ctx, 999, employee.ID)
			Expect(err).To(MatchError(internal.ErrTaskNotFound))
		})

		It("completes the same task only once under concurrency", func() {
			assignee := employee.ID
			row := newTask(task.StatusInProgress, &assignee, 10)

			var wg sync.WaitGroup
			var mu sync.Mutex
			successes := 0
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := repo.Complete(ctx, row.ID, employee.ID)
					if err == nil {
						mu.Lock()
						successes++
						mu.Unlock()
						return
					}
					Expect(err).To(MatchError(internal.ErrTaskAlreadyCompleted))
				}()
			}
			wg.Wait()

			Expect(successes).To(Equal(1))
			// 10 for the task plus 50 for First Steps.
			Expect(reloadUser(employee.ID).Points).To(Equal(int64(60)))
		})

		It("unlocks a shared threshold exactly once across concurrent completions", func() {
			assignee := employee.ID
			for i := 0; i < 8; i++ {
				newTask(task.StatusCompleted, &assignee, 10)
			}
			pending := make([]*taskDatamodel.Task, 3)
			for i := range pending {
				pending[i] = newTask(task.StatusInProgress, &assignee, 10)
			}

			var wg sync.WaitGroup
			for _, row := range pending {
				wg.Add(1)
				go func(id int64) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := repo.Complete(ctx, id, employee.ID)
					Expect(err).NotTo(HaveOccurred())
				}(row.ID)
			}
			wg.Wait()

			Expect(countUnlocks(employee.ID, "Rising Star")).To(Equal(int64(1)))
			Expect(countUnlocks(employee.ID, "First Steps")).To(Equal(int64(1)))
			// 3 tasks, First Steps and Rising Star.
			Expect(reloadUser(employee.ID).Points).To(Equal(int64(30 + 50 + 100)))
		})
	})

	Describe("Cancel", func() {
		It("cancels an open task", func() {
			row := newTask(task.StatusOpen, nil, 10)

			t, err := repo.Cancel(ctx, row.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(task.StatusCancelled))
		})

		It("leaves completed tasks alone", func() {
			assignee := employee.ID
			row := newTask(task.StatusCompleted, &assignee, 10)

			_, err := repo.Cancel(ctx, row.ID)

			Expect(err).To(MatchError(internal.ErrTaskAlreadyCompleted))
		})
	})
})
