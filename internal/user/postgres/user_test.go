package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	achievementDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/achievement"
	activityDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/activity"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/sqlitetest"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	userPostgres "github.com/frahmantamala/task-gamification/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo *userPostgres.Repository
		u    userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = userPostgres.NewRepository(db)

		u = userDatamodel.User{Email: "u@example.com", Name: "U", PasswordHash: "x", Role: userDatamodel.RoleEmployee, Points: 42}
		Expect(db.Create(&u).Error).To(Succeed())
	})

	AfterEach(func() {
		sqlitetest.Close(db)
	})

	It("loads a profile", func() {
		got, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Email).To(Equal("u@example.com"))
		Expect(got.Points).To(Equal(int64(42)))
		Expect(got.HasBusiness()).To(BeFalse())
	})

	It("maps a missing user to ErrUserNotFound", func() {
		_, err := repo.GetByID(ctx, 404)
		Expect(err).To(MatchError(internal.ErrUserNotFound))
	})

	It("counts assigned tasks by status", func() {
		assignee := u.ID
		for _, status := range []string{"COMPLETED", "COMPLETED", "IN_PROGRESS", "OPEN"} {
			row := taskDatamodel.Task{Title: "t", Description: "d", Points: 5, Status: status, CreatorID: u.ID, AssigneeID: &assignee}
			Expect(db.Create(&row).Error).To(Succeed())
		}

		counts, err := repo.TaskCounts(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(counts.Completed).To(Equal(int64(2)))
		Expect(counts.InProgress).To(Equal(int64(1)))
	})

	It("counts active days", func() {
		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			Expect(db.Create(&activityDatamodel.UserActivityLog{UserID: u.ID, Date: day.AddDate(0, 0, i)}).Error).To(Succeed())
		}

		days, err := repo.ActiveDays(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(days).To(Equal(int64(3)))
	})

	It("returns the most recent achievements first", func() {
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"First", "Second", "Third"} {
			a := achievementDatamodel.Achievement{Name: name, Type: "TASKS_COMPLETED", Threshold: int64(i + 1), Points: 10}
			Expect(db.Create(&a).Error).To(Succeed())
			Expect(db.Create(&achievementDatamodel.UserAchievement{UserID: u.ID, AchievementID: a.ID, UnlockedAt: base.Add(time.Duration(i) * time.Hour)}).Error).To(Succeed())
		}

		recent, err := repo.RecentAchievements(ctx, u.ID, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(recent).To(HaveLen(2))
		Expect(recent[0].Name).To(Equal("Third"))
		Expect(recent[1].Name).To(Equal("Second"))
	})
})
