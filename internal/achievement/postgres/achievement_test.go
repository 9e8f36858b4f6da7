package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	activityDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/activity"
	achievementDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/achievement"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/sqlitetest"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestAchievementPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Achievement Postgres Suite")
}

var _ = Describe("Achievement Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo *achievementPostgres.Repository
		user userDatamodel.User
	)

	completedTasks := func(n int, points int64) {
		for i := 0; i < n; i++ {
			assignee := user.ID
			now := time.Now()
			Expect(db.Create(&taskDatamodel.Task{
				Title:       "done",
				Points:      points,
				Status:      "COMPLETED",
				CreatorID:   user.ID,
				AssigneeID:  &assignee,
				CompletedAt: &now,
			}).Error).To(Succeed())
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		repo = achievementPostgres.NewRepository(db)
		_, err = repo.Seed(ctx, achievement.Catalogue())
		Expect(err).NotTo(HaveOccurred())

		user = userDatamodel.User{Email: "emp@example.com", Name: "Emp", PasswordHash: "x", Role: userDatamodel.RoleEmployee}
		Expect(db.Create(&user).Error).To(Succeed())
	})

	AfterEach(func() {
		sqlitetest.Close(db)
	})

	It("seeds idempotently", func() {
		inserted, err := repo.Seed(ctx, achievement.Catalogue())
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeZero())

		var count int64
		Expect(db.Model(&achievementDatamodel.Achievement{}).Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(9)))
	})

	It("unlocks once and credits the bonus once", func() {
		completedTasks(1, 10)

		unlocked, err := repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(unlocked).To(HaveLen(1))
		Expect(unlocked[0].Name).To(Equal("First Steps"))

		again, err := repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeEmpty())

		var reloaded userDatamodel.User
		Expect(db.First(&reloaded, user.ID).Error).To(Succeed())
		Expect(reloaded.Points).To(Equal(int64(50)))

		var rows int64
		Expect(db.Model(&achievementDatamodel.UserAchievement{}).Where("user_id = ?", user.ID).Count(&rows).Error).To(Succeed())
		Expect(rows).To(Equal(int64(1)))
	})

	It("does not count a conflicting insert as a new unlock", func() {
		completedTasks(1, 10)
		var first achievementDatamodel.Achievement
		Expect(db.Where("name = ?", "First Steps").First(&first).Error).To(Succeed())
		Expect(db.Create(&achievementDatamodel.UserAchievement{UserID: user.ID, AchievementID: first.ID, UnlockedAt: time.Now()}).Error).To(Succeed())

		var unlocked []achievement.Achievement
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			unlocked, err = achievementPostgres.EvaluateTx(tx, user.ID, time.Now())
			return err
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(unlocked).To(BeEmpty())
	})

	It("loses a race for the same unlock without awarding the bonus", func() {
		completedTasks(1, 10)

		// Another evaluation commits the same unlock after the candidates
		// were read but before this one inserts.
		var competingErr error
		raced := false
		Expect(db.Callback().Create().Before("gorm:create").Register("competing_unlock", func(tx *gorm.DB) {
			row, ok := tx.Statement.Dest.(*achievementDatamodel.UserAchievement)
			if !ok || raced {
				return
			}
			raced = true
			competingErr = tx.Session(&gorm.Session{NewDB: true}).
				Exec("INSERT INTO user_achievements (user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)", row.UserID, row.AchievementID, time.Now()).Error
		})).To(Succeed())

		unlocked, err := repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(raced).To(BeTrue())
		Expect(competingErr).NotTo(HaveOccurred())
		Expect(unlocked).To(BeEmpty())

		var reloaded userDatamodel.User
		Expect(db.First(&reloaded, user.ID).Error).To(Succeed())
		Expect(reloaded.Points).To(BeZero())

		var rows int64
		Expect(db.Model(&achievementDatamodel.UserAchievement{}).Where("user_id = ?", user.ID).Count(&rows).Error).To(Succeed())
		Expect(rows).To(Equal(int64(1)))
	})

	It("awards DAYS_ACTIVE from the activity log", func() {
		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 7; i++ {
			Expect(db.Create(&activityDatamodel.UserActivityLog{UserID: user.ID, Date: day.AddDate(0, 0, i)}).Error).To(Succeed())
		}

		unlocked, err := repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(unlocked).To(HaveLen(1))
		Expect(unlocked[0].Name).To(Equal("Dedicated"))
	})

	It("only grants TASKS_CREATED to managers", func() {
		completedTasks(1, 0)
		unlocked, err := repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		for _, a := range unlocked {
			Expect(a.Type).NotTo(Equal(achievement.TypeTasksCreated))
		}

		Expect(db.Model(&userDatamodel.User{}).Where("id = ?", user.ID).Update("role", userDatamodel.RoleManager).Error).To(Succeed())
		unlocked, err = repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(unlocked).To(HaveLen(1))
		Expect(unlocked[0].Name).To(Equal("Task Creator"))
	})

	It("lists the catalogue with the user's unlocks", func() {
		completedTasks(1, 10)
		_, err := repo.Evaluate(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())

		progress, err := repo.ListForUser(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(progress).To(HaveLen(9))

		unlocked := 0
		for _, p := range progress {
			if p.Unlocked {
				unlocked++
				Expect(p.Name).To(Equal("First Steps"))
				Expect(p.UnlockedAt).NotTo(BeNil())
			}
		}
		Expect(unlocked).To(Equal(1))
	})

	It("reports a missing user", func() {
		_, err := repo.Evaluate(ctx, 9999)
		Expect(err).To(HaveOccurred())
	})
})
