package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	businessDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/business"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"github.com/frahmantamala/task-gamification/internal/reward"
	rewardPostgres "github.com/frahmantamala/task-gamification/internal/reward/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password123"

type demoUser struct {
	Email string
	Name  string
	Role  string
}

var demoUsers = []demoUser{
	{"admin@demo.com", "Demo Admin", userDatamodel.RoleAdmin},
	{"manager@demo.com", "Demo Manager", userDatamodel.RoleManager},
	{"employee@demo.com", "Demo Employee", userDatamodel.RoleEmployee},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed achievements, rewards, a demo business and demo users. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if err := seed(context.Background(), db, cfg.Security.BCryptCost, clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

func seed(ctx context.Context, db *gorm.DB, bcryptCost int, clearHistory bool) error {
	if clearHistory {
		for _, table := range []string{"reward_redemptions", "user_achievements", "user_activity_logs", "tasks"} {
			if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := db.WithContext(ctx).Model(&userDatamodel.User{}).Where("1 = 1").Update("points", 0).Error; err != nil {
			return fmt.Errorf("reset points: %w", err)
		}
		fmt.Println("Cleared task, achievement, activity and redemption history")
	}

	inserted, err := achievementPostgres.NewRepository(db).Seed(ctx, achievement.Catalogue())
	if err != nil {
		return fmt.Errorf("seed achievements: %w", err)
	}
	fmt.Printf("Seeded %d achievements\n", inserted)

	inserted, err = rewardPostgres.NewRewardRepository(db).Seed(ctx, reward.Catalogue())
	if err != nil {
		return fmt.Errorf("seed rewards: %w", err)
	}
	fmt.Printf("Seeded %d rewards\n", inserted)

	biz := businessDatamodel.Business{Name: "Demo Company", Code: "DEMO"}
	if err := db.WithContext(ctx).Where(businessDatamodel.Business{Code: biz.Code}).FirstOrCreate(&biz).Error; err != nil {
		return fmt.Errorf("seed business: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	for _, du := range demoUsers {
		var existing userDatamodel.User
		err := db.WithContext(ctx).Where("email = ?", du.Email).First(&existing).Error
		if err == nil {
			fmt.Println("demo user already exists:", du.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup %s: %w", du.Email, err)
		}

		row := userDatamodel.User{
			Email:        du.Email,
			Name:         du.Name,
			PasswordHash: string(hash),
			Role:         du.Role,
			BusinessID:   &biz.ID,
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("insert %s: %w", du.Email, err)
		}
		fmt.Println("Seeded demo user:", du.Email)
	}

	if biz.OwnerID == nil {
		var manager userDatamodel.User
		if err := db.WithContext(ctx).Where("email = ?", "manager@demo.com").First(&manager).Error; err == nil {
			if err := db.WithContext(ctx).Model(&biz).Update("owner_id", manager.ID).Error; err != nil {
				return fmt.Errorf("set business owner: %w", err)
			}
		}
	}

	return nil
}
