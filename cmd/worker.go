package cmd

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	"github.com/frahmantamala/task-gamification/internal/core/worker"
	"github.com/frahmantamala/task-gamification/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background jobs",
	Long:  `Run one-off background jobs through the worker pool.`,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Re-evaluate achievements for every user",
	Long:  `Re-evaluate achievements for every user, e.g. after the achievement catalogue changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReconcile(); err != nil {
			fmt.Fprintf(os.Stderr, "reconcile failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var maxWorkers int

func runReconcile() error {
	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(config.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	db, err := initGorm(sqlDB)
	if err != nil {
		return err
	}

	workers := getIntFlag(maxWorkers, config.Activity.Workers)
	lg.Info("starting achievement reconcile", "max_workers", workers)

	unlocked, failed, err := reconcileAll(context.Background(), db, workers)
	if err != nil {
		return err
	}

	lg.Info("achievement reconcile finished", "unlocked", unlocked, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d users failed to reconcile", failed)
	}
	return nil
}

// reconcileAll fans users out over a pool sized so no job is dropped.
func reconcileAll(ctx context.Context, db *gorm.DB, workers int) (unlocked, failed int64, err error) {
	lg := logger.LoggerWrapper()
	repo := achievementPostgres.NewRepository(db)
	service := achievement.NewService(repo, lg)

	ids, err := repo.UserIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list users: %w", err)
	}

	pool := worker.NewPool(worker.Config{
		Name:         "reconcile",
		MaxWorkers:   workers,
		JobQueueSize: len(ids) + 1,
	}, lg)
	defer pool.Shutdown()

	var unlockedCount atomic.Int64
	for _, id := range ids {
		userID := id
		pool.Submit(worker.Job{
			Name: fmt.Sprintf("reconcile-user-%d", userID),
			Run: func(ctx context.Context) error {
				got, err := service.Reconcile(ctx, userID)
				if err != nil {
					return err
				}
				unlockedCount.Add(int64(len(got)))
				return nil
			},
		})
	}
	pool.Wait()

	return unlockedCount.Load(), pool.Stats().Failed, nil
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	reconcileCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")

	workerCmd.AddCommand(reconcileCmd)
}
