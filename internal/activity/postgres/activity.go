package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/task-gamification/internal/achievement"
	achievementPostgres "github.com/frahmantamala/task-gamification/internal/achievement/postgres"
	activityDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/activity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordDay inserts the (user, day) row if missing. Only a fresh row can
// change DAYS_ACTIVE, so evaluation is skipped otherwise.
func (r *Repository) RecordDay(ctx context.Context, userID int64, day time.Time) (bool, []achievement.Achievement, error) {
	var (
		recorded bool
		unlocked []achievement.Achievement
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := achievementPostgres.CreditPoints(tx, userID, 0); err != nil {
			return err
		}

		row := activityDatamodel.UserActivityLog{UserID: userID, Date: day}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		recorded = true

		var err error
		unlocked, err = achievementPostgres.EvaluateTx(tx, userID, time.Now())
		return err
	})
	if err != nil {
		return false, nil, err
	}
	return recorded, unlocked, nil
}

// ActiveDays counts the distinct days userID was active.
func (r *Repository) ActiveDays(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&activityDatamodel.UserActivityLog{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
