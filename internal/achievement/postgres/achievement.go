package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/achievement"
	activityDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/activity"
	achievementDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/achievement"
	taskDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const statusCompleted = "COMPLETED"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]achievement.Progress, error) {
	var all []achievementDatamodel.Achievement
	if err := r.db.WithContext(ctx).Order("type ASC, threshold ASC").Find(&all).Error; err != nil {
		return nil, err
	}

	var mine []achievementDatamodel.UserAchievement
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&mine).Error; err != nil {
		return nil, err
	}

	unlockedAt := make(map[int64]time.Time, len(mine))
	for _, ua := range mine {
		unlockedAt[ua.AchievementID] = ua.UnlockedAt
	}

	progress := make([]achievement.Progress, 0, len(all))
	for i := range all {
		p := achievement.Progress{Achievement: achievement.FromDataModel(&all[i])}
		if at, ok := unlockedAt[all[i].ID]; ok {
			at := at
			p.Unlocked = true
			p.UnlockedAt = &at
		}
		progress = append(progress, p)
	}
	return progress, nil
}

// Evaluate runs EvaluateTx in its own transaction.
func (r *Repository) Evaluate(ctx context.Context, userID int64) ([]achievement.Achievement, error) {
	var unlocked []achievement.Achievement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := CreditPoints(tx, userID, 0); err != nil {
			return err
		}
		var err error
		unlocked, err = EvaluateTx(tx, userID, time.Now())
		return err
	})
	return unlocked, err
}

// EvaluateTx unlocks every achievement userID now qualifies for and credits
// the bonus points, inside tx. An achievement counts as newly unlocked only
// when its user_achievements row was actually inserted, so concurrent
// evaluations for the same user never award a bonus twice.
//
// Callers should run CreditPoints first so concurrent evaluations for the
// same user serialise on the users row.
func EvaluateTx(tx *gorm.DB, userID int64, now time.Time) ([]achievement.Achievement, error) {
	stats, err := LoadStats(tx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []achievementDatamodel.Achievement
	unlockedIDs := tx.Model(&achievementDatamodel.UserAchievement{}).
		Select("achievement_id").
		Where("user_id = ?", userID)
	if err := tx.Where("id NOT IN (?)", unlockedIDs).Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}

	var unlocked []achievement.Achievement
	for i := range candidates {
		a := achievement.FromDataModel(&candidates[i])
		if !achievement.Eligible(a, stats) {
			continue
		}

		row := achievementDatamodel.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			unlocked = append(unlocked, a)
		}
	}

	if bonus := achievement.Bonus(unlocked); bonus > 0 {
		if err := CreditPoints(tx, userID, bonus); err != nil {
			return nil, err
		}
	}

	return unlocked, nil
}

// CreditPoints adds points to the user's balance. A zero credit still takes
// the row lock.
func CreditPoints(tx *gorm.DB, userID, points int64) error {
	res := tx.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// LoadStats reads the counters achievements are judged against.
func LoadStats(tx *gorm.DB, userID int64) (achievement.Stats, error) {
	var u userDatamodel.User
	if err := tx.Select("id", "role", "points").First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return achievement.Stats{}, internal.ErrUserNotFound
		}
		return achievement.Stats{}, err
	}

	stats := achievement.Stats{Role: u.Role, Points: u.Points}

	if err := tx.Model(&taskDatamodel.Task{}).
		Where("assignee_id = ? AND status = ?", userID, statusCompleted).
		Count(&stats.CompletedTasks).Error; err != nil {
		return achievement.Stats{}, err
	}

	if err := tx.Model(&taskDatamodel.Task{}).
		Where("creator_id = ?", userID).
		Count(&stats.CreatedTasks).Error; err != nil {
		return achievement.Stats{}, err
	}

	if err := tx.Model(&activityDatamodel.UserActivityLog{}).
		Where("user_id = ?", userID).
		Count(&stats.ActiveDays).Error; err != nil {
		return achievement.Stats{}, err
	}

	return stats, nil
}

// UserIDs lists every user, for bulk re-evaluation.
func (r *Repository) UserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// Seed inserts the catalogue, leaving existing rows untouched.
func (r *Repository) Seed(ctx context.Context, catalogue []achievement.Achievement) (int64, error) {
	rows := make([]*achievementDatamodel.Achievement, 0, len(catalogue))
	for _, a := range catalogue {
		rows = append(rows, achievement.ToDataModel(a))
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows)
	return res.RowsAffected, res.Error
}
