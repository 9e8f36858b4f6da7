package datamodel

import (
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/achievement"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/activity"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/business"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/reward"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/task"
	"github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
)

// Models lists every table in dependency order. Production schemas come from
// db/migrations; this is for AutoMigrate in tests and local sqlite runs.
func Models() []interface{} {
	return []interface{}{
		&business.Business{},
		&user.User{},
		&task.Task{},
		&achievement.Achievement{},
		&achievement.UserAchievement{},
		&activity.UserActivityLog{},
		&reward.Reward{},
		&reward.Redemption{},
	}
}
