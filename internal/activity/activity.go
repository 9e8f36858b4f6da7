package activity

import (
	"time"

	"github.com/frahmantamala/task-gamification/internal/achievement"
)

// Day truncates t to the start of its UTC calendar day. Activity is counted
// once per user per Day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type RecordResult struct {
	Success         bool                      `json:"success"`
	Recorded        bool                      `json:"recorded"`
	Day             time.Time                 `json:"day"`
	NewAchievements []achievement.Achievement `json:"newAchievements,omitempty"`
}
