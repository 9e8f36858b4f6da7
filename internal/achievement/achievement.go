package achievement

import (
	"time"

	achievementDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/achievement"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
)

type Type string

const (
	TypeTasksCompleted Type = "TASKS_COMPLETED"
	TypePointsEarned   Type = "POINTS_EARNED"
	TypeTasksCreated   Type = "TASKS_CREATED"
	TypeDaysActive     Type = "DAYS_ACTIVE"
)

type Achievement struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Type        Type   `json:"type"`
	Threshold   int64  `json:"threshold"`
	Points      int64  `json:"points"`
}

// Stats is the snapshot an achievement is judged against.
type Stats struct {
	Role           string
	CompletedTasks int64
	Points         int64
	CreatedTasks   int64
	ActiveDays     int64
}

// Eligible reports whether s meets a's threshold. TASKS_CREATED only counts
// for managers; unknown types never unlock.
func Eligible(a Achievement, s Stats) bool {
	switch a.Type {
	case TypeTasksCompleted:
		return s.CompletedTasks >= a.Threshold
	case TypePointsEarned:
		return s.Points >= a.Threshold
	case TypeTasksCreated:
		return s.Role == userDatamodel.RoleManager && s.CreatedTasks >= a.Threshold
	case TypeDaysActive:
		return s.ActiveDays >= a.Threshold
	}
	return false
}

// Bonus sums the points granted by achievements.
func Bonus(achievements []Achievement) int64 {
	var total int64
	for _, a := range achievements {
		total += a.Points
	}
	return total
}

// Progress is an achievement as seen by one user.
type Progress struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

func FromDataModel(a *achievementDatamodel.Achievement) Achievement {
	return Achievement{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Icon:        a.Icon,
		Type:        Type(a.Type),
		Threshold:   a.Threshold,
		Points:      a.Points,
	}
}

func ToDataModel(a Achievement) *achievementDatamodel.Achievement {
	return &achievementDatamodel.Achievement{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Icon:        a.Icon,
		Type:        string(a.Type),
		Threshold:   a.Threshold,
		Points:      a.Points,
	}
}

// Catalogue is the seeded set of achievements.
func Catalogue() []Achievement {
	return []Achievement{
		{Name: "First Steps", Description: "Complete your first task", Icon: "🎯", Type: TypeTasksCompleted, Threshold: 1, Points: 50},
		{Name: "Rising Star", Description: "Complete 10 tasks", Icon: "⭐", Type: TypeTasksCompleted, Threshold: 10, Points: 100},
		{Name: "Task Master", Description: "Complete 50 tasks", Icon: "🏆", Type: TypeTasksCompleted, Threshold: 50, Points: 500},
		{Name: "Point Collector", Description: "Earn 1000 points", Icon: "💰", Type: TypePointsEarned, Threshold: 1000, Points: 200},
		{Name: "High Achiever", Description: "Earn 5000 points", Icon: "💎", Type: TypePointsEarned, Threshold: 5000, Points: 1000},
		{Name: "Task Creator", Description: "Create your first task", Icon: "📝", Type: TypeTasksCreated, Threshold: 1, Points: 100},
		{Name: "Team Leader", Description: "Create 10 tasks", Icon: "👥", Type: TypeTasksCreated, Threshold: 10, Points: 200},
		{Name: "Dedicated", Description: "Be active for 7 days", Icon: "🔥", Type: TypeDaysActive, Threshold: 7, Points: 100},
		{Name: "Veteran", Description: "Be active for 30 days", Icon: "🎖️", Type: TypeDaysActive, Threshold: 30, Points: 500},
	}
}
