package events

const (
	EventTypeTaskCompleted       = "task.completed"
	EventTypeAchievementUnlocked = "achievement.unlocked"
	EventTypeRewardRedeemed      = "reward.redeemed"
)

// ScoreEventTypes change a user's points or achievements.
var ScoreEventTypes = []string{EventTypeTaskCompleted, EventTypeAchievementUnlocked, EventTypeRewardRedeemed}

type TaskCompletedEvent struct {
	BaseEvent
	TaskID       int64 `json:"task_id"`
	PointsEarned int64 `json:"points_earned"`
}

func NewTaskCompletedEvent(taskID, userID, pointsEarned int64) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseEvent: newBaseEvent(EventTypeTaskCompleted, userID, map[string]interface{}{
			"task_id":       taskID,
			"points_earned": pointsEarned,
		}),
		TaskID:       taskID,
		PointsEarned: pointsEarned,
	}
}

type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID int64  `json:"achievement_id"`
	Name          string `json:"name"`
	BonusPoints   int64  `json:"bonus_points"`
}

func NewAchievementUnlockedEvent(achievementID int64, name string, userID, bonus int64) *AchievementUnlockedEvent {
	return &AchievementUnlockedEvent{
		BaseEvent: newBaseEvent(EventTypeAchievementUnlocked, userID, map[string]interface{}{
			"achievement_id": achievementID,
			"name":           name,
			"bonus_points":   bonus,
		}),
		AchievementID: achievementID,
		Name:          name,
		BonusPoints:   bonus,
	}
}

type RewardRedeemedEvent struct {
	BaseEvent
	RewardID    int64  `json:"reward_id"`
	PointsSpent int64  `json:"points_spent"`
	Reference   string `json:"reference"`
}

func NewRewardRedeemedEvent(rewardID, userID, pointsSpent int64, reference string) *RewardRedeemedEvent {
	return &RewardRedeemedEvent{
		BaseEvent: newBaseEvent(EventTypeRewardRedeemed, userID, map[string]interface{}{
			"reward_id":    rewardID,
			"points_spent": pointsSpent,
			"reference":    reference,
		}),
		RewardID:    rewardID,
		PointsSpent: pointsSpent,
		Reference:   reference,
	}
}
