package achievement

type AchievementsResponse struct {
	Achievements []Progress `json:"achievements"`
	Unlocked     int        `json:"unlocked"`
	Total        int        `json:"total"`
}
