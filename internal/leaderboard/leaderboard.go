package leaderboard

import (
	"strings"
	"time"
)

const Size = 10

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "all-time"
)

// ParsePeriod falls back to all-time for anything it does not know.
func ParsePeriod(raw string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case PeriodWeekly:
		return PeriodWeekly
	case PeriodMonthly:
		return PeriodMonthly
	}
	return PeriodAllTime
}

// Since returns the start of the achievement window. ok is false for all-time.
func (p Period) Since(now time.Time) (since time.Time, ok bool) {
	switch p {
	case PeriodWeekly:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodMonthly:
		return now.Add(-30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

type Achievement struct {
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Points      int64     `json:"points" db:"points"`
	UnlockedAt  time.Time `json:"unlockedAt" db:"unlocked_at"`
}

type Entry struct {
	ID           int64         `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Points       int64         `json:"points" db:"points"`
	Achievements []Achievement `json:"achievements" db:"-"`
}

type Response struct {
	Period      Period   `json:"period"`
	Leaderboard []*Entry `json:"leaderboard"`
}
