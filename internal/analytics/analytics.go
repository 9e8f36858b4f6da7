// Package analytics reports how a manager's business is doing: task status
// distribution, per-employee progress and a daily completion trend.
package analytics

import (
	"math"
	"time"
)

// TrendDays is the length of the completion trend, today included.
const TrendDays = 30

const dayLayout = "2006-01-02"

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type EmployeeStats struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Points          int64   `json:"points"`
	TotalTasks      int64   `json:"totalTasks"`
	CompletedTasks  int64   `json:"completedTasks"`
	InProgressTasks int64   `json:"inProgressTasks"`
	CompletionRate  float64 `json:"completionRate"`
}

type DailyCompletion struct {
	Date   string `json:"date"`
	Tasks  int64  `json:"tasks"`
	Points int64  `json:"points"`
}

// Completion is one completed task as the trend needs it.
type Completion struct {
	CompletedAt time.Time
	Points      int64
}

type Report struct {
	BusinessID   int64             `json:"businessId"`
	TotalTasks   int64             `json:"totalTasks"`
	StatusCounts []StatusCount     `json:"statusCounts"`
	Employees    []EmployeeStats   `json:"employees"`
	Trend        []DailyCompletion `json:"completionTrend"`
}

// CompletionRate is a percentage rounded to one decimal.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// TrendStart is UTC midnight of the first day in a trend of days ending at now.
func TrendStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// BuildTrend buckets completions per UTC day, oldest first, with empty days
// kept as zeros.
func BuildTrend(completions []Completion, now time.Time, days int) []DailyCompletion {
	start := TrendStart(now, days)
	trend := make([]DailyCompletion, days)
	index := make(map[string]int, days)
	for i := range trend {
		day := start.AddDate(0, 0, i).Format(dayLayout)
		trend[i].Date = day
		index[day] = i
	}

	for _, c := range completions {
		i, ok := index[c.CompletedAt.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		trend[i].Tasks++
		trend[i].Points += c.Points
	}
	return trend
}
