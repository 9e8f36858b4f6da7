package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/task-gamification/internal/leaderboard"
	"github.com/jmoiron/sqlx"
)

// Repository reads the leaderboard with plain SQL. Writes go through gorm
// elsewhere, this side only ever selects.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const topUsersQuery = `
SELECT id, name, points
FROM users
ORDER BY points DESC, id ASC
LIMIT ?`

const achievementsQuery = `
SELECT ua.user_id, a.name, COALESCE(a.description, '') AS description, COALESCE(a.icon, '') AS icon, a.points, ua.unlocked_at
FROM user_achievements ua
JOIN achievements a ON a.id = ua.achievement_id
WHERE ua.user_id IN (?)`

type achievementRow struct {
	UserID int64 `db:"user_id"`
	leaderboard.Achievement
}

func (r *Repository) Top(ctx context.Context, limit int, since *time.Time) ([]*leaderboard.Entry, error) {
	entries := []*leaderboard.Entry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(topUsersQuery), limit); err != nil {
		return nil, fmt.Errorf("select top users: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]int64, 0, len(entries))
	byID := make(map[int64]*leaderboard.Entry, len(entries))
	for _, e := range entries {
		e.Achievements = []leaderboard.Achievement{}
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}

	query := achievementsQuery
	args := []interface{}{ids}
	if since != nil {
		query += " AND ua.unlocked_at >= ?"
		args = append(args, *since)
	}
	query += " ORDER BY ua.unlocked_at DESC"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("expand achievements query: %w", err)
	}

	var rows []achievementRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select leaderboard achievements: %w", err)
	}
	for _, row := range rows {
		if e, ok := byID[row.UserID]; ok {
			e.Achievements = append(e.Achievements, row.Achievement)
		}
	}
	return entries, nil
}
