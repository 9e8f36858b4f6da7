package activity

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/frahmantamala/task-gamification/internal/core/worker"
)

var nowFunc = time.Now

type Recorder interface {
	Record(ctx context.Context, userID int64) (*RecordResult, error)
}

// Tracker records activity off the request path. Work goes through a
// bounded pool and is dropped when the pool is saturated.
type Tracker struct {
	recorder Recorder
	pool     *worker.Pool
	logger   *slog.Logger

	// users recorded on day, so repeat requests skip the database; the set
	// starts over when the day rolls
	mu   sync.Mutex
	day  string
	seen map[int64]struct{}
}

func NewTracker(recorder Recorder, pool *worker.Pool, logger *slog.Logger) *Tracker {
	return &Tracker{
		recorder: recorder,
		pool:     pool,
		logger:   logger,
		seen:     make(map[int64]struct{}),
	}
}

// Track queues an activity record for userID and returns immediately. It
// reports whether work was queued.
func (t *Tracker) Track(userID int64) bool {
	if userID == 0 {
		return false
	}

	if t.alreadySeen(userID) {
		return false
	}

	queued := t.pool.Submit(worker.Job{
		Name: "activity.record:" + strconv.FormatInt(userID, 10),
		Run: func(ctx context.Context) error {
			result, err := t.recorder.Record(ctx, userID)
			if err != nil {
				return err
			}
			t.markSeen(userID, result.Day.Format(time.DateOnly))
			return nil
		},
	})
	if !queued {
		t.logger.Warn("activity tracking dropped", "user_id", userID)
	}
	return queued
}

func (t *Tracker) alreadySeen(userID int64) bool {
	today := Day(nowFunc()).Format(time.DateOnly)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.day != today {
		return false
	}
	_, ok := t.seen[userID]
	return ok
}

func (t *Tracker) markSeen(userID int64, day string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case day < t.day:
		return
	case day > t.day:
		t.day = day
		t.seen = make(map[int64]struct{})
	}
	t.seen[userID] = struct{}{}
}
