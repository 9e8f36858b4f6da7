package activity

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-gamification/internal/core/worker"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fixedDayRecorder struct{}

func (fixedDayRecorder) Record(_ context.Context, _ int64) (*RecordResult, error) {
	return &RecordResult{Success: true, Recorded: true, Day: Day(nowFunc())}, nil
}

var _ = Describe("Tracker memory", func() {
	var (
		pool    *worker.Pool
		tracker *Tracker
		clock   time.Time
	)

	BeforeEach(func() {
		clock = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		nowFunc = func() time.Time { return clock }
		pool = worker.NewPool(worker.Config{Name: "tracker-memory", MaxWorkers: 1, JobQueueSize: 8, JobTimeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		tracker = NewTracker(fixedDayRecorder{}, pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	AfterEach(func() {
		pool.Shutdown()
		nowFunc = time.Now
	})

	It("forgets yesterday's users once a new day is recorded", func() {
		for _, id := range []int64{1, 2, 3} {
			Expect(tracker.Track(id)).To(BeTrue())
		}
		pool.Wait()
		Expect(tracker.seen).To(HaveLen(3))

		clock = clock.AddDate(0, 0, 1)
		Expect(tracker.Track(1)).To(BeTrue())
		pool.Wait()

		Expect(tracker.day).To(Equal("2025-03-02"))
		Expect(tracker.seen).To(HaveLen(1))
		Expect(tracker.seen).To(HaveKey(int64(1)))
	})

	It("ignores a late result for a day already gone", func() {
		tracker.markSeen(1, "2025-03-02")
		tracker.markSeen(2, "2025-03-01")

		Expect(tracker.seen).To(HaveLen(1))
		Expect(tracker.day).To(Equal("2025-03-02"))
	})
})
