package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/task-gamification/internal"
)

// Job is a unit of best-effort background work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "job", job.Name)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	Name         string
	MaxWorkers   int
	JobQueueSize int
	JobTimeout   time.Duration
}

type Stats struct {
	Submitted int64 `json:"submitted"`
	Dropped   int64 `json:"dropped"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Pool dispatches jobs to a fixed set of workers. Submit never blocks: when the
// queue is full the job is dropped and counted.
type Pool struct {
	name       string
	logger     *slog.Logger
	jobTimeout time.Duration

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup

	submitted atomic.Int64
	dropped   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func NewPool(config Config, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	name := config.Name
	if name == "" {
		name = "worker"
	}

	p := &Pool{
		name:       name,
		logger:     logger.With("pool", name),
		jobTimeout: config.JobTimeout,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := 0; i < p.maxWorkers; i++ {
		NewWorker(i, p.workerPool, p.logger).Start(p.ctx, &p.wg, p.process)
	}

	p.wg.Add(1)
	go p.dispatch()

	p.logger.Info("worker pool started",
		"max_workers", p.maxWorkers,
		"queue_size", cap(p.jobQueue))

	return p
}

func (p *Pool) dispatch() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- job:
				case <-p.ctx.Done():
					return
				}
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// Submit enqueues job and reports whether it was accepted.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.dropped.Add(1)
		return false
	}

	p.pending.Add(1)
	select {
	case p.jobQueue <- job:
		p.submitted.Add(1)
		return true
	default:
		p.pending.Done()
		p.dropped.Add(1)
		p.logger.Warn("job queue full, dropping job", "job", job.Name)
		return false
	}
}

func (p *Pool) process(job Job) {
	defer p.pending.Done()

	ctx, cancel := internal.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.failed.Add(1)
			p.logger.Error("job panicked", "job", job.Name, "panic", r)
		}
	}()

	if err := job.Run(ctx); err != nil {
		p.failed.Add(1)
		p.logger.Error("job failed", "job", job.Name, "error", err)
		return
	}
	p.completed.Add(1)
}

// Wait blocks until every accepted job has finished.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Shutdown stops accepting jobs, lets queued jobs finish, then stops the workers.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.logger.Info("shutting down worker pool")
	p.pending.Wait()
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool shutdown complete", "stats", p.Stats())
}

func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Dropped:   p.dropped.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}
