package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("job queue is stopped")
)

// Queue feeds submitted jobs to a fixed pool of workers.
type Queue struct {
	jobs    *Store
	queue   chan *Job
	worker  *Worker
	workers int
	log     *slog.Logger

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewQueue creates a queue holding up to size pending jobs.
func NewQueue(store *Store, w *Worker, workers, size int, log *slog.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Queue{
		jobs:    store,
		queue:   make(chan *Job, size),
		worker:  w,
		workers: workers,
		log:     log,
	}
}

// Start launches worker goroutines.
func (q *Queue) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for range q.workers {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-q.queue:
					if !ok {
						return
					}
					q.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				q.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pool. Jobs still queued are marked failed.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.queue)
	q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()

	for job := range q.queue {
		job.Fail("queued", ErrStopped)
	}
}

// Submit queues a new job for processing.
func (q *Queue) Submit(job *Job) error {
	q.jobs.Put(job)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		job.Fail("queued", ErrStopped)
		return ErrStopped
	}
	select {
	case q.queue <- job:
		return nil
	default:
		job.Fail("queue_full", ErrQueueFull)
		return fmt.Errorf("%w (%d)", ErrQueueFull, cap(q.queue))
	}
}

// GetJob returns a job by ID.
func (q *Queue) GetJob(id string) *Job {
	return q.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (q *Queue) QueueDepth() int {
	return len(q.queue)
}
