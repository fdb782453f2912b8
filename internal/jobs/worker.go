package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/aqariapp/aqari-api/pkg/logger"
)

// Job is a unit of background work
type Job func(ctx context.Context) error

// Worker runs queued jobs on a fixed pool plus bounded fire-and-forget
// goroutines for notification fan-out, and hosts the recurring sweeps
// (contract expiry, overdue task reminders).
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	queueWg  sync.WaitGroup
	queue    chan Job
	asyncSem chan struct{}

	statsMu sync.RWMutex
	stats   WorkerStats
}

// WorkerStats is a point-in-time snapshot of the pool
type WorkerStats struct {
	ActiveJobs   int   `json:"active_jobs"`
	FinishedJobs int64 `json:"finished_jobs"`
	FailedJobs   int64 `json:"failed_jobs"`
	QueueLength  int   `json:"queue_length"`
}

// NewWorker creates a worker pool with numWorkers queue processors
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan Job, 100),
		asyncSem: make(chan struct{}, asyncLimit),
	}

	for i := 0; i < numWorkers; i++ {
		w.queueWg.Add(1)
		go w.process()
	}

	return w
}

// Enqueue hands a job to the pool. Notification fan-out goes through
// here so delivery order follows submission order. A full queue runs
// the job inline rather than dropping it.
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		logger.Warn("worker queue full, running job inline")
		w.run(job, "inline")
	}
}

// EnqueueAsync runs a job on its own goroutine, bounded by the
// semaphore. Used for email and notification fan-out where callers
// must not block.
func (w *Worker) EnqueueAsync(job Job) {
	// Add before spawning so Shutdown always waits for this job
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.run(job, "async")
	}()
}

// process drains the queue until it is closed. Shutdown closes the
// queue before cancelling, so accepted jobs always run.
func (w *Worker) process() {
	defer w.queueWg.Done()
	for job := range w.queue {
		w.run(job, "queue")
	}
}

// run executes one job with panic recovery and stats tracking
func (w *Worker) run(job Job, origin string) {
	w.trackStart()
	defer w.trackEnd()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("background job panicked", "origin", origin, "panic", r)
			w.trackFailure()
		}
	}()

	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error("background job failed", "origin", origin, "error", err)
		w.trackFailure()
		return
	}
	logger.Debug("background job finished", "origin", origin, "took", time.Since(start))
}

// ScheduleEvery runs a job at a fixed interval. The first run waits
// one full interval.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(job, "schedule")
			}
		}
	}()
}

// ScheduleEveryImmediate runs a job once right away, then at the fixed
// interval. Sweeps use this so a restart does not leave stale state
// sitting until the next tick.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(job, "schedule")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(job, "schedule")
			}
		}
	}()
}

// Shutdown stops accepting work and waits for in-flight jobs. The
// queue is closed and fully drained before cancellation, so accepted
// jobs run to completion with a live context; cancellation then stops
// the recurring schedules and any async stragglers.
func (w *Worker) Shutdown() {
	close(w.queue)
	w.queueWg.Wait()
	w.cancel()
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns a snapshot of the pool. FinishedJobs counts every
// job that ran, failures included.
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	return stats
}

func (w *Worker) trackStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.FinishedJobs++
}

func (w *Worker) trackFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
