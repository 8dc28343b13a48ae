package sync

import (
	"context"
	"errors"
	stdsync "sync"

	"go.uber.org/zap"
)

// ErrQueueFull is returned when the dispatcher cannot accept more work.
var ErrQueueFull = errors.New("job queue is full")

// Job is one unit of background work.
type Job func(ctx context.Context)

// Dispatcher runs submitted jobs on a fixed pool of worker goroutines.
// Submit never blocks the caller, so an upload request can hand off its
// import and return immediately; a stuck job occupies one worker without
// stalling independently submitted work.
type Dispatcher struct {
	jobs   chan Job
	wg     stdsync.WaitGroup
	logger *zap.Logger
}

func NewDispatcher(workers, queueSize int, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		jobs:   make(chan Job, queueSize),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("background job panicked", zap.Any("panic", r))
				}
			}()
			job(context.Background())
		}()
	}
}

// Submit enqueues a job, failing fast when the queue is saturated.
func (d *Dispatcher) Submit(job Job) error {
	select {
	case d.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for in-flight jobs to finish.
func (d *Dispatcher) Close() {
	close(d.jobs)
	d.wg.Wait()
}
