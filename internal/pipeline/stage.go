package pipeline

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// Handler processes one dequeued item. Returned errors are logged and the
// item is dropped; the stage keeps consuming.
type Handler[T any] func(ctx context.Context, item T) error

// Stage is the generic worker-pool consumer every non-root pipeline step is
// built from: one long-lived loop takes items off the input queue, gates
// admission on a counting semaphore sized to the stage's pool, and hands
// each item to its own goroutine. The semaphore is the bulkhead -- a slow
// stage saturates its own pool and stops dequeuing, nothing else.
type Stage[T any] struct {
	name     string
	queue    *Queue[T]
	sem      *semaphore.Weighted
	poolSize int
	log      *logger.Logger
	handler  Handler[T]
}

func NewStage[T any](name string, queue *Queue[T], poolSize int, baseLog *logger.Logger, handler Handler[T]) *Stage[T] {
	return &Stage[T]{
		name:     name,
		queue:    queue,
		sem:      semaphore.NewWeighted(int64(poolSize)),
		poolSize: poolSize,
		log:      baseLog.With("stage", name),
		handler:  handler,
	}
}

// Run consumes until the context is cancelled or the queue is closed.
// Queued-but-unconsumed items are not drained on exit, but Run does not
// return until every dispatched handler has finished, so the caller may
// tear down downstream queues afterwards.
func (s *Stage[T]) Run(ctx context.Context) error {
	s.log.Info("Starting stage", "pool_size", s.poolSize)
	defer s.waitInFlight()
	for {
		item, err := s.queue.Take(ctx)
		if err != nil {
			s.log.Warn("Stopping stage", "reason", err)
			return nil
		}
		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.log.Warn("Stopping stage", "reason", err)
			return nil
		}
		go s.dispatch(ctx, item)
	}
}

// waitInFlight blocks until all permits are back, i.e. no handler is still
// running.
func (s *Stage[T]) waitInFlight() {
	_ = s.sem.Acquire(context.Background(), int64(s.poolSize))
}

// dispatch runs one item. A failure never terminates the consume loop, and
// the permit is released whatever happens.
func (s *Stage[T]) dispatch(ctx context.Context, item T) {
	defer s.sem.Release(1)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Stage task panic", "panic", r)
		}
	}()
	if err := s.handler(ctx, item); err != nil {
		s.log.Error("Stage task failed", "error", err)
	}
}
