package pipeline

import (
	"context"
	"errors"
)

// ErrQueueClosed is returned by Take after Close once the queue is empty of
// deliverable items.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO connecting two pipeline stages. Capacity is
// never the backpressure mechanism; the consuming stage's semaphore is.
// Items buffered at shutdown are dropped, matching the no-drain cancellation
// contract of the pipeline.
type Queue[T any] struct {
	in  chan T
	out chan T
}

func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{
		in:  make(chan T),
		out: make(chan T),
	}
	go q.pump()
	return q
}

func (q *Queue[T]) pump() {
	var buf []T
	for {
		if len(buf) == 0 {
			v, ok := <-q.in
			if !ok {
				close(q.out)
				return
			}
			buf = append(buf, v)
		}
		select {
		case v, ok := <-q.in:
			if !ok {
				close(q.out)
				return
			}
			buf = append(buf, v)
		case q.out <- buf[0]:
			buf = buf[1:]
		}
	}
}

// Put enqueues one item. Never blocks for long: the pump goroutine is always
// ready to buffer.
func (q *Queue[T]) Put(v T) {
	q.in <- v
}

func (q *Queue[T]) PutAll(vs []T) {
	for _, v := range vs {
		q.Put(v)
	}
}

// Take blocks until an item is available, the context is cancelled, or the
// queue is closed.
func (q *Queue[T]) Take(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v, ok := <-q.out:
		if !ok {
			return zero, ErrQueueClosed
		}
		return v, nil
	}
}

// Close stops the queue. Buffered items are discarded.
func (q *Queue[T]) Close() {
	close(q.in)
}
