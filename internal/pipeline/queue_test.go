package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueuePreservesFIFOOrder(t *testing.T) {
	q := NewQueue[int]()
	defer q.Close()

	for i := 0; i < 100; i++ {
		q.Put(i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 100; i++ {
		v, err := q.Take(ctx)
		if err != nil {
			t.Fatalf("take %d: %v", i, err)
		}
		if v != i {
			t.Fatalf("order broken: expected %d, got %d", i, v)
		}
	}
}

func TestQueuePutNeverBlocksWithoutConsumer(t *testing.T) {
	q := NewQueue[int]()
	defer q.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			q.Put(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("producer blocked on an unbounded queue")
	}
}

func TestQueueTakeHonorsCancellation(t *testing.T) {
	q := NewQueue[int]()
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Take(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestQueueCloseStopsTake(t *testing.T) {
	q := NewQueue[int]()
	q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := q.Take(ctx)
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}
