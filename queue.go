package stripedb

import (
	"context"
	"sync"
)

// Queue is the bounded FIFO between the mutation worker and the reconciler.
// Send blocks while the queue is full and never drops a message. After Close,
// Send fails with ErrChannelClosed while Recv keeps draining buffered messages
// until the queue is empty.
type Queue struct {
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex // held for reading by senders, for writing when closing ch
}

func NewQueue(capacity int) *Queue {
	return &Queue{
		ch:   make(chan Message, max(capacity, 0)),
		done: make(chan struct{}),
	}
}

// Send blocks until msg is queued, ctx is done or the queue is closed.
func (q *Queue) Send(ctx context.Context, msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	select {
	case <-q.done:
		return ErrChannelClosed
	default:
	}

	select {
	case q.ch <- msg:
		return nil
	case <-q.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks until a message is available or ctx is done. It returns
// ErrChannelClosed once the queue is closed and drained.
func (q *Queue) Recv(ctx context.Context) (Message, error) {
	select {
	case msg, ok := <-q.ch:
		if !ok {
			return nil, ErrChannelClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close is idempotent.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		q.mu.Lock()
		close(q.ch)
		q.mu.Unlock()
	})
}

// Len returns the number of buffered messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) Cap() int {
	return cap(q.ch)
}
