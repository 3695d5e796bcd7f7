package stripedb

import (
	"context"
	"sync"
)

// Broadcaster fans every published ReconcileResult out to all subscriptions
// that exist at publish time. Each subscription buffers up to capacity
// messages; when a slow subscriber's buffer is full the oldest message is
// dropped and its next Recv reports a *LagError.
type Broadcaster struct {
	mu       sync.Mutex
	subs     map[*Subscription]struct{}
	capacity int
	closed   bool
}

func NewBroadcaster(capacity int) *Broadcaster {
	return &Broadcaster{
		subs:     make(map[*Subscription]struct{}),
		capacity: max(capacity, 1),
	}
}

// Subscribe registers a new subscription. It only sees messages published
// after this call. Subscribing to a closed broadcaster yields a closed
// subscription.
func (b *Broadcaster) Subscribe() *Subscription {
	s := &Subscription{
		b:      b,
		notify: make(chan struct{}, 1),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.closed = true
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Publish delivers msg to every current subscription and returns how many
// received it.
func (b *Broadcaster) Publish(msg ReconcileResult) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, ErrChannelClosed
	}
	for s := range b.subs {
		s.push(msg, b.capacity)
	}
	return len(b.subs), nil
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription. Buffered messages can still be received.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.close()
	}
	b.subs = nil
}

func (b *Broadcaster) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s)
}

type Subscription struct {
	b      *Broadcaster
	mu     sync.Mutex
	buf    []ReconcileResult
	missed uint64
	closed bool
	notify chan struct{}
}

func (s *Subscription) push(msg ReconcileResult, capacity int) {
	s.mu.Lock()
	if len(s.buf) >= capacity {
		s.buf = s.buf[1:]
		s.missed++
	}
	s.buf = append(s.buf, msg)
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Recv blocks until a message is available, ctx is done or the broadcaster is
// closed and this subscription drained. If messages were dropped since the
// last call it first returns a *LagError; the following call resumes with
// the oldest retained message.
func (s *Subscription) Recv(ctx context.Context) (ReconcileResult, error) {
	for {
		s.mu.Lock()
		if s.missed > 0 {
			missed := s.missed
			s.missed = 0
			s.mu.Unlock()
			return ReconcileResult{}, &LagError{Missed: missed}
		}
		if len(s.buf) > 0 {
			msg := s.buf[0]
			s.buf = s.buf[1:]
			s.mu.Unlock()
			return msg, nil
		}
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return ReconcileResult{}, ErrChannelClosed
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return ReconcileResult{}, ctx.Err()
		}
	}
}

// Latest drains everything buffered and returns the newest message without
// blocking. Lag is discarded since only the newest pool matters to adopters.
func (s *Subscription) Latest() (ReconcileResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missed = 0
	if len(s.buf) == 0 {
		return ReconcileResult{}, false
	}
	msg := s.buf[len(s.buf)-1]
	s.buf = nil
	return msg, true
}

// Unsubscribe detaches the subscription; it will receive nothing further.
func (s *Subscription) Unsubscribe() {
	s.b.remove(s)
	s.close()
}
