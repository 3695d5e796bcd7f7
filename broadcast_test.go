package stripedb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_AllSubscribersReceive(t *testing.T) {
	ctx := context.Background()
	b := NewBroadcaster(4)
	subs := []*Subscription{b.Subscribe(), b.Subscribe(), b.Subscribe()}

	n, err := b.Publish(ReconcileResult{Baseline: 1})
	require.Nil(t, err)
	assert.Equal(t, 3, n)

	for _, s := range subs {
		msg, err := s.Recv(ctx)
		require.Nil(t, err)
		assert.Equal(t, 1, msg.Baseline)
	}
}

func TestBroadcaster_LateSubscriberMisses(t *testing.T) {
	b := NewBroadcaster(4)
	_, err := b.Publish(ReconcileResult{Baseline: 1})
	require.Nil(t, err)

	late := b.Subscribe()
	_, ok := late.Latest()
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = late.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBroadcaster_RecvWaitsForPublish(t *testing.T) {
	b := NewBroadcaster(1)
	s := b.Subscribe()

	got := make(chan ReconcileResult, 1)
	go func() {
		msg, err := s.Recv(context.Background())
		if err == nil {
			got <- msg
		}
	}()
	time.Sleep(10 * time.Millisecond)
	_, err := b.Publish(ReconcileResult{Baseline: 7})
	require.Nil(t, err)

	select {
	case msg := <-got:
		assert.Equal(t, 7, msg.Baseline)
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after Publish")
	}
}

func TestSubscription_Lagged(t *testing.T) {
	ctx := context.Background()
	b := NewBroadcaster(2)
	s := b.Subscribe()

	for i := 1; i <= 5; i++ {
		_, err := b.Publish(ReconcileResult{Baseline: i})
		require.Nil(t, err)
	}

	_, err := s.Recv(ctx)
	require.ErrorIs(t, err, ErrLagged)
	var lag *LagError
	require.ErrorAs(t, err, &lag)
	assert.Equal(t, uint64(3), lag.Missed)

	msg, err := s.Recv(ctx)
	require.Nil(t, err)
	assert.Equal(t, 4, msg.Baseline)
	msg, err = s.Recv(ctx)
	require.Nil(t, err)
	assert.Equal(t, 5, msg.Baseline)
}

func TestSubscription_Latest(t *testing.T) {
	b := NewBroadcaster(3)
	s := b.Subscribe()
	for i := 1; i <= 4; i++ {
		_, err := b.Publish(ReconcileResult{Baseline: i})
		require.Nil(t, err)
	}

	msg, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 4, msg.Baseline)
	_, ok = s.Latest()
	assert.False(t, ok)
}

func TestBroadcaster_Close(t *testing.T) {
	ctx := context.Background()
	b := NewBroadcaster(2)
	s := b.Subscribe()
	_, err := b.Publish(ReconcileResult{Baseline: 1})
	require.Nil(t, err)

	b.Close()
	b.Close()
	_, err = b.Publish(ReconcileResult{Baseline: 2})
	assert.ErrorIs(t, err, ErrChannelClosed)

	msg, err := s.Recv(ctx)
	require.Nil(t, err)
	assert.Equal(t, 1, msg.Baseline)
	_, err = s.Recv(ctx)
	assert.ErrorIs(t, err, ErrChannelClosed)

	_, err = b.Subscribe().Recv(ctx)
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestSubscription_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(2)
	s := b.Subscribe()
	keep := b.Subscribe()
	assert.Equal(t, 2, b.Subscribers())

	s.Unsubscribe()
	assert.Equal(t, 1, b.Subscribers())

	n, err := b.Publish(ReconcileResult{Baseline: 1})
	require.Nil(t, err)
	assert.Equal(t, 1, n)
	_, ok := keep.Latest()
	assert.True(t, ok)

	_, err = s.Recv(context.Background())
	assert.ErrorIs(t, err, ErrChannelClosed)
}
