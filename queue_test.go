package stripedb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stripedb/ds"
)

func mutated(index int, c ds.Content) MutatedShard {
	return MutatedShard{Index: index, Content: c}
}

func TestQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(3)
	assert.Equal(t, 3, q.Cap())

	for i := 0; i < 3; i++ {
		require.Nil(t, q.Send(ctx, mutated(i, nil)))
	}
	assert.Equal(t, 3, q.Len())

	for i := 0; i < 3; i++ {
		msg, err := q.Recv(ctx)
		require.Nil(t, err)
		assert.Equal(t, i, msg.(MutatedShard).Index)
	}
}

func TestQueue_SendBlocksWhenFull(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(1)
	require.Nil(t, q.Send(ctx, mutated(0, nil)))

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(ctx, mutated(1, nil))
	}()

	select {
	case <-sent:
		t.Fatal("send on a full queue returned before the queue was drained")
	case <-time.After(50 * time.Millisecond):
	}

	msg, err := q.Recv(ctx)
	require.Nil(t, err)
	assert.Equal(t, 0, msg.(MutatedShard).Index)
	require.Nil(t, <-sent)

	msg, err = q.Recv(ctx)
	require.Nil(t, err)
	assert.Equal(t, 1, msg.(MutatedShard).Index)
}

func TestQueue_SendCancelled(t *testing.T) {
	q := NewQueue(1)
	require.Nil(t, q.Send(context.Background(), mutated(0, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Send(ctx, mutated(1, nil)), context.DeadlineExceeded)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_Close(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(2)
	require.Nil(t, q.Send(ctx, mutated(0, nil)))

	q.Close()
	q.Close()
	assert.ErrorIs(t, q.Send(ctx, mutated(1, nil)), ErrChannelClosed)

	// buffered messages survive the close
	msg, err := q.Recv(ctx)
	require.Nil(t, err)
	assert.Equal(t, 0, msg.(MutatedShard).Index)

	_, err = q.Recv(ctx)
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestQueue_CloseUnblocksSender(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(1)
	require.Nil(t, q.Send(ctx, mutated(0, nil)))

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(ctx, mutated(1, nil))
	}()
	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-sent:
		assert.ErrorIs(t, err, ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked sender was not released by Close")
	}
}

func TestQueue_RecvCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewQueue(1).Recv(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
