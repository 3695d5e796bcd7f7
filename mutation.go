package stripedb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stripedb/ds"
	"stripedb/util"
)

// PassReport records which shards one mutation pass wrote to and which it
// skipped because another goroutine held their lock.
type PassReport struct {
	Pool    *ds.ShardPool
	Mutated []int
	Skipped []int
}

// MutationWorker writes one generated entry into every shard it can lock
// without waiting and forwards the shard's content to the queue.
type MutationWorker struct {
	rand     *RandomSource
	queue    *Queue
	interval time.Duration
}

func NewMutationWorker(rand *RandomSource, queue *Queue, interval time.Duration) *MutationWorker {
	return &MutationWorker{
		rand:     rand,
		queue:    queue,
		interval: interval,
	}
}

// RunOnce attempts every shard of pool once, in index order. Contended shards
// are skipped, not retried. The returned error is ErrChannelClosed if the
// queue was closed, or ctx.Err() if ctx ended while waiting for queue space.
// On error the last index in Mutated was written but not forwarded.
func (w *MutationWorker) RunOnce(ctx context.Context, pool *ds.ShardPool) (PassReport, error) {
	report := PassReport{Pool: pool}
	for idx := 0; idx < pool.Len(); idx++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		shard := pool.Get(idx)
		if !shard.TryLock() {
			report.Skipped = append(report.Skipped, idx)
			continue
		}
		err := w.mutate(ctx, pool, idx, shard)
		report.Mutated = append(report.Mutated, idx)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// mutate expects shard to be locked and releases it.
func (w *MutationWorker) mutate(ctx context.Context, pool *ds.ShardPool, idx int, shard *ds.Shard) error {
	defer shard.Unlock()

	// int32 multiplication wraps on overflow
	key := int32(idx) * w.rand.NextInt32()
	shard.Set(key, fmt.Sprintf("value is %d", idx))

	msg := MutatedShard{Pool: pool, Index: idx, Content: shard.Clone()}
	return w.queue.Send(ctx, msg)
}

// Run performs passes until ctx is cancelled. Before each pass it adopts the
// newest pool published on sub, if any. It returns nil on cancellation and the
// pass error otherwise.
func (w *MutationWorker) Run(ctx context.Context, pool *ds.ShardPool, sub *Subscription) error {
	util.Printf("mutation worker started on pool %v with %d shards", pool.ID(), pool.Len())
	defer util.Printf("mutation worker stopped")

	for {
		if msg, ok := sub.Latest(); ok {
			util.Verbosef("mutation worker adopted pool %v (baseline %d)", msg.Pool.ID(), msg.Baseline)
			pool = msg.Pool
		}

		report, err := w.RunOnce(ctx, pool)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			util.Printf("mutation worker: %v", err)
			return err
		}
		util.Verbosef("mutation pass on pool %v: mutated %v, skipped %v", pool.ID(), report.Mutated, report.Skipped)

		if err := sleepContext(ctx, w.interval); err != nil {
			return nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
