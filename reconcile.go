package stripedb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"stripedb/ds"
	"stripedb/util"
)

var ErrUnexpectedMessage = errors.New("unexpected message kind")

// Decision is the outcome of one reconciliation step.
type Decision struct {
	Published bool
	Baseline  int
	Pool      *ds.ShardPool // the published pool, nil when nothing was published
}

// Reconciler adopts the largest shard content it observes as canonical state.
//
// "Largest wins" carries no causal ordering: more entries is taken to mean
// more recent. Two shards that grew independently cannot be merged, and the
// smaller one's writes are lost when the larger is published. Content that is
// not strictly larger than the baseline is ignored.
type Reconciler struct {
	queue     *Queue
	broadcast *Broadcaster
	mu        sync.Mutex // serializes compare, publish and store across RunOnce callers
	pool      atomic.Pointer[ds.ShardPool] // last canonical pool, template for ReplaceAll
	baseline  atomic.Int64
}

// NewReconciler starts from pool, taking the size of its first shard as the
// baseline.
func NewReconciler(queue *Queue, broadcast *Broadcaster, pool *ds.ShardPool) *Reconciler {
	r := &Reconciler{
		queue:     queue,
		broadcast: broadcast,
	}
	r.pool.Store(pool)
	r.baseline.Store(int64(pool.Get(0).Snapshot().Len()))
	return r
}

func (r *Reconciler) Baseline() int {
	return int(r.baseline.Load())
}

// RunOnce receives one message and decides whether to publish. It returns
// ErrChannelClosed when the queue is closed and drained.
func (r *Reconciler) RunOnce(ctx context.Context) (Decision, error) {
	msg, err := r.queue.Recv(ctx)
	if err != nil {
		return Decision{Baseline: r.Baseline()}, err
	}

	switch m := msg.(type) {
	case MutatedShard:
		return r.reconcile(m)
	default:
		return Decision{Baseline: r.Baseline()}, fmt.Errorf("%w: %v", ErrUnexpectedMessage, msg.Kind())
	}
}

func (r *Reconciler) reconcile(m MutatedShard) (Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	baseline := r.Baseline()
	size := m.Content.Len()
	if size <= baseline {
		return Decision{Baseline: baseline}, nil
	}

	np := r.pool.Load().ReplaceAll(m.Content)
	receivers, err := r.broadcast.Publish(ReconcileResult{Pool: np, Baseline: size})
	if err != nil {
		return Decision{Baseline: baseline}, err
	}
	r.pool.Store(np)
	r.baseline.Store(int64(size))

	util.Verbosef("published pool %v from shard %d: baseline %d -> %d, fingerprint %x, %d receivers",
		np.ID(), m.Index, baseline, size, m.Content.Fingerprint(), receivers)
	return Decision{Published: true, Baseline: size, Pool: np}, nil
}

// Run reconciles until ctx is cancelled or the queue is closed and drained.
// Cancellation returns nil; a closed channel is logged and returned.
func (r *Reconciler) Run(ctx context.Context) error {
	util.Printf("reconciler started with baseline %d", r.Baseline())
	defer util.Printf("reconciler stopped")

	for {
		_, err := r.RunOnce(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnexpectedMessage):
			util.Printf("reconciler: %v", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			util.Printf("reconciler: stream ended: %v", err)
			return err
		}
	}
}
