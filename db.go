// Package stripedb is an in-memory key/value map split into independently
// locked shards. A mutation worker writes into whichever shards it can lock
// without waiting; a reconciler periodically republishes the whole pool with
// the largest shard content it has seen. Holders of an older pool keep using
// it until they adopt the newly published one.
package stripedb

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"stripedb/ds"
	"stripedb/util"
)

type DB struct {
	cfg        *Config
	rand       *RandomSource
	queue      *Queue
	broadcast  *Broadcaster
	mutator    *MutationWorker
	reconciler *Reconciler

	pool     atomic.Pointer[ds.ShardPool]
	adoptSub *Subscription
	adoptMu  sync.Mutex // orders drain-and-store of adoptSub

	// mutatorSub is subscribed at Open so Start cannot miss a publication made
	// by a manual RunReconcilePass in between.
	mutatorSub *Subscription

	mu             sync.Mutex
	started        bool
	closed         bool
	cancelMutator  context.CancelFunc
	mutatorDone    chan struct{}
	reconcilerDone chan struct{}
	done           chan struct{}
	err            error
}

// Open builds the random source, the initial pool of empty shards, the queue
// and the broadcaster. Workers are not running until Start.
func Open(cfg Config) (*DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Verbose {
		util.EnableVerbose()
	} else {
		util.DisableVerbose()
	}

	rnd, err := NewRandomSource()
	if err != nil {
		return nil, err
	}
	ids, err := ds.NewIDGenerator(cfg.NodeID)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	pool, err := ds.NewShardPool(cfg.ShardCount, ids)
	if err != nil {
		return nil, err
	}

	db := &DB{
		cfg:       &cfg,
		rand:      rnd,
		queue:     NewQueue(cfg.QueueCapacity),
		broadcast: NewBroadcaster(cfg.BroadcastCapacity),
		done:      make(chan struct{}),
	}
	db.pool.Store(pool)
	db.adoptSub = db.broadcast.Subscribe()
	db.mutatorSub = db.broadcast.Subscribe()
	db.mutator = NewMutationWorker(rnd, db.queue, cfg.MutationInterval)
	db.reconciler = NewReconciler(db.queue, db.broadcast, pool)
	return db, nil
}

// Start runs the mutation worker and the reconciler in their own goroutines
// until ctx is cancelled or Close is called. Done is closed once both have
// returned; Err reports the first failure that was not a requested shutdown.
func (db *DB) Start(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDBClosed
	}
	if db.started {
		return ErrAlreadyStarted
	}
	db.started = true

	mctx, cancel := context.WithCancel(ctx)
	db.cancelMutator = cancel
	db.mutatorDone = make(chan struct{})
	db.reconcilerDone = make(chan struct{})

	pool := db.Pool()
	go func() {
		defer close(db.mutatorDone)
		db.setErr(db.mutator.Run(mctx, pool, db.mutatorSub))
	}()
	go func() {
		defer close(db.reconcilerDone)
		db.setErr(db.reconciler.Run(ctx))
	}()
	go func() {
		<-db.mutatorDone
		<-db.reconcilerDone
		close(db.done)
	}()
	return nil
}

func (db *DB) setErr(err error) {
	if err == nil {
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	// the reconciler sees a closed queue on every orderly Close
	if db.closed && errors.Is(err, ErrChannelClosed) {
		return
	}
	if db.err == nil {
		db.err = err
	}
}

// Done is closed once the workers started by Start have both returned.
func (db *DB) Done() <-chan struct{} {
	return db.done
}

// Err returns the first error that terminated a worker, or nil.
func (db *DB) Err() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.err
}

// Pool returns the newest pool published so far.
func (db *DB) Pool() *ds.ShardPool {
	db.adoptMu.Lock()
	defer db.adoptMu.Unlock()
	if msg, ok := db.adoptSub.Latest(); ok {
		db.pool.Store(msg.Pool)
	}
	return db.pool.Load()
}

// WaitForPublish blocks until the reconciler publishes a pool after this call
// and returns it.
func (db *DB) WaitForPublish(ctx context.Context) (*ds.ShardPool, error) {
	sub := db.broadcast.Subscribe()
	defer sub.Unsubscribe()

	for {
		msg, err := sub.Recv(ctx)
		if errors.Is(err, ErrLagged) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return msg.Pool, nil
	}
}

// Baseline returns the reconciler's current size threshold.
func (db *DB) Baseline() int {
	return db.reconciler.Baseline()
}

// RunMutationPass runs a single mutation pass over the current pool. It is
// meant for hosts driving the workers by hand instead of calling Start.
func (db *DB) RunMutationPass(ctx context.Context) (PassReport, error) {
	return db.mutator.RunOnce(ctx, db.Pool())
}

// RunReconcilePass runs a single reconciliation step.
func (db *DB) RunReconcilePass(ctx context.Context) (Decision, error) {
	return db.reconciler.RunOnce(ctx)
}

// Get returns the value of key from the first shard of the current pool that
// holds it. Shards may disagree until the next publication.
func (db *DB) Get(key int32) (string, bool) {
	pool := db.Pool()
	for i := 0; i < pool.Len(); i++ {
		shard := pool.Get(i)
		shard.Lock()
		val, ok := shard.Get(key)
		shard.Unlock()
		if ok {
			return val, true
		}
	}
	return "", false
}

// Snapshot copies the current pool for diagnostics.
func (db *DB) Snapshot() Snapshot {
	return newSnapshot(db.Pool(), db.Baseline())
}

// Close stops the mutation worker, lets the reconciler drain everything still
// queued, then closes the broadcaster.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return ErrDBClosed
	}
	db.closed = true
	started := db.started
	db.mu.Unlock()

	if started {
		db.cancelMutator()
		<-db.mutatorDone
	}
	db.queue.Close()
	if started {
		<-db.reconcilerDone
	} else {
		close(db.done)
	}
	db.broadcast.Close()
	return nil
}
