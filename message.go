package stripedb

import "stripedb/ds"

type MessageKind uint8

const (
	KindMutatedShard MessageKind = iota
	KindReconcileResult
)

func (k MessageKind) String() string {
	switch k {
	case KindMutatedShard:
		return "mutated-shard"
	case KindReconcileResult:
		return "reconcile-result"
	default:
		return "unknown"
	}
}

// Message is the closed set of values that travel between the workers.
type Message interface {
	Kind() MessageKind
	isMessage()
}

// MutatedShard carries a copy of a shard's whole content right after a write.
type MutatedShard struct {
	Pool    *ds.ShardPool // pool the shard belonged to
	Index   int
	Content ds.Content
}

func (MutatedShard) Kind() MessageKind { return KindMutatedShard }
func (MutatedShard) isMessage()        {}

// ReconcileResult announces a newly published pool and the baseline it was
// adopted with.
type ReconcileResult struct {
	Pool     *ds.ShardPool
	Baseline int
}

func (ReconcileResult) Kind() MessageKind { return KindReconcileResult }
func (ReconcileResult) isMessage()        {}
