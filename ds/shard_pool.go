package ds

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const (
	DefaultShardCount = 10
)

var ErrInvalidShardCount = errors.New("shard count must be positive")

// IndexError is the panic value of ShardPool.Get for an index outside the pool.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("shard index %d out of range [0, %d)", e.Index, e.Len)
}

// ShardPool is a fixed-size ordered collection of shards. The slice is never
// resized or reordered; a new state is installed by building a whole new pool
// with ReplaceAll.
type ShardPool struct {
	id     snowflake.ID
	parent snowflake.ID
	ids    *IDGenerator
	shards []*Shard
}

// NewShardPool returns a pool of shardCount empty shards.
func NewShardPool(shardCount int, ids *IDGenerator) (*ShardPool, error) {
	if shardCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, shardCount)
	}

	p := &ShardPool{
		id:     ids.Next(),
		ids:    ids,
		shards: make([]*Shard, shardCount),
	}
	for i := 0; i < shardCount; i++ {
		p.shards[i] = newShard(NewContent())
	}
	return p, nil
}

// ID identifies this pool generation.
func (p *ShardPool) ID() snowflake.ID {
	return p.id
}

// Parent is the ID of the pool this one replaced, zero for an initial pool.
func (p *ShardPool) Parent() snowflake.ID {
	return p.parent
}

func (p *ShardPool) Len() int {
	return len(p.shards)
}

// Get returns the shard at index. It panics with *IndexError when index is out
// of range.
func (p *ShardPool) Get(index int) *Shard {
	if index < 0 || index >= len(p.shards) {
		panic(&IndexError{Index: index, Len: len(p.shards)})
	}
	return p.shards[index]
}

// ReplaceAll returns a new pool of the same size where every slot holds its own
// copy of content behind its own lock. Slots must never share a shard: a
// single lock cloned into every slot would serialize all writers again.
func (p *ShardPool) ReplaceAll(content Content) *ShardPool {
	np := &ShardPool{
		id:     p.ids.Next(),
		parent: p.id,
		ids:    p.ids,
		shards: make([]*Shard, len(p.shards)),
	}
	for i := range np.shards {
		np.shards[i] = newShard(content.Clone())
	}
	return np
}

// Snapshot copies every shard's content in index order, locking each shard in
// turn.
func (p *ShardPool) Snapshot() []Content {
	contents := make([]Content, len(p.shards))
	for i, s := range p.shards {
		contents[i] = s.Snapshot()
	}
	return contents
}
