package stripedb

import (
	"github.com/bwmarrin/snowflake"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gansidui/skiplist"
	"github.com/samber/lo"

	"stripedb/ds"
)

// ShardStat summarizes one shard of a snapshot.
type ShardStat struct {
	Index       int
	Len         int
	Fingerprint uint64
}

// Snapshot is a point-in-time copy of a pool for diagnostics. Shards are
// copied one after another, so the snapshot is not atomic across shards.
type Snapshot struct {
	PoolID   snowflake.ID
	Parent   snowflake.ID
	Baseline int
	Shards   []ShardStat
	Contents []ds.Content
}

func newSnapshot(pool *ds.ShardPool, baseline int) Snapshot {
	contents := pool.Snapshot()
	stats := make([]ShardStat, len(contents))
	for i, c := range contents {
		stats[i] = ShardStat{Index: i, Len: c.Len(), Fingerprint: c.Fingerprint()}
	}
	return Snapshot{
		PoolID:   pool.ID(),
		Parent:   pool.Parent(),
		Baseline: baseline,
		Shards:   stats,
		Contents: contents,
	}
}

// Total returns the number of entries summed over all shards.
func (s Snapshot) Total() int {
	return lo.SumBy(s.Shards, func(st ShardStat) int {
		return st.Len
	})
}

func (s Snapshot) Fingerprints() []uint64 {
	return lo.Map(s.Shards, func(st ShardStat, _ int) uint64 {
		return st.Fingerprint
	})
}

// Divergent returns the number of distinct shard contents. A freshly
// published pool has exactly one.
func (s Snapshot) Divergent() int {
	return mapset.NewSet[uint64](s.Fingerprints()...).Cardinality()
}

type rankedShard struct {
	ShardStat
}

// Less orders larger shards first, lower index first among equals.
func (r *rankedShard) Less(other interface{}) bool {
	o := other.(*rankedShard)
	if r.Len != o.Len {
		return r.Len > o.Len
	}
	return r.Index < o.Index
}

// Ranked returns the shard stats ordered from largest to smallest.
func (s Snapshot) Ranked() []ShardStat {
	skl := skiplist.New()
	for _, st := range s.Shards {
		skl.Insert(&rankedShard{ShardStat: st})
	}

	ranked := make([]ShardStat, 0, skl.Len())
	for e := skl.Front(); e != nil; e = e.Next() {
		ranked = append(ranked, e.Value.(*rankedShard).ShardStat)
	}
	return ranked
}

// Entries returns the content of shard index ordered by key.
func (s Snapshot) Entries(index int) []ds.Entry {
	return s.Contents[index].SortedEntries()
}
