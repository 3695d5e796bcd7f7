package ds

import (
	"maps"

	"stripedb/util"
)

// Content is the mapping owned by one shard.
type Content map[int32]string

// Entry is a single key/value pair of a Content.
type Entry struct {
	Key   int32
	Value string
}

func NewContent() Content {
	return make(Content)
}

func (c Content) Len() int {
	return len(c)
}

// Clone returns an independent copy. Cloning a nil Content yields an empty one.
func (c Content) Clone() Content {
	if c == nil {
		return NewContent()
	}
	return maps.Clone(c)
}

func (c Content) Equal(other Content) bool {
	return maps.Equal(c, other)
}

// Fingerprint is an order-independent murmur3 digest of all entries. Equal
// contents always have equal fingerprints.
func (c Content) Fingerprint() uint64 {
	var sum uint64
	for k, v := range c {
		sum += util.EntryHash(k, v)
	}
	return sum
}

// SortedEntries returns the entries ordered by key.
func (c Content) SortedEntries() []Entry {
	tree := NewART()
	for k, v := range c {
		tree.Put(util.Int32ToKey(k), v)
	}

	entries := make([]Entry, 0, tree.Size())
	tree.Walk(func(key []byte, value interface{}) bool {
		entries = append(entries, Entry{Key: util.KeyToInt32(key), Value: value.(string)})
		return true
	})
	return entries
}
