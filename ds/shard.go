package ds

import "sync"

// Shard is one independently lockable partition. Get, Set, Has, Len and Clone
// expect the caller to hold the lock; Snapshot takes it itself.
type Shard struct {
	content    Content
	sync.Mutex // lock for every shard
}

func newShard(content Content) *Shard {
	return &Shard{content: content}
}

// Get gets the value under a given key.
func (s *Shard) Get(key int32) (string, bool) {
	val, ok := s.content[key]
	return val, ok
}

// Set sets the key and value, overwriting any existing entry.
func (s *Shard) Set(key int32, value string) {
	s.content[key] = value
}

// Has returns if the shard contains a specific key.
func (s *Shard) Has(key int32) bool {
	_, ok := s.content[key]
	return ok
}

// Len returns the number of entries.
func (s *Shard) Len() int {
	return len(s.content)
}

// Clone copies the whole content.
func (s *Shard) Clone() Content {
	return s.content.Clone()
}

// Snapshot locks the shard and copies its content.
func (s *Shard) Snapshot() Content {
	s.Lock()
	defer s.Unlock()
	return s.content.Clone()
}
