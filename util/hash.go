package util

import (
	"io"

	"github.com/spaolacci/murmur3"
)

type Murmur128 struct {
	mur murmur3.Hash128
}

func NewMurmur128() *Murmur128 {
	return &Murmur128{mur: murmur3.New128()}
}

func (m *Murmur128) Write(p []byte) error {
	n, err := m.mur.Write(p)
	if n != len(p) {
		return io.ErrShortWrite
	}
	return err
}

// Sum128 returns the two halves of the current 128-bit digest.
func (m *Murmur128) Sum128() (uint64, uint64) {
	return m.mur.Sum128()
}

// EntryHash hashes a single key/value pair. The key is encoded with Int32ToKey
// so that equal entries always produce equal hashes regardless of platform.
func EntryHash(key int32, value string) uint64 {
	m := NewMurmur128()
	_ = m.Write(Int32ToKey(key))
	_ = m.Write([]byte(value))
	s1, s2 := m.Sum128()
	return s1 ^ s2
}
