//go:build !linux

package util

import (
	"crypto/rand"
	"io"
)

// readEntropy falls back to crypto/rand outside linux.
func readEntropy(b []byte) (int, error) {
	return io.ReadFull(rand.Reader, b)
}
