package util

import (
	"errors"
	"fmt"
)

var ErrShortEntropy = errors.New("entropy source returned fewer bytes than requested")

// ReadEntropy fills b with cryptographically strong random bytes from the
// operating system.
func ReadEntropy(b []byte) error {
	n, err := readEntropy(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("%w: got %d of %d", ErrShortEntropy, n, len(b))
	}
	return nil
}
