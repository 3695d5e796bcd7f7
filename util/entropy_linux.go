package util

import (
	"golang.org/x/sys/unix"
)

// readEntropy reads from the getrandom(2) syscall, retrying on EINTR. Flags are
// zero, so the call blocks until the kernel pool is initialized.
func readEntropy(b []byte) (int, error) {
	read := 0
	for read < len(b) {
		n, err := unix.Getrandom(b[read:], 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return read, err
		}
		read += n
	}
	return read, nil
}
