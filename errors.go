package stripedb

import (
	"errors"
	"fmt"
)

var (
	ErrChannelClosed      = errors.New("channel closed")
	ErrEntropyUnavailable = errors.New("entropy source unavailable")
	ErrInvalidConfig      = errors.New("invalid config")
	ErrDBClosed           = errors.New("db is closed")
	ErrAlreadyStarted     = errors.New("workers already started")
	ErrLagged             = errors.New("subscriber lagged behind broadcast")
)

// LagError reports how many published messages a subscription lost because its
// buffer was full. It matches ErrLagged with errors.Is.
type LagError struct {
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("%v: missed %d messages", ErrLagged, e.Missed)
}

func (e *LagError) Is(target error) bool {
	return target == ErrLagged
}
