package stripedb

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"stripedb/util"
)

// RandomSource is a ChaCha8 generator seeded from the operating system's
// entropy source and shared behind a mutex.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSource() (*RandomSource, error) {
	var seed [32]byte
	if err := util.ReadEntropy(seed[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return newRandomSourceFromSeed(seed), nil
}

func newRandomSourceFromSeed(seed [32]byte) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewChaCha8(seed))}
}

// NextInt32 draws over the full int32 range, negatives included.
func (r *RandomSource) NextInt32() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int32(r.rng.Uint32())
}
