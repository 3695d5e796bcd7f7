package util

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt32ToKey_RoundTrip(t *testing.T) {
	for _, v := range []int32{math.MinInt32, -1, 0, 1, 42, math.MaxInt32} {
		assert.Equal(t, v, KeyToInt32(Int32ToKey(v)))
	}
}

func TestInt32ToKey_Ordering(t *testing.T) {
	values := []int32{math.MinInt32, -70000, -1, 0, 1, 255, 256, math.MaxInt32}
	for i := 1; i < len(values); i++ {
		prev, cur := Int32ToKey(values[i-1]), Int32ToKey(values[i])
		assert.Equal(t, -1, bytes.Compare(prev, cur), "%d should sort before %d", values[i-1], values[i])
	}
}
