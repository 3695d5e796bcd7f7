package util

import "encoding/binary"

// Int32ToKey encodes an int32 into 4 big-endian bytes with the sign bit
// flipped, so byte-wise ordering of the result matches numeric ordering.
func Int32ToKey(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v)^(1<<31))
	return b
}

// KeyToInt32 is the inverse of Int32ToKey. It panics if b is shorter than 4 bytes.
func KeyToInt32(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b[:4]) ^ (1 << 31))
}
