package arbiter

import (
	"encoding/binary"
	"io"

	"golang.org/x/exp/constraints"
)

// Order is the wire byte order.
var Order = binary.BigEndian

const BUFFER_SIZE = 4096

var discard [BUFFER_SIZE]byte

func Ptr[T any](v T) *T { return &v } // Ptr is a helper to take the address of a value, used for optional fields.

// Discard reads and drops exactly n bytes unless r fails first.
func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := io.ReadFull(r, discard[:n])
		return int64(skip), err
	}
	return io.CopyN(io.Discard, r, n)
}

// fitsByte reports whether n can be carried by a one byte length field.
func fitsByte[T constraints.Integer](n T) bool { return n >= 0 && uint64(n) <= 0xFF }

// sum adds the values produced by f over items.
func sum[E any, T constraints.Integer](items []E, f func(E) T) T {
	var total T
	for _, it := range items {
		total += f(it)
	}
	return total
}
