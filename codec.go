package arbiter

import (
	"encoding"
	"io"
)

// Sizer reports the exact encoded size of a value.
type Sizer interface {
	Size() int
}

// Marshaler encodes a whole object: into a new slice, into a caller's buffer,
// or onto a stream in a single Write.
type Marshaler interface {
	encoding.BinaryMarshaler
	io.WriterTo

	// MarshalTo returns io.ErrShortBuffer if buf cannot hold the object.
	MarshalTo(buf []byte) (int, error)
}

// Encoded is a self-sizing encoder.
type Encoded interface {
	Sizer
	Marshaler
}

var _ Encoded = (*WireObject)(nil)
