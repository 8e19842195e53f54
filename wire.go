package arbiter

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/spaolacci/murmur3"
)

// WireObject is one object bound to its schema, ready to be encoded. It
// caches the encoded length and recomputes it only when the parts of the
// object the length depends on have changed since the last call.
//
// A WireObject reads the object's fields at every call; callers that mutate
// the object concurrently with an encode must synchronise themselves.
type WireObject struct {
	schema   *Schema
	obj      Object
	basic    []slot
	advanced []slot

	mu     sync.Mutex
	length int
	hash   uint64
	sized  bool
}

// Wire binds v to its schema, registering the type on first use.
func (reg *Registry) Wire(v any) (*WireObject, error) {
	obj, err := asObject("wire", v)
	if err != nil {
		return nil, err
	}
	schema, err := reg.schemaFor(obj)
	if err != nil {
		return nil, err
	}
	basic, advanced, err := schema.bind(obj)
	if err != nil {
		return nil, err
	}
	return &WireObject{schema: schema, obj: obj, basic: basic, advanced: advanced}, nil
}

// Schema returns the schema the object is encoded with.
func (w *WireObject) Schema() *Schema { return w.schema }

// Object returns the bound object.
func (w *WireObject) Object() Object { return w.obj }

// shapeHash digests everything the encoded length depends on: which optional
// fields are present and how large every advanced payload is.
func (w *WireObject) shapeHash() uint64 {
	h := murmur3.New64()
	var buf [8]byte
	for _, s := range w.basic {
		if s.absentable() {
			buf[0] = 0
			if s.present() {
				buf[0] = 1
			}
			_, _ = h.Write(buf[:1])
		}
	}
	for _, s := range w.advanced {
		binary.BigEndian.PutUint32(buf[:4], uint32(s.count()))
		binary.BigEndian.PutUint32(buf[4:], uint32(s.size()))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Length returns the exact encoded size of the object.
func (w *WireObject) Length() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lengthLocked()
}

func (w *WireObject) lengthLocked() (int, error) {
	h := w.shapeHash()
	if w.sized && h == w.hash {
		return w.length, nil
	}
	n, err := objectLength(w.schema, w.basic, w.advanced)
	if err != nil {
		w.sized = false
		return 0, err
	}
	w.length, w.hash, w.sized = n, h, true
	return n, nil
}

// Size implements Sizer. It returns 0 when the object cannot be encoded.
func (w *WireObject) Size() int {
	n, err := w.Length()
	if err != nil {
		return 0
	}
	return n
}

// MarshalTo encodes the object into buf, returning io.ErrShortBuffer if buf
// is smaller than Length.
func (w *WireObject) MarshalTo(buf []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.lengthLocked()
	if err != nil {
		return 0, err
	}
	if len(buf) < n {
		return 0, io.ErrShortBuffer
	}
	return w.encodeLocked(buf[:n:n])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (w *WireObject) MarshalBinary() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.lengthLocked()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := w.encodeLocked(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteTo encodes the object and hands it to dst in a single Write, flushing
// dst afterwards if it buffers.
func (w *WireObject) WriteTo(dst io.Writer) (int64, error) {
	const op = "send"
	buf, err := w.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := dst.Write(buf)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}
	if err == nil {
		if f, ok := dst.(flusher); ok {
			err = f.Flush()
		}
	}
	return int64(n), transportError(op, err)
}

// encodeLocked writes the object into buf, which is exactly Length bytes.
func (w *WireObject) encodeLocked(buf []byte) (int, error) {
	bw, err := NewWriter(NewBytesWriter(buf))
	if err != nil {
		return 0, err
	}
	encodeObject(bw, w.schema, w.basic, w.advanced)
	if bw.Err() != nil || bw.Count() != int64(len(buf)) {
		return int(bw.Count()), newError(KindUnknown, "encode", ErrLengthMismatch,
			"%s: computed %d bytes, wrote %d", w.schema.name, len(buf), bw.Count())
	}
	return len(buf), nil
}
