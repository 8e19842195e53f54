package arbiter

import (
	"bufio"
	"io"
)

type byteSource interface {
	io.Reader
	io.ByteReader
}

// Reader provides a buffered reader that simplifies reading wire data.
// It tracks the first error. Subsequent reads become no-ops.
type Reader struct {
	r     byteSource
	count int64 // total bytes read
	err   error // first error encountered.
}

// NewReaderSize creates a new Reader with a specified buffer size. Sources
// that already read byte by byte cheaply are used as they are, so a Reader
// created over another Reader shares its buffer.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying buffer; the count starts over.
	case *Reader:
		return &Reader{r: reader.r}, nil

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: reader}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case byteSource:
		return &Reader{r: reader}, nil
	}

	if size <= 0 {
		size = BUFFER_SIZE
	}
	return &Reader{r: bufio.NewReaderSize(r, size)}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 0)
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	r.ReadBytesTo(buf)
	if r.err != nil {
		return nil
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

// ReadBytesTo fills dest completely.
func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	n, err := io.ReadFull(r.r, dest)
	r.count += int64(n)
	if err != nil {
		r.err = r.eof(err)
	}
}

// Discard skips n bytes.
func (r *Reader) Discard(n int64) {
	if r.err != nil || n == 0 {
		return
	}
	skipped, err := Discard(r.r, n)
	r.count += skipped
	if err == nil && skipped < n {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		r.err = r.eof(err)
	}
}

// eof distinguishes a clean end of stream, before any byte of the current
// object, from a stream that ends inside it.
func (r *Reader) eof(err error) error {
	if err == io.EOF && r.count > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}

// --- Primitive Read Operations ---

func (r *Reader) ReadBool(dest *bool) {
	var b uint8
	r.ReadUint8(&b)
	if r.err == nil {
		*dest = b != 0
	}
}

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = r.eof(err)
	}
	return b, r.err
}

func (r *Reader) ReadUint8(dest *uint8) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = b
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = Order.Uint16(buf)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = Order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = Order.Uint64(buf)
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = int8(b)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = int16(Order.Uint16(buf))
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = int32(Order.Uint32(buf))
	}
}

func (r *Reader) ReadInt64(dest *int64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = int64(Order.Uint64(buf))
	}
}
