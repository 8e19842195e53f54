package arbiter

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Arbiter sends and receives objects over one byte stream. Sends and receives
// may run concurrently with each other; concurrent sends are serialised, as
// are concurrent receives.
//
// A mismatched object is reported after it has been read completely, so the
// next receive starts at the following object. A framing error leaves the
// stream inside the offending object; callers should close the transport.
type Arbiter struct {
	reg *Registry
	in  byteSource
	out *Writer
	log zerolog.Logger

	sendMu sync.Mutex
	recvMu sync.Mutex
}

// New binds an Arbiter to rw. Reads go through one buffer kept for the life
// of the Arbiter; every sent object is flushed before Send returns.
func New(rw io.ReadWriter, opts ...Option) (*Arbiter, error) {
	if rw == nil {
		return nil, ErrNilIO
	}
	o := newOptions(opts)
	reg := o.registry
	if reg == nil {
		reg = Default
	}
	r, err := NewReaderSize(rw, o.readBufferSize)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(rw)
	if err != nil {
		return nil, err
	}
	return &Arbiter{reg: reg, in: r.r, out: w, log: o.logger}, nil
}

// Registry returns the registry the Arbiter resolves schemas with.
func (a *Arbiter) Registry() *Registry { return a.reg }

// Send encodes v and writes it in one piece.
func (a *Arbiter) Send(v any) error {
	wo, err := a.reg.Wire(v)
	if err != nil {
		return err
	}
	a.sendMu.Lock()
	defer a.sendMu.Unlock()
	n, err := wo.WriteTo(a.out)
	if err != nil {
		a.log.Warn().Str("type", wo.schema.name).Err(err).Msg("send failed")
		return err
	}
	a.log.Debug().Str("type", wo.schema.name).Int64("bytes", n).Msg("sent")
	return nil
}

// ReceiveInto reads the next object into a fresh instance created by newFn.
// At a clean end of stream the error wraps io.EOF.
func (a *Arbiter) ReceiveInto(newFn func() Object) (Object, error) {
	return a.receive(func(fp Fingerprint, data []byte) (Object, error) {
		return a.reg.assemble(newFn, fp, data)
	})
}

// ReceiveAny reads the next object into the first candidate it materializes
// into. Candidates whose schema does not fit the wire object are skipped; any
// other error stops the search.
func (a *Arbiter) ReceiveAny(candidates ...func() Object) (Object, error) {
	return a.receive(func(fp Fingerprint, data []byte) (Object, error) {
		var last error
		for _, newFn := range candidates {
			obj, err := a.reg.assemble(newFn, fp, data)
			if err == nil {
				return obj, nil
			}
			if !IsKind(err, KindMismatchedObject) {
				return nil, err
			}
			last = err
		}
		if last != nil {
			return nil, last
		}
		return nil, newError(KindMismatchedObject, "receive", ErrMismatchedObject,
			"no candidate for the structure %s", fp)
	})
}

// receive decodes the next object while recording it and hands the recorded
// bytes to materialize, which may read them any number of times.
func (a *Arbiter) receive(materialize func(Fingerprint, []byte) (Object, error)) (Object, error) {
	a.recvMu.Lock()
	defer a.recvMu.Unlock()

	buf := getRecordBuffer()
	defer putRecordBuffer(buf)

	r, err := NewReader(&recorder{src: a.in, buf: buf})
	if err != nil {
		return nil, err
	}
	fp, err := decodeShape(r)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			a.log.Warn().Err(err).Int64("bytes", r.Count()).Msg("receive failed")
		}
		return nil, err
	}
	obj, err := materialize(fp, buf.Bytes())
	if err != nil {
		a.log.Warn().Err(err).Stringer("fingerprint", fp).Msg("receive failed")
		return nil, err
	}
	a.log.Debug().Stringer("fingerprint", fp).Int("bytes", buf.Len()).Msg("received")
	return obj, nil
}

// Receive reads the next object as a *T.
func Receive[T any, PT interface {
	*T
	Object
}](a *Arbiter) (PT, error) {
	obj, err := a.ReceiveInto(newOf[T, PT]())
	if err != nil {
		return nil, err
	}
	return obj.(PT), nil
}

// recorder keeps a copy of every byte read through it so that the object can
// be read a second time without touching the stream again.
type recorder struct {
	src byteSource
	buf *bytes.Buffer
}

func (rc *recorder) Read(p []byte) (int, error) {
	n, err := rc.src.Read(p)
	rc.buf.Write(p[:n])
	return n, err
}

func (rc *recorder) ReadByte() (byte, error) {
	b, err := rc.src.ReadByte()
	if err == nil {
		rc.buf.WriteByte(b)
	}
	return b, err
}

func newOf[T any, PT interface {
	*T
	Object
}]() func() Object {
	return func() Object { return PT(new(T)) }
}

// Register builds and caches the schema of v's type in Default.
func Register(v any) (*Schema, error) { return Default.Register(v) }

// LengthOf returns the encoded size of v.
func LengthOf(v any) (int, error) { return Default.LengthOf(v) }

// Marshal encodes v with Default.
func Marshal(v any) ([]byte, error) { return Default.Encode(v) }

// Decode reads one object from src and returns its element types.
func Decode(src io.Reader) (Fingerprint, error) { return Default.Decode(src) }

// Unmarshal decodes data, which must hold exactly one object, into a new *T.
func Unmarshal[T any, PT interface {
	*T
	Object
}](data []byte) (PT, error) {
	return UnmarshalWith[T, PT](Default, data)
}

// UnmarshalWith is Unmarshal against reg.
func UnmarshalWith[T any, PT interface {
	*T
	Object
}](reg *Registry, data []byte) (PT, error) {
	obj, err := reg.UnmarshalInto(newOf[T, PT](), data)
	if err != nil {
		return nil, err
	}
	return obj.(PT), nil
}
