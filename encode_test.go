package arbiter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScenario(t *testing.T) {
	reg := NewRegistry()
	data, err := reg.Encode(&scenario{ID: 42, Name: "hi"})
	require.NoError(t, err)

	want := []byte{
		'Z', 'N', 'A', 0x01, 0x00, 0x02,
		0x03, 0x00, 0x00, 0x00, 0x2A, // id
		0x07, 0x02, // name header
		'h', 'i',
		0xFF,
	}
	assert.Equal(t, want, data)

	n, err := reg.LengthOf(&scenario{ID: 42, Name: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}

func TestEncodeOptionalPresence(t *testing.T) {
	data, err := NewRegistry().Encode(&optionals{B: Ptr(true), C: -1})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'Z', 'N', 'A', 0x01, 0x00, 0x03,
		0x83,       // a: optional, absent, no payload
		0xC5, 0x01, // b: optional, present
		0x01, 0xFF, // c
		0xFF,
	}, data)
}

func TestEncodeByteArray(t *testing.T) {
	data, err := NewRegistry().Encode(&byteArray{Data: []uint8{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, []byte{'Z', 'N', 'A', 0x01, 0x00, 0x01, 0x08, 0x01, 0x03, 0x01, 0x02, 0x03, 0xFF}, data)
}

func TestEncodeAdvancedOrder(t *testing.T) {
	m := &mixed{
		Seq:     7,
		Label:   "ab",
		Samples: []int32{-1},
		Note:    "z",
		IDs:     []uuid.UUID{uuid.Nil},
	}
	data, err := NewRegistry().Encode(m)
	require.NoError(t, err)

	var want bytes.Buffer
	want.Write([]byte{'Z', 'N', 'A', 0x01, 0x00, 0x05})
	want.Write([]byte{0x02, 0x00, 0x07})
	want.Write([]byte{0x07, 0x02})       // label
	want.Write([]byte{0x08, 0x03, 0x04}) // samples
	want.Write([]byte{0x07, 0x01})       // note
	want.Write([]byte{0x08, 0x06, 0x10}) // ids
	want.WriteString("ab")
	want.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	want.WriteString("z")
	want.Write(make([]byte, 16))
	want.WriteByte(0xFF)
	assert.Equal(t, want.Bytes(), data)
}

func TestLengthMatchesEncoding(t *testing.T) {
	reg := NewRegistry()
	objs := []Object{
		&scenario{Name: strings.Repeat("x", 255)},
		&allBasic{ID: uuid.New()},
		&optionals{},
		&optionals{A: Ptr(int32(1)), B: Ptr(false)},
		&byteArray{Data: make([]uint8, 255)},
		&mixed{Samples: []int32{1, 2}, IDs: []uuid.UUID{uuid.New()}},
	}
	for _, obj := range objs {
		n, err := reg.LengthOf(obj)
		require.NoError(t, err, "%T", obj)
		data, err := reg.Encode(obj)
		require.NoError(t, err, "%T", obj)
		assert.Len(t, data, n, "%T", obj)
	}
}

func TestEncodeRejects(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Encode(&scenario{Name: strings.Repeat("x", 256)})
	assert.ErrorIs(t, err, ErrAdvancedOverflow)
	assert.Equal(t, KindInvalidSchema, KindOf(err))

	_, err = reg.Encode(&mixed{Samples: make([]int32, 64), IDs: []uuid.UUID{uuid.Nil}})
	assert.ErrorIs(t, err, ErrAdvancedOverflow)

	_, err = reg.Encode(&byteArray{})
	assert.ErrorIs(t, err, ErrInvalidArray)
	assert.Equal(t, KindInvalidSchema, KindOf(err))

	_, err = reg.Encode(notAnObject{})
	assert.ErrorIs(t, err, ErrNotANetworkObject)
	assert.Equal(t, KindNotANetworkObject, KindOf(err))

	_, err = reg.Encode("hello")
	assert.Equal(t, KindNotANetworkObject, KindOf(err))
}

func TestWireObjectLengthFollowsContent(t *testing.T) {
	obj := &optionals{}
	w, err := NewRegistry().Wire(obj)
	require.NoError(t, err)

	n, err := w.Length()
	require.NoError(t, err)
	assert.Equal(t, 7+1+1+2, n)

	obj.A = Ptr(int32(5))
	n, err = w.Length()
	require.NoError(t, err)
	assert.Equal(t, 7+5+1+2, n)

	obj.A = nil
	assert.Equal(t, 7+1+1+2, w.Size())
}

func TestWireObjectMarshalTo(t *testing.T) {
	w, err := NewRegistry().Wire(&scenario{ID: 1, Name: "abc"})
	require.NoError(t, err)

	_, err = w.MarshalTo(make([]byte, w.Size()-1))
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	buf := bytes.Repeat([]byte{0xEE}, w.Size()+4)
	n, err := w.MarshalTo(buf)
	require.NoError(t, err)
	assert.Equal(t, w.Size(), n)
	assert.Equal(t, byte(0xFF), buf[n-1])
	assert.Equal(t, []byte{0xEE, 0xEE, 0xEE, 0xEE}, buf[n:], "bytes past the object are untouched")

	want, err := w.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, want, buf[:n])
}

func TestWireObjectWriteTo(t *testing.T) {
	w, err := NewRegistry().Wire(&scenario{ID: 1, Name: "abc"})
	require.NoError(t, err)

	var out mockFlushingWriter
	n, err := w.WriteTo(&out)
	require.NoError(t, err)
	assert.EqualValues(t, w.Size(), n)
	assert.EqualValues(t, w.Size(), out.Len())
	assert.True(t, out.flushed)

	_, err = w.WriteTo(failingWriter{})
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
