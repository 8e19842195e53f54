package arbiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []ElementType{Byte, Short, Int, Long, Boolean, UUID, String, Array, SubObject}

func TestElementIDsRoundTrip(t *testing.T) {
	seen := map[byte]ElementType{}
	for i, et := range allTypes {
		assert.EqualValues(t, i+1, et.ID(), "%s", et)

		got, err := TypeOf(et.ID())
		require.NoError(t, err)
		assert.Equal(t, et, got)

		_, dup := seen[et.ID()]
		assert.False(t, dup, "id %d reused", et.ID())
		seen[et.ID()] = et
	}
}

func TestTypeOfUnknown(t *testing.T) {
	for _, id := range []byte{0, 10, 0x3F, 0xFF} {
		_, err := TypeOf(id)
		assert.ErrorIs(t, err, ErrInvalidType)
		assert.Equal(t, KindFraming, KindOf(err))
	}
}

func TestElementLength(t *testing.T) {
	want := map[ElementType]int{Byte: 1, Short: 2, Int: 4, Long: 8, Boolean: 1, UUID: 16}
	for et, n := range want {
		got, err := et.Length()
		require.NoError(t, err)
		assert.Equal(t, n, got, "%s", et)
		assert.True(t, et.IsBasic())
		assert.False(t, et.IsAdvanced())
	}
	for _, et := range []ElementType{String, Array, SubObject} {
		_, err := et.Length()
		assert.ErrorIs(t, err, ErrLengthUndefined, "%s", et)
		assert.True(t, et.IsAdvanced())
	}
}

func TestHeaderBits(t *testing.T) {
	assert.Equal(t, byte(0x03), header(Int, false, true))
	assert.Equal(t, byte(0x83), header(Int, true, false))
	assert.Equal(t, byte(0xC5), header(Boolean, true, true))

	id, optional, present := splitHeader(0xC5)
	assert.Equal(t, Boolean.ID(), id)
	assert.True(t, optional)
	assert.True(t, present)

	id, optional, present = splitHeader(0x83)
	assert.Equal(t, Int.ID(), id)
	assert.True(t, optional)
	assert.False(t, present)

	_, optional, present = splitHeader(0x06)
	assert.False(t, optional)
	assert.True(t, present)
}

func TestElementString(t *testing.T) {
	assert.Equal(t, "UUID", UUID.String())
	assert.Equal(t, "ElementType(42)", ElementType(42).String())
}
