package demo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oy3o/arbiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingSchema(t *testing.T) {
	reg := arbiter.NewRegistry()
	s, err := reg.Register(&Reading{})
	require.NoError(t, err)

	assert.Equal(t, arbiter.Fingerprint{
		arbiter.Int, arbiter.Long, arbiter.UUID, arbiter.Boolean, arbiter.Short, arbiter.String,
	}, s.Fingerprint())
}

func TestReadingRoundTrip(t *testing.T) {
	sensor := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	for seq := range 4 {
		in := NewReading(sensor, seq)
		data, err := arbiter.Marshal(in)
		require.NoError(t, err)

		out, err := arbiter.Unmarshal[Reading](data)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestTelemetryArrays(t *testing.T) {
	node := uuid.New()
	in := NewTelemetry(node, 4)

	data, err := arbiter.Marshal(in)
	require.NoError(t, err)
	n, err := arbiter.LengthOf(in)
	require.NoError(t, err)
	assert.Len(t, data, n)

	_, err = arbiter.Unmarshal[Telemetry](data)
	assert.True(t, arbiter.IsKind(err, arbiter.KindUnimplemented))

	reg := arbiter.NewRegistry(arbiter.WithArrayMaterialization())
	out, err := arbiter.UnmarshalWith[Telemetry](reg, data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEmptyTelemetryIsRejected(t *testing.T) {
	_, err := arbiter.Marshal(NewTelemetry(uuid.New(), 0))
	assert.ErrorIs(t, err, arbiter.ErrInvalidArray)
}
