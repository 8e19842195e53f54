// Package demo holds the object types znactl sends and prints.
package demo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oy3o/arbiter"
)

// Reading is one sensor sample. Celsius is absent when the probe failed.
type Reading struct {
	ID       int32
	Sequence uint64
	Sensor   uuid.UUID
	Healthy  bool
	Celsius  *int16
	Name     string
}

func (r *Reading) NetworkFields() []arbiter.FieldSpec {
	return []arbiter.FieldSpec{
		arbiter.Field("id", 0, &r.ID),
		arbiter.Field("name", 1, &r.Name),
		arbiter.Field("sequence", 1, &r.Sequence),
		arbiter.Field("sensor", 2, &r.Sensor),
		arbiter.Field("healthy", 3, &r.Healthy),
		arbiter.Optional("celsius", 4, &r.Celsius),
	}
}

func (r *Reading) String() string {
	temp := "n/a"
	if r.Celsius != nil {
		temp = fmt.Sprintf("%d°C", *r.Celsius)
	}
	return fmt.Sprintf("reading #%d %q seq=%d sensor=%s healthy=%t temp=%s",
		r.ID, r.Name, r.Sequence, r.Sensor, r.Healthy, temp)
}

// Telemetry batches samples of one node.
type Telemetry struct {
	Node    uuid.UUID
	Label   string
	Samples []int16
	Flags   []uint8
}

func (t *Telemetry) NetworkFields() []arbiter.FieldSpec {
	return []arbiter.FieldSpec{
		arbiter.Field("node", 0, &t.Node),
		arbiter.Field("label", 0, &t.Label),
		arbiter.Field("samples", 1, &t.Samples),
		arbiter.Field("flags", 2, &t.Flags),
	}
}

// NewReading builds a deterministic reading for sequence number seq. Every
// third reading has no temperature.
func NewReading(sensor uuid.UUID, seq int) *Reading {
	r := &Reading{
		ID:       int32(seq % 1000),
		Sequence: uint64(seq),
		Sensor:   sensor,
		Healthy:  seq%5 != 0,
		Name:     fmt.Sprintf("probe-%03d", seq%1000),
	}
	if seq%3 != 0 {
		r.Celsius = arbiter.Ptr(int16(18 + seq%7))
	}
	return r
}

// NewTelemetry builds a telemetry batch of n samples.
func NewTelemetry(node uuid.UUID, n int) *Telemetry {
	t := &Telemetry{Node: node, Label: "batch", Samples: make([]int16, n), Flags: make([]uint8, n)}
	for i := range n {
		t.Samples[i] = int16(i * 10)
		t.Flags[i] = uint8(i % 2)
	}
	return t
}

// Types returns a fresh value of every demo type.
func Types() []arbiter.Object {
	return []arbiter.Object{&Reading{}, &Telemetry{}}
}
