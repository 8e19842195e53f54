package arbiter

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func benchmarkObject() *allBasic {
	return &allBasic{I: 1, L: 100, UL: 200, Flag: true, ID: uuid.New()}
}

func BenchmarkEncode(b *testing.B) {
	reg := NewRegistry()
	obj := benchmarkObject()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.Encode(obj)
	}
}

func BenchmarkWireMarshalTo(b *testing.B) {
	w, err := NewRegistry().Wire(benchmarkObject())
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, w.Size())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = w.MarshalTo(buf)
	}
}

func BenchmarkLengthCached(b *testing.B) {
	w, err := NewRegistry().Wire(&scenario{ID: 1, Name: "benchmark"})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = w.Length()
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	reg := NewRegistry()
	data, err := reg.Encode(benchmarkObject())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = UnmarshalWith[allBasic](reg, data)
	}
}

func BenchmarkArbiterLoopback(b *testing.B) {
	var buf bytes.Buffer
	a, err := New(&buf, WithRegistry(NewRegistry()))
	if err != nil {
		b.Fatal(err)
	}
	obj := &scenario{ID: 1, Name: "benchmark"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Send(obj)
		_, _ = Receive[scenario](a)
	}
}
