package arbiter

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Object is the network-object marker. NetworkFields returns the
// participating fields of the receiver, bound to its own storage, in the
// same order for every instance of the type.
//
//	func (r *Reading) NetworkFields() []arbiter.FieldSpec {
//		return []arbiter.FieldSpec{
//			arbiter.Field("id", 0, &r.ID),
//			arbiter.Field("name", 1, &r.Name),
//			arbiter.Optional("score", 2, &r.Score),
//		}
//	}
type Object interface {
	NetworkFields() []FieldSpec
}

// FieldSpec describes one participating field. Ptr is both the getter and the
// setter of the field.
type FieldSpec struct {
	Name      string
	Placement int
	Optional  bool
	Ptr       any
}

// Field describes a required field. ptr must point at one of int8, uint8,
// int16, uint16, int32, uint32, int64, uint64, bool, uuid.UUID, string, or a
// slice of one of the fixed-size types.
func Field(name string, placement int, ptr any) FieldSpec {
	return FieldSpec{Name: name, Placement: placement, Ptr: ptr}
}

// Optional describes an optional basic field. ptr must point at a pointer to
// a fixed-size type; a nil inner pointer is sent as absent.
func Optional(name string, placement int, ptr any) FieldSpec {
	return FieldSpec{Name: name, Placement: placement, Optional: true, Ptr: ptr}
}

func (f FieldSpec) String() string {
	opt := ""
	if f.Optional {
		opt = ", optional"
	}
	return fmt.Sprintf("%q (placement %d%s)", f.Name, f.Placement, opt)
}

// basic is the set of Go types carried by a fixed-size element.
type basic interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | bool | uuid.UUID
}

// slot is a field bound to one instance.
type slot interface {
	elem() ElementType
	array() bool
	absentable() bool
	present() bool
	// size is the advanced payload length in bytes, 0 for basic slots.
	size() int
	count() int
	put(w *Writer)
	get(r *Reader, n int)
}

type plainSlot[T basic] struct {
	p *T
	t ElementType
}

func (s plainSlot[T]) elem() ElementType    { return s.t }
func (s plainSlot[T]) array() bool          { return false }
func (s plainSlot[T]) absentable() bool     { return false }
func (s plainSlot[T]) present() bool        { return true }
func (s plainSlot[T]) size() int            { return 0 }
func (s plainSlot[T]) count() int           { return 1 }
func (s plainSlot[T]) put(w *Writer)        { writeBasic(w, *s.p) }
func (s plainSlot[T]) get(r *Reader, _ int) { readBasic(r, s.p) }

type optionalSlot[T basic] struct {
	p **T
	t ElementType
}

func (s optionalSlot[T]) elem() ElementType { return s.t }
func (s optionalSlot[T]) array() bool       { return false }
func (s optionalSlot[T]) absentable() bool  { return true }
func (s optionalSlot[T]) present() bool     { return *s.p != nil }
func (s optionalSlot[T]) size() int         { return 0 }
func (s optionalSlot[T]) count() int        { return 1 }

func (s optionalSlot[T]) put(w *Writer) {
	if *s.p != nil {
		writeBasic(w, **s.p)
	}
}

func (s optionalSlot[T]) get(r *Reader, _ int) {
	v := new(T)
	readBasic(r, v)
	if r.Err() == nil {
		*s.p = v
	}
}

type arraySlot[T basic] struct {
	p *[]T
	t ElementType
}

func (s arraySlot[T]) elem() ElementType { return s.t }
func (s arraySlot[T]) array() bool       { return true }
func (s arraySlot[T]) absentable() bool  { return false }
func (s arraySlot[T]) present() bool     { return true }
func (s arraySlot[T]) size() int         { return len(*s.p) * s.t.fixedLength() }
func (s arraySlot[T]) count() int        { return len(*s.p) }

func (s arraySlot[T]) put(w *Writer) {
	for _, v := range *s.p {
		writeBasic(w, v)
	}
}

func (s arraySlot[T]) get(r *Reader, n int) {
	width := s.t.fixedLength()
	if width == 0 {
		return
	}
	items := make([]T, n/width)
	for i := range items {
		readBasic(r, &items[i])
	}
	if r.Err() == nil {
		*s.p = items
	}
}

type stringSlot struct{ p *string }

func (s stringSlot) elem() ElementType { return String }
func (s stringSlot) array() bool       { return false }
func (s stringSlot) absentable() bool  { return false }
func (s stringSlot) present() bool     { return true }
func (s stringSlot) size() int         { return len(*s.p) }
func (s stringSlot) count() int        { return 1 }
func (s stringSlot) put(w *Writer)     { _, _ = w.WriteString(*s.p) }

func (s stringSlot) get(r *Reader, n int) {
	b := r.ReadBytes(n)
	if r.Err() == nil {
		*s.p = string(b)
	}
}

func matcher[T basic](t ElementType) func(any) (slot, bool) {
	return func(ptr any) (slot, bool) {
		switch p := ptr.(type) {
		case *T:
			return plainSlot[T]{p, t}, true
		case **T:
			return optionalSlot[T]{p, t}, true
		case *[]T:
			return arraySlot[T]{p, t}, true
		}
		return nil, false
	}
}

var matchers = [...]func(any) (slot, bool){
	matcher[int8](Byte),
	matcher[uint8](Byte),
	matcher[int16](Short),
	matcher[uint16](Short),
	matcher[int32](Int),
	matcher[uint32](Int),
	matcher[int64](Long),
	matcher[uint64](Long),
	matcher[bool](Boolean),
	matcher[uuid.UUID](UUID),
}

// bind resolves a FieldSpec to a slot and checks the optional flag against
// the shape of the pointer.
func bind(f FieldSpec) (slot, error) {
	s, err := resolve(f.Ptr)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f, err)
	}
	switch {
	case f.Optional && s.elem().IsAdvanced(), f.Optional && s.array():
		return nil, fmt.Errorf("%w: field %s", ErrOptionalUnsupported, f)
	case f.Optional && !s.absentable():
		return nil, fmt.Errorf("%w: optional field %s must be a pointer to a pointer", ErrUnsupportedType, f)
	case !f.Optional && s.absentable():
		return nil, fmt.Errorf("%w: field %s is a pointer to a pointer, describe it with Optional", ErrUnsupportedType, f)
	}
	return s, nil
}

func resolve(ptr any) (slot, error) {
	switch p := ptr.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil accessor", ErrUnsupportedType)
	case *string:
		return stringSlot{p}, nil
	case **string:
		return nil, ErrOptionalUnsupported
	case *[]string:
		return nil, ErrArraysOfStrings
	}
	for _, m := range matchers {
		if s, ok := m(ptr); ok {
			return s, nil
		}
	}
	// Only the error path looks at type metadata, to name the failure.
	t := reflect.TypeOf(ptr)
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Slice {
		if k := t.Elem().Elem().Kind(); k == reflect.Slice || k == reflect.Array && t.Elem().Elem() != reflect.TypeOf(uuid.UUID{}) {
			return nil, fmt.Errorf("%w: %s", ErrNestedArrays, t)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func writeBasic[T basic](w *Writer, v T) {
	switch x := any(v).(type) {
	case int8:
		w.WriteInt8(x)
	case uint8:
		w.WriteUint8(x)
	case int16:
		w.WriteInt16(x)
	case uint16:
		w.WriteUint16(x)
	case int32:
		w.WriteInt32(x)
	case uint32:
		w.WriteUint32(x)
	case int64:
		w.WriteInt64(x)
	case uint64:
		w.WriteUint64(x)
	case bool:
		w.WriteBool(x)
	case uuid.UUID:
		w.WriteBytes(x[:])
	}
}

func readBasic[T basic](r *Reader, p *T) {
	switch x := any(p).(type) {
	case *int8:
		r.ReadInt8(x)
	case *uint8:
		r.ReadUint8(x)
	case *int16:
		r.ReadInt16(x)
	case *uint16:
		r.ReadUint16(x)
	case *int32:
		r.ReadInt32(x)
	case *uint32:
		r.ReadUint32(x)
	case *int64:
		r.ReadInt64(x)
	case *uint64:
		r.ReadUint64(x)
	case *bool:
		r.ReadBool(x)
	case *uuid.UUID:
		r.ReadBytesTo(x[:])
	}
}
