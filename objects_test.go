package arbiter

import "github.com/google/uuid"

// Object types shared by the tests.

type scenario struct {
	ID   int32
	Name string
}

func (s *scenario) NetworkFields() []FieldSpec {
	return []FieldSpec{
		Field("id", 0, &s.ID),
		Field("name", 1, &s.Name),
	}
}

// wideScenario has the shape of scenario with a Long instead of an Int.
type wideScenario struct {
	ID   int64
	Name string
}

func (s *wideScenario) NetworkFields() []FieldSpec {
	return []FieldSpec{
		Field("id", 0, &s.ID),
		Field("name", 1, &s.Name),
	}
}

type allBasic struct {
	B    int8
	UB   uint8
	S    int16
	US   uint16
	I    int32
	UI   uint32
	L    int64
	UL   uint64
	Flag bool
	ID   uuid.UUID
}

func (a *allBasic) NetworkFields() []FieldSpec {
	// Declared out of placement order on purpose.
	return []FieldSpec{
		Field("id", 9, &a.ID),
		Field("b", 0, &a.B),
		Field("ub", 1, &a.UB),
		Field("s", 2, &a.S),
		Field("us", 3, &a.US),
		Field("i", 4, &a.I),
		Field("ui", 5, &a.UI),
		Field("l", 6, &a.L),
		Field("ul", 7, &a.UL),
		Field("flag", 8, &a.Flag),
	}
}

type optionals struct {
	A *int32
	B *bool
	C int8
}

func (o *optionals) NetworkFields() []FieldSpec {
	return []FieldSpec{
		Optional("a", 0, &o.A),
		Optional("b", 1, &o.B),
		Field("c", 2, &o.C),
	}
}

// requireds has the element types of optionals without the optional flags.
type requireds struct {
	A int32
	B bool
	C int8
}

func (o *requireds) NetworkFields() []FieldSpec {
	return []FieldSpec{
		Field("a", 0, &o.A),
		Field("b", 1, &o.B),
		Field("c", 2, &o.C),
	}
}

type byteArray struct {
	Data []uint8
}

func (b *byteArray) NetworkFields() []FieldSpec {
	return []FieldSpec{Field("data", 0, &b.Data)}
}

// singleByte has the element type of byteArray as a scalar.
type singleByte struct {
	X uint8
}

func (b *singleByte) NetworkFields() []FieldSpec {
	return []FieldSpec{Field("x", 0, &b.X)}
}

type mixed struct {
	Seq     uint16
	Label   string
	Samples []int32
	Note    string
	IDs     []uuid.UUID
}

func (m *mixed) NetworkFields() []FieldSpec {
	return []FieldSpec{
		Field("seq", 0, &m.Seq),
		Field("note", 2, &m.Note),
		Field("label", 0, &m.Label),
		Field("samples", 1, &m.Samples),
		Field("ids", 3, &m.IDs),
	}
}

// fieldsOf adapts a closure to Object for one-off schema tests.
type fieldsOf func() []FieldSpec

func (f fieldsOf) NetworkFields() []FieldSpec { return f() }

type notAnObject struct{ X int32 }
