package arbiter

import "fmt"

// ElementType is a wire element type. Its value is the wire ID, assigned in
// declaration order starting at 1.
type ElementType uint8

const (
	Byte ElementType = iota + 1
	Short
	Int
	Long
	Boolean
	UUID
	String
	Array
	SubObject
)

// typeMask selects the type id bits of a header byte; the two high bits are
// the optional and present flags.
const (
	typeMask    = 0x3F
	optionalBit = 1 << 7
	presentBit  = 1 << 6
)

type elementInfo struct {
	name   string
	length int // -1 when only known at run time
	basic  bool
}

var elementTable = [...]elementInfo{
	Byte:      {"Byte", 1, true},
	Short:     {"Short", 2, true},
	Int:       {"Int", 4, true},
	Long:      {"Long", 8, true},
	Boolean:   {"Boolean", 1, true},
	UUID:      {"UUID", 16, true},
	String:    {"String", -1, false},
	Array:     {"Array", -1, false},
	SubObject: {"SubObject", -1, false},
}

func (t ElementType) valid() bool {
	return t >= Byte && t <= SubObject
}

// ID returns the wire ID of t.
func (t ElementType) ID() byte { return byte(t) }

// TypeOf maps a wire ID back to its ElementType.
func TypeOf(id byte) (ElementType, error) {
	t := ElementType(id)
	if !t.valid() {
		return 0, newError(KindFraming, "type", ErrInvalidType, "id %d", id)
	}
	return t, nil
}

// Length returns the fixed payload size of a basic element.
func (t ElementType) Length() (int, error) {
	if !t.valid() {
		return 0, newError(KindFraming, "length", ErrInvalidType, "id %d", uint8(t))
	}
	if n := elementTable[t].length; n >= 0 {
		return n, nil
	}
	return 0, newError(KindInvalidSchema, "length", ErrLengthUndefined, "%s", t)
}

// fixedLength is Length for types already known to be basic.
func (t ElementType) fixedLength() int {
	if !t.valid() {
		return 0
	}
	return max(elementTable[t].length, 0)
}

// IsBasic reports whether t has a fixed size.
func (t ElementType) IsBasic() bool {
	return t.valid() && elementTable[t].basic
}

// IsAdvanced reports whether t has a run-time determined size.
func (t ElementType) IsAdvanced() bool {
	return t.valid() && !elementTable[t].basic
}

func (t ElementType) String() string {
	if t.valid() {
		return elementTable[t].name
	}
	return fmt.Sprintf("ElementType(%d)", uint8(t))
}

// header builds the header byte of a basic element.
func header(t ElementType, optional, present bool) byte {
	h := t.ID()
	if optional {
		h |= optionalBit
		if present {
			h |= presentBit
		}
	}
	return h
}

// splitHeader is the inverse of header. present is always true for
// non-optional elements.
func splitHeader(h byte) (id byte, optional, present bool) {
	optional = h&optionalBit != 0
	present = !optional || h&presentBit != 0
	return h & typeMask, optional, present
}
