package arbiter

// magic, version byte, two byte element count and the terminator.
const frameOverhead = 3 + 1 + 2 + 1

// basicLength is one header byte per field plus the payload of every field
// that is present.
func basicLength(basic []slot) int {
	return sum(basic, func(s slot) int {
		if !s.present() {
			return 1
		}
		return 1 + s.elem().fixedLength()
	})
}

// advancedLength sizes the advanced headers and payloads. Arrays carry three
// header bytes (array marker, element type, length), strings two.
func advancedLength(schema *Schema, advanced []slot) (int, error) {
	const op = "length"
	total := 0
	for i, s := range advanced {
		d := schema.advanced[i]
		switch {
		case s.array() && s.elem().IsBasic():
			if s.count() == 0 {
				return 0, newError(KindInvalidSchema, op, ErrInvalidArray, "field %s is empty", d)
			}
			total += s.size() + 3
		case s.elem() == String && !s.array():
			total += s.size() + 2
		default:
			return 0, newError(KindUnimplemented, op, ErrUnsupportedAdvancedType, "field %s", d)
		}
		if !fitsByte(s.size()) {
			return 0, newError(KindInvalidSchema, op, ErrAdvancedOverflow, "field %s carries %d bytes", d, s.size())
		}
	}
	return total, nil
}

// objectLength is the exact encoded size of one instance.
func objectLength(schema *Schema, basic, advanced []slot) (int, error) {
	adv, err := advancedLength(schema, advanced)
	if err != nil {
		return 0, err
	}
	return frameOverhead + basicLength(basic) + adv, nil
}

// LengthOf returns the exact number of bytes v encodes to.
func (reg *Registry) LengthOf(v any) (int, error) {
	w, err := reg.Wire(v)
	if err != nil {
		return 0, err
	}
	return w.Length()
}
