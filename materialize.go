package arbiter

import (
	"io"
	"reflect"
)

// Materialize creates a fresh object with newFn and fills it from the next
// object on src. The wire object is checked against the schema of the new
// object's type field by field.
func (reg *Registry) Materialize(newFn func() Object, src io.Reader) (Object, error) {
	obj, err := construct(newFn)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(src)
	if err != nil {
		return nil, transportError("materialize", err)
	}
	if err := reg.fill(obj, r); err != nil {
		return nil, err
	}
	return obj, nil
}

// UnmarshalInto decodes data, which must hold exactly one object, into a
// fresh object created by newFn.
func (reg *Registry) UnmarshalInto(newFn func() Object, data []byte) (Object, error) {
	r, err := NewReader(NewBytesReader(data))
	if err != nil {
		return nil, err
	}
	fp, err := decodeShape(r)
	if err != nil {
		return nil, err
	}
	if rest := len(data) - int(r.Count()); rest > 0 {
		return nil, newError(KindFraming, "decode", ErrTrailingData, "%d bytes", rest)
	}
	return reg.assemble(newFn, fp, data)
}

// assemble checks a decoded fingerprint against the schema of newFn's type and
// materializes data, the complete bytes of that object, in a second pass.
func (reg *Registry) assemble(newFn func() Object, fp Fingerprint, data []byte) (Object, error) {
	obj, err := construct(newFn)
	if err != nil {
		return nil, err
	}
	schema, err := reg.schemaFor(obj)
	if err != nil {
		return nil, err
	}
	if !schema.Matches(fp) {
		reg.log.Debug().Str("type", schema.name).Stringer("want", schema.Fingerprint()).Stringer("got", fp).Msg("mismatched object")
		return nil, newError(KindMismatchedObject, "receive", ErrMismatchedObject,
			"%s expects %s, wire object is %s", schema.name, schema.Fingerprint(), fp)
	}
	r, err := NewReader(NewBytesReader(data))
	if err != nil {
		return nil, err
	}
	if err := reg.fill(obj, r); err != nil {
		return nil, err
	}
	return obj, nil
}

func construct(newFn func() Object) (Object, error) {
	const op = "construct"
	if newFn == nil {
		return nil, newError(KindNotANetworkObject, op, ErrConstructionFailed, "nil constructor")
	}
	obj := newFn()
	if obj == nil {
		return nil, newError(KindNotANetworkObject, op, ErrConstructionFailed, "constructor returned nil")
	}
	if rv := reflect.ValueOf(obj); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, newError(KindNotANetworkObject, op, ErrConstructionFailed, "constructor returned nil %T", obj)
	}
	return obj, nil
}

// fill reads one object off r into obj.
func (reg *Registry) fill(obj Object, r *Reader) error {
	const op = "materialize"
	schema, err := reg.schemaFor(obj)
	if err != nil {
		return err
	}
	basic, advanced, err := schema.bind(obj)
	if err != nil {
		return err
	}

	n, err := readPreamble(r, op)
	if err != nil {
		return err
	}
	if n != schema.Len() {
		return newError(KindMismatchedObject, op, ErrMismatchedObject,
			"%s has %d elements, wire object has %d", schema.name, schema.Len(), n)
	}

	for i, s := range basic {
		d := schema.basic[i]
		h, err := r.ReadByte()
		if err != nil {
			return transportError(op, err)
		}
		id, optional, present := splitHeader(h)
		if got := ElementType(id); got != d.Type {
			return newError(KindMismatchedObject, op, ErrMismatchedObject,
				"field %s: expected %s, got %s", d, d.Type, got)
		}
		if optional != d.Optional {
			return newError(KindMismatchedObject, op, ErrMismatchedObject,
				"field %s: optional flag is %t on the wire", d, optional)
		}
		if !present {
			continue
		}
		s.get(r, 0)
		if r.Err() != nil {
			return transportError(op, r.Err())
		}
	}

	pending := make([]int, len(advanced))
	for i := range advanced {
		d := schema.advanced[i]
		h, err := r.ReadByte()
		if err != nil {
			return transportError(op, err)
		}
		id, optional, _ := splitHeader(h)
		t := ElementType(id)
		if optional {
			return newError(KindFraming, op, ErrOptionalUnsupported, "field %s", d)
		}
		switch {
		case t == Array:
			var eid, size uint8
			r.ReadUint8(&eid)
			r.ReadUint8(&size)
			if r.Err() != nil {
				return transportError(op, r.Err())
			}
			if !d.IsArray || ElementType(eid) != d.Type {
				return newError(KindMismatchedObject, op, ErrMismatchedObject,
					"field %s: got an array of %s", d, ElementType(eid))
			}
			if !reg.arrays {
				return newError(KindUnimplemented, op, ErrUnimplemented, "array field %s", d)
			}
			if size == 0 || int(size)%d.Type.fixedLength() != 0 {
				return newError(KindFraming, op, ErrInvalidArray, "field %s: %d bytes", d, size)
			}
			pending[i] = int(size)
		case t == String:
			if d.IsArray || d.Type != String {
				return newError(KindMismatchedObject, op, ErrMismatchedObject, "field %s: got %s", d, t)
			}
			var size uint8
			r.ReadUint8(&size)
			if r.Err() != nil {
				return transportError(op, r.Err())
			}
			pending[i] = int(size)
		case t == SubObject:
			return newError(KindUnimplemented, op, ErrUnimplemented, "field %s is a sub-object", d)
		case t.IsBasic():
			return newError(KindOutOfOrderElements, op, ErrOutOfOrderElements, "%s where field %s was expected", t, d)
		default:
			return newError(KindFraming, op, ErrInvalidType, "field %s: id %d", d, id)
		}
	}

	for i, s := range advanced {
		s.get(r, pending[i])
		if r.Err() != nil {
			return transportError(op, r.Err())
		}
	}

	return readTerminator(r, op)
}
