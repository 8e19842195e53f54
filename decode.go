package arbiter

import "io"

// readPreamble checks the magic and version and returns the element count.
func readPreamble(r *Reader, op string) (int, error) {
	var m [3]byte
	r.ReadBytesTo(m[:])
	if r.Err() != nil {
		return 0, transportError(op, r.Err())
	}
	if m != magic {
		return 0, newError(KindFraming, op, ErrNotZNA, "magic % X", m[:])
	}
	var version uint8
	r.ReadUint8(&version)
	var count uint16
	r.ReadUint16(&count)
	if r.Err() != nil {
		return 0, transportError(op, r.Err())
	}
	if version != Version {
		return 0, newError(KindFraming, op, ErrUnsupportedVersion, "version %d", version)
	}
	return int(count), nil
}

func readTerminator(r *Reader, op string) error {
	b, err := r.ReadByte()
	if err != nil {
		return transportError(op, err)
	}
	if b != terminator {
		return newError(KindFraming, op, ErrMalformedTerminator, "got 0x%02X", b)
	}
	return nil
}

// decodeShape reads one complete object off r and returns its element types
// without interpreting any payload.
func decodeShape(r *Reader) (Fingerprint, error) {
	const op = "decode"
	n, err := readPreamble(r, op)
	if err != nil {
		return nil, err
	}

	fp := make(Fingerprint, 0, n)
	seenAdvanced := false
	pending := 0
	for i := range n {
		h, err := r.ReadByte()
		if err != nil {
			return nil, transportError(op, err)
		}
		id, optional, present := splitHeader(h)
		t, err := TypeOf(id)
		if err != nil {
			return nil, newError(KindFraming, op, ErrInvalidType, "element %d: id %d", i, id)
		}

		if t.IsBasic() {
			if seenAdvanced {
				return nil, newError(KindOutOfOrderElements, op, ErrOutOfOrderElements, "element %d is %s", i, t)
			}
			if present {
				r.Discard(int64(t.fixedLength()))
			}
			fp = append(fp, t)
			continue
		}

		seenAdvanced = true
		if optional {
			return nil, newError(KindFraming, op, ErrOptionalUnsupported, "element %d is an optional %s", i, t)
		}
		switch t {
		case Array:
			var eid, size uint8
			r.ReadUint8(&eid)
			r.ReadUint8(&size)
			if r.Err() != nil {
				return nil, transportError(op, r.Err())
			}
			et, err := TypeOf(eid)
			if err != nil || !et.IsBasic() {
				return nil, newError(KindFraming, op, ErrInvalidArray, "element %d: array of id %d", i, eid)
			}
			if size == 0 || int(size)%et.fixedLength() != 0 {
				return nil, newError(KindFraming, op, ErrInvalidArray,
					"element %d: %d bytes is not a whole number of %s", i, size, et)
			}
			fp = append(fp, et)
			pending += int(size)
		case String:
			var size uint8
			r.ReadUint8(&size)
			if r.Err() != nil {
				return nil, transportError(op, r.Err())
			}
			fp = append(fp, String)
			pending += int(size)
		default:
			return nil, newError(KindUnimplemented, op, ErrUnimplemented, "element %d is a %s", i, t)
		}
	}

	r.Discard(int64(pending))
	if r.Err() != nil {
		return nil, transportError(op, r.Err())
	}
	if err := readTerminator(r, op); err != nil {
		return nil, err
	}
	return fp, nil
}

// Decode reads one object from src and returns its element types. Sources
// that are not io.ByteReaders are read through a buffer, which may consume
// bytes past the end of the object.
func (reg *Registry) Decode(src io.Reader) (Fingerprint, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, transportError("decode", err)
	}
	fp, err := decodeShape(r)
	if err != nil {
		return nil, err
	}
	reg.log.Debug().Stringer("fingerprint", fp).Int64("bytes", r.Count()).Msg("decoded")
	return fp, nil
}
