package arbiter

// Version is the only format version written and accepted.
const Version = 1

const terminator = 0xFF

var magic = [3]byte{'Z', 'N', 'A'}

// Encode returns the wire form of v.
func (reg *Registry) Encode(v any) ([]byte, error) {
	w, err := reg.Wire(v)
	if err != nil {
		return nil, err
	}
	buf, err := w.MarshalBinary()
	if err != nil {
		return nil, err
	}
	reg.log.Debug().Str("type", w.schema.name).Int("length", len(buf)).Msg("encoded")
	return buf, nil
}

// encodeObject writes the preamble, every basic element with its payload,
// the advanced headers, the advanced payloads and the terminator.
func encodeObject(w *Writer, schema *Schema, basic, advanced []slot) {
	w.WriteBytes(magic[:])
	w.WriteUint8(Version)
	w.WriteUint16(uint16(schema.Len()))

	for i, s := range basic {
		d := schema.basic[i]
		w.WriteUint8(header(d.Type, d.Optional, s.present()))
		if s.present() {
			s.put(w)
		}
	}

	for _, s := range advanced {
		if s.array() {
			w.WriteUint8(Array.ID())
		}
		w.WriteUint8(s.elem().ID())
		w.WriteUint8(uint8(s.size()))
	}
	for _, s := range advanced {
		s.put(w)
	}

	w.WriteUint8(terminator)
}
