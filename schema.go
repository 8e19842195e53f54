package arbiter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// FieldDescriptor is one entry of a Schema. For arrays Type is the element
// type and IsArray is set.
type FieldDescriptor struct {
	Name      string
	Placement int
	Type      ElementType
	Optional  bool
	IsArray   bool

	index int // position in NetworkFields
}

func (d FieldDescriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q@%d %s", d.Name, d.Placement, d.Type)
	if d.IsArray {
		b.WriteString("[]")
	}
	if d.Optional {
		b.WriteString(" optional")
	}
	return b.String()
}

func (d FieldDescriptor) sameShape(o FieldDescriptor) bool {
	return d.Name == o.Name && d.Placement == o.Placement && d.Type == o.Type &&
		d.Optional == o.Optional && d.IsArray == o.IsArray
}

// Schema is the wire layout of one Go type: basic fields first, then
// advanced fields, each group in ascending placement. A Schema is never
// mutated after it is built.
type Schema struct {
	name     string
	basic    []FieldDescriptor
	advanced []FieldDescriptor
}

// Fingerprint is the element type sequence of a wire object. Arrays appear as
// their element type.
type Fingerprint []ElementType

func (fp Fingerprint) String() string {
	parts := make([]string, len(fp))
	for i, t := range fp {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Name is the Go type the schema was built from.
func (s *Schema) Name() string { return s.name }

// Basic returns the fixed-size fields in wire order.
func (s *Schema) Basic() []FieldDescriptor { return slices.Clone(s.basic) }

// Advanced returns the variable-size fields in wire order.
func (s *Schema) Advanced() []FieldDescriptor { return slices.Clone(s.advanced) }

// Len is the element count written in the wire header.
func (s *Schema) Len() int { return len(s.basic) + len(s.advanced) }

func (s *Schema) fields() []FieldDescriptor {
	return slices.Concat(s.basic, s.advanced)
}

// Fingerprint returns the element types in wire order.
func (s *Schema) Fingerprint() Fingerprint {
	fp := make(Fingerprint, 0, s.Len())
	for _, d := range s.fields() {
		fp = append(fp, d.Type)
	}
	return fp
}

// Matches reports whether a fingerprint read off the wire has the structure
// of s.
func (s *Schema) Matches(fp Fingerprint) bool {
	return slices.Equal(s.Fingerprint(), fp)
}

// Equal reports structural equality.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	return slices.EqualFunc(s.basic, o.basic, FieldDescriptor.sameShape) &&
		slices.EqualFunc(s.advanced, o.advanced, FieldDescriptor.sameShape)
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s%v", s.name, s.fields())
}

// buildSchema derives the schema of obj's type from its field description.
func buildSchema(name string, obj Object) (*Schema, error) {
	const op = "schema"
	specs := obj.NetworkFields()
	if len(specs) > 0xFFFF {
		return nil, newError(KindInvalidSchema, op, ErrUnsupportedType, "%s has %d fields, at most 65535 fit the element count", name, len(specs))
	}

	s := &Schema{name: name}
	for i, f := range specs {
		if f.Placement < 0 {
			return nil, newError(KindInvalidSchema, op, ErrInvalidPlacement, "%s: field %s", name, f)
		}
		sl, err := bind(f)
		if err != nil {
			return nil, &Error{Kind: fieldErrorKind(err), Op: op, Err: fmt.Errorf("%s: %w", name, err)}
		}
		d := FieldDescriptor{
			Name:      f.Name,
			Placement: f.Placement,
			Type:      sl.elem(),
			Optional:  f.Optional,
			IsArray:   sl.array(),
			index:     i,
		}
		group := &s.advanced
		if d.Type.IsBasic() && !d.IsArray {
			group = &s.basic
		}
		if j := slices.IndexFunc(*group, func(e FieldDescriptor) bool { return e.Placement == d.Placement }); j >= 0 {
			existing := specs[(*group)[j].index]
			return nil, newError(KindInvalidSchema, op, ErrDuplicatePlacement,
				"%s: placement %d. Existing: %s. New: %s", name, d.Placement, existing, f)
		}
		*group = append(*group, d)
	}

	byPlacement := func(a, b FieldDescriptor) int { return cmp.Compare(a.Placement, b.Placement) }
	slices.SortStableFunc(s.basic, byPlacement)
	slices.SortStableFunc(s.advanced, byPlacement)
	return s, nil
}

// fieldErrorKind classifies a rejected field. Array shapes the format has no
// encoding for are unimplemented; everything else is an invalid schema.
func fieldErrorKind(err error) Kind {
	if errors.Is(err, ErrArraysOfStrings) || errors.Is(err, ErrNestedArrays) {
		return KindUnimplemented
	}
	return KindInvalidSchema
}

// bind resolves the descriptors of s against one instance. Basic and
// advanced slots come back in wire order.
func (s *Schema) bind(obj Object) (basic, advanced []slot, err error) {
	const op = "bind"
	specs := obj.NetworkFields()
	if len(specs) != s.Len() {
		return nil, nil, newError(KindInvalidSchema, op, ErrMismatchedObject,
			"%s described %d fields, schema has %d", s.name, len(specs), s.Len())
	}
	resolveAll := func(ds []FieldDescriptor) ([]slot, error) {
		out := make([]slot, len(ds))
		for i, d := range ds {
			f := specs[d.index]
			sl, err := bind(f)
			if err != nil {
				return nil, &Error{Kind: fieldErrorKind(err), Op: op, Err: err}
			}
			if f.Placement != d.Placement || f.Optional != d.Optional || sl.elem() != d.Type || sl.array() != d.IsArray {
				return nil, newError(KindInvalidSchema, op, ErrMismatchedObject,
					"%s: field %s does not match %s", s.name, f, d)
			}
			out[i] = sl
		}
		return out, nil
	}
	if basic, err = resolveAll(s.basic); err != nil {
		return nil, nil, err
	}
	if advanced, err = resolveAll(s.advanced); err != nil {
		return nil, nil, err
	}
	return basic, advanced, nil
}

// Description is a serialisable view of a Schema.
type Description struct {
	Type   string             `json:"type" yaml:"type"`
	Fields []FieldDescription `json:"fields" yaml:"fields"`
}

type FieldDescription struct {
	Name      string `json:"name" yaml:"name"`
	Placement int    `json:"placement" yaml:"placement"`
	Element   string `json:"element" yaml:"element"`
	ID        byte   `json:"id" yaml:"id"`
	Group     string `json:"group" yaml:"group"`
	Optional  bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Array     bool   `json:"array,omitempty" yaml:"array,omitempty"`
}

// Describe returns the fields of s in wire order.
func (s *Schema) Describe() Description {
	desc := Description{Type: s.name, Fields: make([]FieldDescription, 0, s.Len())}
	add := func(group string, ds []FieldDescriptor) {
		for _, d := range ds {
			desc.Fields = append(desc.Fields, FieldDescription{
				Name:      d.Name,
				Placement: d.Placement,
				Element:   d.Type.String(),
				ID:        d.Type.ID(),
				Group:     group,
				Optional:  d.Optional,
				Array:     d.IsArray,
			})
		}
	}
	add("basic", s.basic)
	add("advanced", s.advanced)
	return desc
}
