// Package arbiter encodes self-describing objects into the ZNA wire format
// and reconstructs them on the receiving side.
//
// A type takes part by implementing Object: it lists its participating
// fields, each bound to a pointer into the receiver. The Registry derives a
// Schema from that list once per type. Fixed-size ("basic") fields travel
// first in placement order, variable-size ("advanced") fields after them.
//
// Wire layout, all integers big-endian:
//
//	"ZNA" | version (1) | element count (u16)
//	for each basic field:    header | payload
//	for each advanced field: header
//	for each advanced field: payload
//	0xFF
//
// A basic header is the type id, with bit 7 set for an optional field and
// bit 6 set when that optional field is present; an absent field has no
// payload. A string header is [7, length] and an array header is
// [8, element type id, length], where length counts payload bytes and must
// fit in one byte.
//
// Receiving reads an object twice: once to check its structure against the
// expected schema, and again from the recorded bytes to assign the fields.
package arbiter
