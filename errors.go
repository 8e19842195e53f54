package arbiter

import (
	"errors"
	"fmt"
	"io"
)

// Kind classifies every failure the arbiter can report. Callers switch on
// KindOf(err) instead of matching individual sentinels.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotANetworkObject
	KindInvalidSchema
	KindFraming
	KindMismatchedObject
	KindOutOfOrderElements
	KindUnimplemented
	KindTransport
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindNotANetworkObject:  "not a network object",
	KindInvalidSchema:      "invalid schema",
	KindFraming:            "framing error",
	KindMismatchedObject:   "mismatched object",
	KindOutOfOrderElements: "out of order elements",
	KindUnimplemented:      "unimplemented",
	KindTransport:          "transport error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

var (
	// ErrNotANetworkObject indicates the value does not implement Object.
	ErrNotANetworkObject = errors.New("arbiter: not a network object")

	// ErrConstructionFailed indicates a fresh target instance could not be created.
	ErrConstructionFailed = errors.New("arbiter: construction failed")

	// ErrUnsupportedType indicates a field whose Go type has no element type.
	ErrUnsupportedType = errors.New("arbiter: unsupported type")

	// ErrInvalidArray indicates an empty array value.
	ErrInvalidArray = errors.New("arbiter: invalid array")

	// ErrArraysOfStrings indicates an array field whose elements are strings.
	ErrArraysOfStrings = errors.New("arbiter: arrays of strings are unsupported")

	// ErrNestedArrays indicates an array field whose elements are arrays.
	ErrNestedArrays = errors.New("arbiter: nested arrays are unsupported")

	// ErrInvalidPlacement indicates a negative placement.
	ErrInvalidPlacement = errors.New("arbiter: placement must not be negative")

	// ErrDuplicatePlacement indicates two fields share a placement within one group.
	ErrDuplicatePlacement = errors.New("arbiter: duplicate placement")

	// ErrOptionalUnsupported indicates an optional flag on a field that has no absence encoding.
	ErrOptionalUnsupported = errors.New("arbiter: optional is only supported on basic elements")

	// ErrAdvancedOverflow indicates an advanced payload that does not fit the one byte length field.
	ErrAdvancedOverflow = errors.New("arbiter: advanced element payload exceeds 255 bytes")

	// ErrUnsupportedAdvancedType indicates an advanced field the length calculator cannot size.
	ErrUnsupportedAdvancedType = errors.New("arbiter: unsupported advanced type")

	// ErrLengthUndefined is returned by ElementType.Length for variable-size types.
	ErrLengthUndefined = errors.New("arbiter: length undefined at encode time")

	// ErrLengthMismatch indicates the encoder wrote a different number of bytes than computed.
	ErrLengthMismatch = errors.New("arbiter: encoded length does not match computed length")

	// ErrNotZNA indicates the stream does not start with the "ZNA" magic.
	ErrNotZNA = errors.New("arbiter: not a ZNA object")

	// ErrUnsupportedVersion indicates a format version this package cannot read.
	ErrUnsupportedVersion = errors.New("arbiter: unsupported version")

	// ErrMalformedTerminator indicates the final byte is not 0xFF.
	ErrMalformedTerminator = errors.New("arbiter: malformed terminator")

	// ErrTrailingData indicates bytes after the terminator of a complete object.
	ErrTrailingData = errors.New("arbiter: trailing data after terminator")

	// ErrInvalidType indicates a header byte carrying an unknown type id.
	ErrInvalidType = errors.New("arbiter: invalid element type")

	// ErrTruncatedData indicates the stream ended before the object did.
	ErrTruncatedData = errors.New("arbiter: truncated data")

	// ErrMismatchedObject indicates the wire object disagrees with the registered schema.
	ErrMismatchedObject = errors.New("arbiter: mismatched object")

	// ErrOutOfOrderElements indicates a basic element after an advanced one.
	ErrOutOfOrderElements = errors.New("arbiter: basic element after advanced element")

	// ErrUnimplemented marks sub-objects and array materialization.
	ErrUnimplemented = errors.New("arbiter: unimplemented")

	// ErrNilIO indicates New/NewReader/NewWriter was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("arbiter: nil io.Reader/io.Writer")

	// ErrAlreadyBuffered indicates a reader or writer that is already buffered
	// with a smaller buffer than requested.
	ErrAlreadyBuffered = errors.New("arbiter: reader or writer is already buffered")

	// ErrDiscardNegative indicates a Discard with a negative byte count.
	ErrDiscardNegative = errors.New("arbiter: cannot discard negative number of bytes")
)

// Error carries the Kind of a failure, the operation that produced it and the
// underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, or KindUnknown when err was not produced by
// this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err has kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func newError(kind Kind, op string, sentinel error, format string, args ...any) error {
	if format == "" {
		return &Error{Kind: kind, Op: op, Err: sentinel}
	}
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

// transportError wraps an I/O failure. Short reads become framing errors
// since the stream ended inside an object.
func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: KindFraming, Op: op, Err: fmt.Errorf("%w: %w", ErrTruncatedData, err)}
	}
	return &Error{Kind: KindTransport, Op: op, Err: err}
}
