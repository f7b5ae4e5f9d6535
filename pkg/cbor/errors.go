package cbor

import "errors"

var (
	// ErrUnexpectedEOF is returned when the input ends inside a value.
	ErrUnexpectedEOF = errors.New("cbor: unexpected end of input")

	// ErrUnsupported is returned for encodings outside the supported subset:
	// 8-byte arguments, indefinite lengths, tags and floating point values.
	ErrUnsupported = errors.New("cbor: unsupported encoding")

	// ErrNestingTooDeep is returned when arrays and maps nest beyond MaxDepth.
	ErrNestingTooDeep = errors.New("cbor: nesting too deep")

	// ErrNoCBORData is returned by Scan when no offset yields a value.
	ErrNoCBORData = errors.New("cbor: could not find valid CBOR data")
)
