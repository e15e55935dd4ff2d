package wire

import "errors"

// Codec errors. Callers match them with errors.Is; returned errors usually
// wrap one of these with field context.
var (
	// ErrMalformedLength indicates a length byte, selector, or format byte
	// that does not map to a defined class.
	ErrMalformedLength = errors.New("malformed length")

	// ErrBufferUnderrun indicates the source holds fewer bytes than the
	// encoding declares.
	ErrBufferUnderrun = errors.New("buffer underrun")

	// ErrBufferOverrun indicates the destination cannot hold the encoding.
	ErrBufferOverrun = errors.New("buffer overrun")

	// ErrTypeMismatch indicates a value or accessor of one kind was used
	// with a field declared as another.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValueRange indicates a value that the declared type cannot represent.
	ErrValueRange = errors.New("value out of range")

	// ErrUnknownType indicates a type tag outside the DataType enumeration.
	ErrUnknownType = errors.New("unknown data type")
)
