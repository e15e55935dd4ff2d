package container

import (
	"errors"
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/trace"
)

// Container errors. Wire-level failures surface as the wire package
// sentinels, wrapped in a *DecodeError on the decode path.
var (
	// ErrEndOfContainer is returned by Decoder.Next once every declared
	// entry has been read. It is never wrapped.
	ErrEndOfContainer = errors.New("end of container")

	// ErrInvalidAction indicates an undefined action tag, stray flag bits,
	// or a load on a Delete entry.
	ErrInvalidAction = errors.New("invalid entry action")

	// ErrInvalidHeader indicates a container header with undefined flag bits
	// or a key or summary type that cannot serve in that role.
	ErrInvalidHeader = errors.New("invalid container header")

	// ErrDepthExceeded indicates nesting beyond Config.MaxDepth.
	ErrDepthExceeded = errors.New("container depth exceeded")

	// ErrKeyRequired indicates a keyed container entry without a key.
	ErrKeyRequired = errors.New("entry key required")

	// ErrUnexpectedKey indicates a key on an entry of an unkeyed container.
	ErrUnexpectedKey = errors.New("unexpected entry key")

	// ErrEncoderState indicates an Encoder call out of sequence.
	ErrEncoderState = errors.New("invalid encoder state")
)

// DecodeError locates a decode failure.
type DecodeError struct {
	// Offset of the failing field from the start of the outermost container.
	Offset int

	// Index of the entry being decoded, or -1 for the container header.
	Index int

	// Op names the field being decoded.
	Op string

	Err error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("container %s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("container entry %d %s at offset %d: %v", e.Index, e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// fieldError wraps a value codec failure on one field of a header or entry.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.err.Error()
}

func (e *fieldError) Unwrap() error {
	return e.err
}

// traceLayer returns the codec layer that owns a failure in field.
func traceLayer(field string) trace.Layer {
	switch field {
	case "key", "permission", "summary", "load":
		return trace.LayerScalar
	default:
		return trace.LayerContainer
	}
}
