package trace

import (
	"time"

	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Event is one codec trace record. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// StreamID groups the events of one encode or decode pass (UUID).
	StreamID string `cbor:"2,keyasint"`

	// Direction tells whether bytes were produced or consumed.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// FormatVersion is the wire format version of the codec.
	FormatVersion string `cbor:"6,keyasint,omitempty"`

	// Depth is the container nesting level, 0 for the outermost container.
	Depth int `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Container *ContainerEvent `cbor:"10,keyasint,omitempty"`
	Entry     *EntryEvent     `cbor:"11,keyasint,omitempty"`
	Error     *ErrorEventData `cbor:"12,keyasint,omitempty"`
}

// Direction indicates whether an event came from encoding or decoding.
type Direction uint8

const (
	// DirectionDecode marks events raised while reading bytes.
	DirectionDecode Direction = 0
	// DirectionEncode marks events raised while writing bytes.
	DirectionEncode Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionDecode:
		return "DECODE"
	case DirectionEncode:
		return "ENCODE"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which codec layer captured the event.
type Layer uint8

const (
	// LayerScalar is the primitive value layer.
	LayerScalar Layer = 0
	// LayerContainer is the container entry layer.
	LayerContainer Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerScalar:
		return "SCALAR"
	case LayerContainer:
		return "CONTAINER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryContainer marks a container header or close.
	CategoryContainer Category = 0
	// CategoryEntry marks one container entry.
	CategoryEntry Category = 1
	// CategoryError marks a failed operation.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryContainer:
		return "CONTAINER"
	case CategoryEntry:
		return "ENTRY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ContainerEvent describes a container header (on open) or its totals (on close).
type ContainerEvent struct {
	// KeyType is the declared key type, NO_DATA for unkeyed containers.
	KeyType wire.DataType `cbor:"1,keyasint"`

	// Count is the number of entries.
	Count int `cbor:"2,keyasint"`

	// HasSummary is set when the container leads with a summary load.
	HasSummary bool `cbor:"3,keyasint,omitempty"`

	// Size is the encoded size in bytes, known once the container is closed
	// or fully framed.
	Size int `cbor:"4,keyasint,omitempty"`

	// Closed distinguishes the close event from the open event.
	Closed bool `cbor:"5,keyasint,omitempty"`
}

// EntryEvent describes one entry.
type EntryEvent struct {
	// Index is the zero-based position in the container.
	Index int `cbor:"1,keyasint"`

	// Action is the entry action name.
	Action string `cbor:"2,keyasint"`

	// Key is the entry key in CBOR-compatible form (see ValueOf).
	Key any `cbor:"3,keyasint,omitempty"`

	// LoadType is the transmitted load type.
	LoadType wire.DataType `cbor:"4,keyasint"`

	// Size is the encoded entry size in bytes.
	Size int `cbor:"5,keyasint"`

	// HasPermission is set when permission data accompanied the entry.
	HasPermission bool `cbor:"6,keyasint,omitempty"`
}

// ErrorEventData captures a codec failure.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Offset is the byte offset of the failing field.
	Offset int `cbor:"3,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
