package container

import (
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Entry is one decoded container entry. Its key is decoded eagerly; the load
// stays raw until an accessor is called.
type Entry struct {
	Action Action

	// Key is nil in unkeyed containers.
	Key wire.Value

	// Permission is nil when the entry carries no permission data.
	Permission []byte

	// Type is the transmitted load type.
	Type wire.DataType

	load   []byte
	loadAt int
	index  int
	parent *Decoder
}

// Index returns the entry's position in its container.
func (e Entry) Index() int { return e.index }

// Raw returns the encoded load without decoding it. For a container load it
// is the nested container without its length frame.
func (e Entry) Raw() []byte { return e.load }

// HasLoad reports whether the entry carries a load.
func (e Entry) HasLoad() bool { return e.Type != wire.TypeNoData }

// Load decodes a primitive load. It returns nil for NO_DATA and
// ErrTypeMismatch for container loads.
func (e Entry) Load() (wire.Value, error) {
	switch e.Type {
	case wire.TypeNoData:
		return nil, nil
	case wire.TypeContainer:
		return nil, fmt.Errorf("%w: container load, use Container", wire.ErrTypeMismatch)
	}
	v, _, err := wire.Decode(e.load, e.Type)
	return v, err
}

// Container opens a decoder over a nested container load.
func (e Entry) Container() (*Decoder, error) {
	if e.Type != wire.TypeContainer || e.parent == nil {
		return nil, fmt.Errorf("%w: %s load is not a container", wire.ErrTypeMismatch, e.Type)
	}
	p := e.parent
	depth := p.depth + 1
	if depth >= p.cfg.MaxDepth {
		return nil, &DecodeError{
			Offset: e.loadAt,
			Index:  e.index,
			Op:     "load",
			Err:    fmt.Errorf("%w: depth %d, limit %d", ErrDepthExceeded, depth, p.cfg.MaxDepth),
		}
	}
	return newDecoder(e.load, p.cfg, p.filter, p.stream, depth, e.loadAt)
}

func (e Entry) kind(want wire.Kind) error {
	d, err := wire.Lookup(e.Type)
	if err != nil {
		return err
	}
	if d.Kind != want {
		return fmt.Errorf("%w: %s load read as %s", wire.ErrTypeMismatch, e.Type, want)
	}
	return nil
}

func decodeAs[V wire.Value](e Entry, want wire.Kind) (V, error) {
	var zero V
	if err := e.kind(want); err != nil {
		return zero, err
	}
	v, _, err := wire.Decode(e.load, e.Type)
	if err != nil {
		return zero, err
	}
	return v.(V), nil
}

// Int returns a signed integer load.
func (e Entry) Int() (int64, error) {
	v, err := decodeAs[wire.Int](e, wire.KindInt)
	return int64(v), err
}

// UInt returns an unsigned integer load.
func (e Entry) UInt() (uint64, error) {
	v, err := decodeAs[wire.UInt](e, wire.KindUInt)
	return uint64(v), err
}

// Float returns a FLOAT load.
func (e Entry) Float() (float32, error) {
	v, err := decodeAs[wire.Float](e, wire.KindFloat)
	return float32(v), err
}

// Double returns a DOUBLE load.
func (e Entry) Double() (float64, error) {
	v, err := decodeAs[wire.Double](e, wire.KindDouble)
	return float64(v), err
}

// Enum returns an ENUM load.
func (e Entry) Enum() (uint16, error) {
	v, err := decodeAs[wire.Enum](e, wire.KindEnum)
	return uint16(v), err
}

// Real returns a real load of any profile.
func (e Entry) Real() (wire.Real, error) {
	return decodeAs[wire.Real](e, wire.KindReal)
}

// Date returns a DATE load.
func (e Entry) Date() (wire.Date, error) {
	return decodeAs[wire.Date](e, wire.KindDate)
}

// Time returns a TIME load.
func (e Entry) Time() (wire.Time, error) {
	return decodeAs[wire.Time](e, wire.KindTime)
}

// DateTime returns a DATETIME load.
func (e Entry) DateTime() (wire.DateTime, error) {
	return decodeAs[wire.DateTime](e, wire.KindDateTime)
}

// Buffer returns a BUFFER load. The slice aliases the source.
func (e Entry) Buffer() ([]byte, error) {
	v, err := decodeAs[wire.Buffer](e, wire.KindBuffer)
	return []byte(v), err
}

// ASCII returns an ASCII_STRING load.
func (e Entry) ASCII() (string, error) {
	v, err := decodeAs[wire.ASCII](e, wire.KindASCII)
	return string(v), err
}
