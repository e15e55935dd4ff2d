package container

import (
	"errors"
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Decoder is a forward-only cursor over the entries of one container.
// Entries and their loads alias the source buffer.
// It is not safe for concurrent use.
type Decoder struct {
	r      *wire.Reader
	filter typeFilter
	cfg    Config
	stream *trace.Stream
	depth  int
	base   int

	keyType     wire.DataType
	summaryType wire.DataType
	summary     wire.Value
	count       int
	index       int
	err         error
}

// NewDecoder reads the container header at the start of data using
// DefaultConfig.
func NewDecoder(data []byte) (*Decoder, error) {
	return NewDecoderWithConfig(data, DefaultConfig())
}

// NewDecoderWithConfig reads the container header at the start of data.
// Bytes past the container are left unread; Offset reports how far
// decoding got.
func NewDecoderWithConfig(data []byte, cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := newTypeFilter(cfg)
	if err != nil {
		return nil, err
	}
	stream := trace.NewStream(cfg.Tracer, cfg.StreamID, trace.DirectionDecode, cfg.FormatVersion)
	return newDecoder(data, cfg, filter, stream, 0, 0)
}

func newDecoder(data []byte, cfg Config, filter typeFilter, stream *trace.Stream, depth, base int) (*Decoder, error) {
	d := &Decoder{
		r:      wire.NewReader(data),
		filter: filter,
		cfg:    cfg,
		stream: stream,
		depth:  depth,
		base:   base,
	}
	if err := d.readHeader(); err != nil {
		layer := trace.LayerContainer
		var de *DecodeError
		if errors.As(err, &de) {
			layer = traceLayer(de.Op)
		}
		d.stream.Error(depth, layer, err, base+d.r.Offset(), "header")
		return nil, err
	}
	d.stream.Container(depth, trace.ContainerEvent{
		KeyType:    d.keyType,
		Count:      d.count,
		HasSummary: d.summary != nil,
	})
	return d, nil
}

func (d *Decoder) headerError(op string, at int, err error) error {
	return &DecodeError{Offset: d.base + at, Index: -1, Op: op, Err: err}
}

func (d *Decoder) readHeader() error {
	at := d.r.Offset()
	flags, err := d.r.ReadByte()
	if err != nil {
		return d.headerError("flags", at, err)
	}
	if flags&^flagSummary != 0 {
		return d.headerError("flags", at, fmt.Errorf("%w: flags %#02x", ErrInvalidHeader, flags))
	}

	at = d.r.Offset()
	kt, err := d.r.ReadByte()
	if err != nil {
		return d.headerError("key type", at, err)
	}
	d.keyType = wire.DataType(kt)
	if err := d.filter.checkKeyType(d.keyType); err != nil {
		return d.headerError("key type", at, err)
	}

	if flags&flagSummary != 0 {
		at = d.r.Offset()
		st, err := d.r.ReadByte()
		if err != nil {
			return d.headerError("summary type", at, err)
		}
		d.summaryType = wire.DataType(st)
		if err := d.filter.checkSummaryType(d.summaryType); err != nil {
			return d.headerError("summary type", at, err)
		}
		at = d.r.Offset()
		if d.summary, err = d.r.ReadValue(d.summaryType); err != nil {
			return d.headerError("summary", at, err)
		}
	}

	at = d.r.Offset()
	b, err := d.r.Next(countSize)
	if err != nil {
		return d.headerError("count", at, err)
	}
	d.count = int(byteorder.Get16(b))
	return nil
}

// KeyType returns the declared key type, TypeNoData for unkeyed containers.
func (d *Decoder) KeyType() wire.DataType { return d.keyType }

// SummaryType returns the summary load type, or TypeNoData without a summary.
func (d *Decoder) SummaryType() wire.DataType { return d.summaryType }

// Summary returns the decoded summary load, nil if absent.
func (d *Decoder) Summary() wire.Value { return d.summary }

// HasSummary reports whether the container carries a summary load.
func (d *Decoder) HasSummary() bool { return d.summary != nil }

// Count returns the declared number of entries.
func (d *Decoder) Count() int { return d.count }

// Remaining returns the number of entries not yet read.
// It never goes below zero, even after ErrEndOfContainer.
func (d *Decoder) Remaining() int { return max(d.count-d.index, 0) }

// Depth returns the nesting level, 0 for the outermost container.
func (d *Decoder) Depth() int { return d.depth }

// Offset returns the number of bytes consumed from the container start.
func (d *Decoder) Offset() int { return d.r.Offset() }

// Next decodes the next entry. After the last entry it returns
// ErrEndOfContainer. A decode failure is sticky: every later call returns
// the same *DecodeError.
func (d *Decoder) Next() (Entry, error) {
	if d.err != nil {
		return Entry{}, d.err
	}
	if d.index >= d.count {
		if d.index == d.count {
			d.index++
			d.stream.Container(d.depth, trace.ContainerEvent{
				KeyType:    d.keyType,
				Count:      d.count,
				HasSummary: d.summary != nil,
				Size:       d.r.Offset(),
				Closed:     true,
			})
		}
		return Entry{}, ErrEndOfContainer
	}

	start := d.r.Offset()
	ent, op, at, err := d.readEntry()
	if err != nil {
		d.err = &DecodeError{Offset: d.base + at, Index: d.index, Op: op, Err: err}
		d.stream.Error(d.depth, traceLayer(op), err, d.base+at, fmt.Sprintf("entry %d %s", d.index, op))
		return Entry{}, d.err
	}
	ent.index = d.index
	d.index++

	if d.stream != nil {
		d.stream.Entry(d.depth, trace.EntryEvent{
			Index:         ent.index,
			Action:        ent.Action.String(),
			Key:           trace.ValueOf(ent.Key),
			LoadType:      ent.Type,
			Size:          d.r.Offset() - start,
			HasPermission: ent.Permission != nil,
		})
	}
	return ent, nil
}

func (d *Decoder) readEntry() (ent Entry, op string, at int, err error) {
	at = d.r.Offset()
	a, err := d.r.ReadByte()
	if err != nil {
		return ent, "action", at, err
	}
	ent.Action = Action(a & actionMask)
	if a&^(actionMask|permissionFlag) != 0 || !ent.Action.IsValid() {
		return ent, "action", at, fmt.Errorf("%w: %#02x", ErrInvalidAction, a)
	}

	if d.keyType != wire.TypeNoData {
		at = d.r.Offset()
		if ent.Key, err = d.r.ReadValue(d.keyType); err != nil {
			return ent, "key", at, err
		}
	}

	if a&permissionFlag != 0 {
		at = d.r.Offset()
		if ent.Permission, err = d.r.ReadBuffer(); err != nil {
			return ent, "permission", at, err
		}
	}

	at = d.r.Offset()
	lt, err := d.r.ReadByte()
	if err != nil {
		return ent, "load type", at, err
	}
	ent.Type = wire.DataType(lt)
	if err := d.filter.check(ent.Type); err != nil {
		return ent, "load type", at, err
	}
	if ent.Action == ActionDelete && ent.Type != wire.TypeNoData {
		return ent, "load type", at, fmt.Errorf("%w: delete entry with %s load", ErrInvalidAction, ent.Type)
	}

	at = d.r.Offset()
	switch ent.Type {
	case wire.TypeNoData:
	case wire.TypeContainer:
		n, err := d.r.ReadUint32()
		if err != nil {
			return ent, "load", at, err
		}
		ent.loadAt = d.base + d.r.Offset()
		if ent.load, err = d.r.Next(int(n)); err != nil {
			return ent, "load", at, err
		}
		ent.parent = d
	default:
		ent.loadAt = d.base + at
		if ent.load, err = d.r.SkipValue(ent.Type); err != nil {
			return ent, "load", at, err
		}
	}
	return ent, "", 0, nil
}

// Skip returns the encoded size of the container at the start of data,
// validating every entry on the way.
func Skip(data []byte) (int, error) {
	cfg := DefaultConfig()
	cfg.FormatVersion = ""
	d, err := NewDecoderWithConfig(data, cfg)
	if err != nil {
		return 0, err
	}
	for {
		_, err := d.Next()
		if errors.Is(err, ErrEndOfContainer) {
			return d.Offset(), nil
		}
		if err != nil {
			return 0, err
		}
	}
}
