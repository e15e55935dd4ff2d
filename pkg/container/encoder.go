package container

import (
	"errors"
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

const (
	flagSummary = 0x01
	countSize   = 2
	lengthSize  = 4
)

// Header declares a container's key type and optional summary.
type Header struct {
	// KeyType is the type of every entry key, TypeNoData for unkeyed entries.
	KeyType wire.DataType

	// SummaryType and Summary describe the optional summary load. A nil
	// Summary omits it.
	SummaryType wire.DataType
	Summary     wire.Value
}

// Field is one entry to encode.
type Field struct {
	Action Action

	// Key must be set in keyed containers and nil otherwise.
	Key wire.Value

	// Permission is optional permission data. Nil omits it; an empty
	// non-nil slice is transmitted as a zero-length buffer.
	Permission []byte

	// Type and Value form the load. Delete entries leave both unset.
	Type  wire.DataType
	Value wire.Value
}

type frame struct {
	header   Header
	countAt  int
	lengthAt int
	start    int
	count    int
}

// Encoder writes one container tree into a fixed buffer.
// It is not safe for concurrent use.
type Encoder struct {
	w       *wire.Writer
	filter  typeFilter
	cfg     Config
	stack   []frame
	stream  *trace.Stream
	started bool
}

// NewEncoder returns an Encoder over buf using DefaultConfig.
func NewEncoder(buf []byte) *Encoder {
	e, err := NewEncoderWithConfig(buf, DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default container config: %v", err))
	}
	return e
}

// NewEncoderWithConfig returns an Encoder over buf.
func NewEncoderWithConfig(buf []byte, cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := newTypeFilter(cfg)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		w:      wire.NewWriter(buf),
		filter: filter,
		cfg:    cfg,
		stream: trace.NewStream(cfg.Tracer, cfg.StreamID, trace.DirectionEncode, cfg.FormatVersion),
	}, nil
}

// Reset discards all state and starts over on buf.
func (e *Encoder) Reset(buf []byte) {
	e.w = wire.NewWriter(buf)
	e.stack = e.stack[:0]
	e.started = false
}

// Depth returns the number of open containers.
func (e *Encoder) Depth() int {
	return len(e.stack)
}

// Len returns the number of bytes written.
func (e *Encoder) Len() int {
	return e.w.Len()
}

// Bytes returns the encoded container once every container is closed.
func (e *Encoder) Bytes() ([]byte, error) {
	if !e.started || len(e.stack) > 0 {
		return nil, fmt.Errorf("%w: %d containers open", ErrEncoderState, len(e.stack))
	}
	return e.w.Bytes(), nil
}

func (e *Encoder) fail(err error, context string) error {
	layer := trace.LayerContainer
	var fe *fieldError
	if errors.As(err, &fe) {
		layer = traceLayer(fe.field)
	}
	e.stream.Error(len(e.stack), layer, err, e.w.Len(), context)
	return err
}

func (e *Encoder) headerSize(h Header) (int, error) {
	if err := e.filter.checkKeyType(h.KeyType); err != nil {
		return 0, err
	}
	size := 2 + countSize
	if h.Summary != nil {
		if err := e.filter.checkSummaryType(h.SummaryType); err != nil {
			return 0, err
		}
		n, err := wire.Size(h.SummaryType, h.Summary)
		if err != nil {
			return 0, &fieldError{field: "summary", err: err}
		}
		size += 1 + n
	}
	return size, nil
}

// writeHeader fills p, which holds exactly the header, and returns the
// offset of the count field within p.
func writeHeader(p []byte, h Header) (int, error) {
	var flags byte
	if h.Summary != nil {
		flags |= flagSummary
	}
	p[0] = flags
	p[1] = byte(h.KeyType)
	o := 2
	if h.Summary != nil {
		p[o] = byte(h.SummaryType)
		n, err := wire.Encode(p[o+1:], h.SummaryType, h.Summary)
		if err != nil {
			return 0, &fieldError{field: "summary", err: err}
		}
		o += 1 + n
	}
	byteorder.Put16(p[o:], 0)
	return o, nil
}

// Begin opens the outermost container.
func (e *Encoder) Begin(h Header) error {
	if e.started {
		return e.fail(fmt.Errorf("%w: container already begun", ErrEncoderState), "begin")
	}
	size, err := e.headerSize(h)
	if err != nil {
		return e.fail(err, "begin")
	}
	start := e.w.Len()
	p, err := e.w.Reserve(size)
	if err != nil {
		return e.fail(err, "begin")
	}
	countAt, err := writeHeader(p, h)
	if err != nil {
		e.w.Truncate(start)
		return e.fail(err, "begin")
	}
	e.started = true
	e.stack = append(e.stack, frame{header: h, countAt: start + countAt, lengthAt: -1, start: start})
	e.stream.Container(0, trace.ContainerEvent{KeyType: h.KeyType, HasSummary: h.Summary != nil})
	return nil
}

func (e *Encoder) top() (*frame, error) {
	if len(e.stack) == 0 {
		return nil, fmt.Errorf("%w: no open container", ErrEncoderState)
	}
	f := &e.stack[len(e.stack)-1]
	if f.count >= MaxEntries {
		return nil, fmt.Errorf("%w: container holds %d entries", wire.ErrValueRange, f.count)
	}
	return f, nil
}

// headSize validates the action, key, and permission of f and returns the
// size of the entry up to and including the load type.
func (e *Encoder) headSize(top *frame, f Field) (int, error) {
	if !f.Action.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAction, uint8(f.Action))
	}
	size := 2
	keyType := top.header.KeyType
	switch {
	case keyType == wire.TypeNoData && f.Key != nil:
		return 0, ErrUnexpectedKey
	case keyType != wire.TypeNoData && f.Key == nil:
		return 0, fmt.Errorf("%w: key type %s", ErrKeyRequired, keyType)
	case f.Key != nil:
		n, err := wire.Size(keyType, f.Key)
		if err != nil {
			return 0, &fieldError{field: "key", err: err}
		}
		size += n
	}
	if f.Permission != nil {
		if len(f.Permission) > wire.MaxBufferLen {
			return 0, &fieldError{field: "permission", err: fmt.Errorf("%w: %d bytes", wire.ErrValueRange, len(f.Permission))}
		}
		size += wire.BufferSize(f.Permission)
	}
	return size, nil
}

// writeHead fills the action, key, permission, and load type of f into p.
func writeHead(p []byte, keyType wire.DataType, f Field, loadType wire.DataType) (int, error) {
	a := byte(f.Action)
	if f.Permission != nil {
		a |= permissionFlag
	}
	p[0] = a
	o := 1
	if f.Key != nil {
		n, err := wire.Encode(p[o:], keyType, f.Key)
		if err != nil {
			return 0, &fieldError{field: "key", err: err}
		}
		o += n
	}
	if f.Permission != nil {
		n, err := wire.PutBuffer(p[o:], f.Permission)
		if err != nil {
			return 0, &fieldError{field: "permission", err: err}
		}
		o += n
	}
	p[o] = byte(loadType)
	return o + 1, nil
}

// Put appends a primitive or empty entry to the innermost open container.
// On error nothing is written.
func (e *Encoder) Put(f Field) error {
	top, err := e.top()
	if err != nil {
		return e.fail(err, "put")
	}
	size, err := e.headSize(top, f)
	if err != nil {
		return e.fail(err, e.entryContext(top))
	}

	loadType := f.Type
	switch {
	case f.Action == ActionDelete:
		if loadType != wire.TypeNoData || f.Value != nil {
			return e.fail(fmt.Errorf("%w: delete entry with %s load", ErrInvalidAction, loadType), e.entryContext(top))
		}
	case loadType == wire.TypeContainer:
		return e.fail(fmt.Errorf("%w: container loads go through PutContainer", wire.ErrTypeMismatch), e.entryContext(top))
	case loadType == wire.TypeNoData:
		if f.Value != nil {
			return e.fail(fmt.Errorf("%w: NO_DATA load with value", wire.ErrTypeMismatch), e.entryContext(top))
		}
	default:
		if err := e.filter.check(loadType); err != nil {
			return e.fail(err, e.entryContext(top))
		}
		n, err := wire.Size(loadType, f.Value)
		if err != nil {
			return e.fail(&fieldError{field: "load", err: err}, e.entryContext(top))
		}
		size += n
	}

	start := e.w.Len()
	p, err := e.w.Reserve(size)
	if err != nil {
		return e.fail(err, e.entryContext(top))
	}
	o, err := writeHead(p, top.header.KeyType, f, loadType)
	if err == nil && loadType != wire.TypeNoData {
		if _, err = wire.Encode(p[o:], loadType, f.Value); err != nil {
			err = &fieldError{field: "load", err: err}
		}
	}
	if err != nil {
		e.w.Truncate(start)
		return e.fail(err, e.entryContext(top))
	}

	e.traceEntry(top, f, loadType, size)
	top.count++
	return nil
}

// PutContainer appends an entry whose load is a nested container and opens
// it. Entries that follow go to the nested container until End.
func (e *Encoder) PutContainer(f Field, h Header) error {
	top, err := e.top()
	if err != nil {
		return e.fail(err, "put container")
	}
	if len(e.stack) >= e.cfg.MaxDepth {
		return e.fail(fmt.Errorf("%w: depth %d, limit %d", ErrDepthExceeded, len(e.stack), e.cfg.MaxDepth), e.entryContext(top))
	}
	if f.Action == ActionDelete {
		return e.fail(fmt.Errorf("%w: delete entry with container load", ErrInvalidAction), e.entryContext(top))
	}
	if err := e.filter.check(wire.TypeContainer); err != nil {
		return e.fail(err, e.entryContext(top))
	}
	head, err := e.headSize(top, f)
	if err != nil {
		return e.fail(err, e.entryContext(top))
	}
	hdr, err := e.headerSize(h)
	if err != nil {
		return e.fail(err, e.entryContext(top))
	}

	start := e.w.Len()
	p, err := e.w.Reserve(head + lengthSize + hdr)
	if err != nil {
		return e.fail(err, e.entryContext(top))
	}
	o, err := writeHead(p, top.header.KeyType, f, wire.TypeContainer)
	var countAt int
	if err == nil {
		byteorder.Put32(p[o:], 0)
		countAt, err = writeHeader(p[o+lengthSize:], h)
	}
	if err != nil {
		e.w.Truncate(start)
		return e.fail(err, e.entryContext(top))
	}

	e.traceEntry(top, f, wire.TypeContainer, head+lengthSize+hdr)
	top.count++
	nested := start + o + lengthSize
	e.stack = append(e.stack, frame{
		header:   h,
		countAt:  nested + countAt,
		lengthAt: start + o,
		start:    nested,
	})
	e.stream.Container(len(e.stack)-1, trace.ContainerEvent{KeyType: h.KeyType, HasSummary: h.Summary != nil})
	return nil
}

// End closes the innermost open container, patching its entry count and,
// for a nested container, its length.
func (e *Encoder) End() error {
	if len(e.stack) == 0 {
		return e.fail(fmt.Errorf("%w: no open container", ErrEncoderState), "end")
	}
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	out := e.w.Bytes()
	byteorder.Put16(out[f.countAt:], uint16(f.count))
	size := e.w.Len() - f.start
	if f.lengthAt >= 0 {
		byteorder.Put32(out[f.lengthAt:], uint32(size))
	}
	e.stream.Container(len(e.stack), trace.ContainerEvent{
		KeyType:    f.header.KeyType,
		Count:      f.count,
		HasSummary: f.header.Summary != nil,
		Size:       size,
		Closed:     true,
	})
	return nil
}

func (e *Encoder) entryContext(top *frame) string {
	return fmt.Sprintf("entry %d", top.count)
}

func (e *Encoder) traceEntry(top *frame, f Field, loadType wire.DataType, size int) {
	if e.stream == nil {
		return
	}
	e.stream.Entry(len(e.stack)-1, trace.EntryEvent{
		Index:         top.count,
		Action:        f.Action.String(),
		Key:           trace.ValueOf(f.Key),
		LoadType:      loadType,
		Size:          size,
		HasPermission: f.Permission != nil,
	})
}
