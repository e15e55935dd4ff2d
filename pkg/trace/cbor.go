package trace

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Trace file identification.
const (
	FileMagic   = "mdwire-trace"
	FileVersion = 1
)

var (
	// ErrNotTraceFile indicates a file that does not open with a trace
	// file header.
	ErrNotTraceFile = errors.New("not a trace file")

	// ErrUndeclaredStream indicates an event whose stream was never
	// declared in the file.
	ErrUndeclaredStream = errors.New("event for undeclared stream")
)

// FileHeader is the first record of a trace file.
type FileHeader struct {
	Magic   string    `cbor:"1,keyasint"`
	Version int       `cbor:"2,keyasint"`
	Created time.Time `cbor:"3,keyasint"`
}

// StreamHeader declares one encode or decode pass. A file logger writes it
// once, ahead of the first event of the stream, and events in the file
// leave out what the header already states.
type StreamHeader struct {
	ID            string    `cbor:"1,keyasint"`
	Direction     Direction `cbor:"2,keyasint"`
	FormatVersion string    `cbor:"3,keyasint,omitempty"`
	Started       time.Time `cbor:"4,keyasint"`
}

// record is one item of a trace file. Exactly one field is set.
type record struct {
	File   *FileHeader   `cbor:"1,keyasint,omitempty"`
	Stream *StreamHeader `cbor:"2,keyasint,omitempty"`
	Event  *Event        `cbor:"3,keyasint,omitempty"`
}

var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	// Real keys travel as {mantissa, exponent} maps; string keys keep them
	// exportable as JSON.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		DefaultMapType:    reflect.TypeOf(map[string]any(nil)),
	}
	traceDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// recordWriter writes trace file records to w.
type recordWriter struct {
	enc *cbor.Encoder
}

func newRecordWriter(w io.Writer) recordWriter {
	return recordWriter{enc: traceEncMode.NewEncoder(w)}
}

func (w recordWriter) fileHeader(created time.Time) error {
	return w.enc.Encode(record{File: &FileHeader{Magic: FileMagic, Version: FileVersion, Created: created}})
}

func (w recordWriter) stream(h StreamHeader) error {
	return w.enc.Encode(record{Stream: &h})
}

func (w recordWriter) event(e Event) error {
	return w.enc.Encode(record{Event: &e})
}

// recordReader reads trace file records from r.
type recordReader struct {
	dec *cbor.Decoder
}

func newRecordReader(r io.Reader) recordReader {
	return recordReader{dec: traceDecMode.NewDecoder(r)}
}

func (r recordReader) next() (record, error) {
	var rec record
	if err := r.dec.Decode(&rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

// checkFileHeader validates the leading record of a trace file.
func checkFileHeader(rec record) error {
	h := rec.File
	if h == nil || h.Magic != FileMagic {
		return ErrNotTraceFile
	}
	if h.Version != FileVersion {
		return fmt.Errorf("%w: file version %d, want %d", ErrNotTraceFile, h.Version, FileVersion)
	}
	return nil
}
