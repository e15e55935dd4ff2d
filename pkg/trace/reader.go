package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Filter selects events. Zero-valued fields match everything.
type Filter struct {
	// StreamID filters by exact stream ID.
	StreamID string

	Direction *Direction
	Layer     *Layer
	Category  *Category

	// FormatVersion keeps streams that ran under this wire format version.
	FormatVersion string

	// MaxDepth drops events nested deeper than this container level.
	MaxDepth *int

	// LoadType keeps entry events carrying this load type.
	LoadType *wire.DataType

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time

	// ErrorsOnly keeps only error events.
	ErrorsOnly bool
}

func (f *Filter) matches(event Event) bool {
	if f.StreamID != "" && event.StreamID != f.StreamID {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.FormatVersion != "" && event.FormatVersion != f.FormatVersion {
		return false
	}
	if f.MaxDepth != nil && event.Depth > *f.MaxDepth {
		return false
	}
	if f.LoadType != nil && (event.Entry == nil || event.Entry.LoadType != *f.LoadType) {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.ErrorsOnly && event.Error == nil {
		return false
	}
	return true
}

// Reader streams events back from a trace file, restoring the fields the
// file states once per stream.
type Reader struct {
	file    *os.File
	records recordReader
	filter  Filter
	header  *FileHeader
	streams map[string]StreamHeader
	order   []string
}

// NewReader creates a Reader over every event in path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader returning only events matching filter.
// It fails with ErrNotTraceFile when path holds records but no file header.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		file:    f,
		records: newRecordReader(f),
		filter:  filter,
		streams: make(map[string]StreamHeader),
	}
	rec, err := r.records.next()
	if errors.Is(err, io.EOF) {
		return r, nil
	}
	if err == nil {
		err = checkFileHeader(rec)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.header = rec.File
	return r, nil
}

// Header returns the file header, nil for an empty file.
func (r *Reader) Header() *FileHeader {
	return r.header
}

// Streams returns the stream headers read so far, in file order.
func (r *Reader) Streams() []StreamHeader {
	out := make([]StreamHeader, len(r.order))
	for i, id := range r.order {
		out[i] = r.streams[id]
	}
	return out
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		rec, err := r.records.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		switch {
		case rec.Stream != nil:
			if _, ok := r.streams[rec.Stream.ID]; !ok {
				r.order = append(r.order, rec.Stream.ID)
			}
			r.streams[rec.Stream.ID] = *rec.Stream
		case rec.Event != nil:
			event := *rec.Event
			h, ok := r.streams[event.StreamID]
			if !ok {
				return Event{}, fmt.Errorf("%w: %q", ErrUndeclaredStream, event.StreamID)
			}
			if event.FormatVersion == "" {
				event.FormatVersion = h.FormatVersion
			}
			if r.filter.matches(event) {
				return event, nil
			}
		case rec.File != nil:
			return Event{}, fmt.Errorf("%w: file header inside the file", ErrNotTraceFile)
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
