package trace

import (
	"time"

	"github.com/google/uuid"
)

// Stream stamps events of one encode or decode pass with a shared ID and
// direction before handing them to a Logger. A nil *Stream discards events.
type Stream struct {
	logger    Logger
	id        string
	direction Direction
	version   string
}

// NewStream returns a Stream for logger, or nil when logger is nil.
// An empty id is replaced by a random UUID. formatVersion is stamped on
// every event; empty means no manifest restricts the pass.
func NewStream(logger Logger, id string, direction Direction, formatVersion string) *Stream {
	if logger == nil {
		return nil
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &Stream{logger: logger, id: id, direction: direction, version: formatVersion}
}

// ID returns the stream identifier.
func (s *Stream) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *Stream) emit(depth int, layer Layer, cat Category, fill func(*Event)) {
	if s == nil {
		return
	}
	ev := Event{
		Timestamp:     time.Now(),
		StreamID:      s.id,
		Direction:     s.direction,
		Layer:         layer,
		Category:      cat,
		FormatVersion: s.version,
		Depth:         depth,
	}
	fill(&ev)
	s.logger.Log(ev)
}

// Container records a container header or close.
func (s *Stream) Container(depth int, c ContainerEvent) {
	s.emit(depth, LayerContainer, CategoryContainer, func(ev *Event) { ev.Container = &c })
}

// Entry records one container entry.
func (s *Stream) Entry(depth int, e EntryEvent) {
	s.emit(depth, LayerContainer, CategoryEntry, func(ev *Event) { ev.Entry = &e })
}

// Error records a failure at offset. Nil errors are ignored.
func (s *Stream) Error(depth int, layer Layer, err error, offset int, context string) {
	if err == nil {
		return
	}
	s.emit(depth, layer, CategoryError, func(ev *Event) {
		ev.Error = &ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Offset:  offset,
			Context: context,
		}
	})
}
