package trace

import (
	"os"
	"sync"
	"time"
)

// FileLogger appends events to a trace file. A new file opens with a
// FileHeader record, and every stream is declared by a StreamHeader before
// its first event. Reopening a file for append declares streams again.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	file       *os.File
	w          recordWriter
	mu         sync.Mutex
	closed     bool
	needHeader bool
	streams    map[string]StreamHeader
}

// NewFileLogger opens path for appending, creating it with mode 0644 if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileLogger{
		file:       f,
		w:          newRecordWriter(f),
		needHeader: info.Size() == 0,
		streams:    make(map[string]StreamHeader),
	}, nil
}

// Log writes an event to the file. Encoding errors are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if l.needHeader {
		if err := l.w.fileHeader(time.Now()); err != nil {
			return
		}
		l.needHeader = false
	}
	h, ok := l.streams[event.StreamID]
	if !ok {
		h = StreamHeader{
			ID:            event.StreamID,
			Direction:     event.Direction,
			FormatVersion: event.FormatVersion,
			Started:       event.Timestamp,
		}
		if err := l.w.stream(h); err != nil {
			return
		}
		l.streams[event.StreamID] = h
	}
	if event.FormatVersion == h.FormatVersion {
		event.FormatVersion = ""
	}
	_ = l.w.event(event)
}

// Close closes the file. Later Log calls are ignored, and repeated Close
// calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
