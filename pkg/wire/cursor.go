package wire

import (
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// Reader is a forward-only decode cursor over a byte slice. Values read
// through it alias the slice.
type Reader struct {
	data   []byte
	offset int
}

// NewReader wraps data for decoding.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

// Rest returns the unread bytes without consuming them.
func (r *Reader) Rest() []byte {
	return r.data[r.offset:]
}

// Next consumes n bytes and returns them.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferUnderrun, n, r.offset, r.Remaining())
	}
	b := r.data[r.offset : r.offset+n : r.offset+n]
	r.offset += n
	return b, nil
}

// ReadByte consumes one byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 consumes a fixed 4-byte big-endian value.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return byteorder.Get32(b), nil
}

// ReadValue decodes one value of type t.
func (r *Reader) ReadValue(t DataType) (Value, error) {
	v, n, err := Decode(r.Rest(), t)
	if err != nil {
		return nil, err
	}
	r.offset += n
	return v, nil
}

// SkipValue consumes one value of type t and returns its raw bytes.
func (r *Reader) SkipValue(t DataType) ([]byte, error) {
	n, err := Skip(r.Rest(), t)
	if err != nil {
		return nil, err
	}
	return r.Next(n)
}

// ReadFamily decodes a reserved-bit unsigned field.
func (r *Reader) ReadFamily(f Family) (uint64, error) {
	v, n, err := f.GetUint(r.Rest())
	if err != nil {
		return 0, err
	}
	r.offset += n
	return v, nil
}

// ReadBuffer decodes a length-prefixed buffer.
func (r *Reader) ReadBuffer() ([]byte, error) {
	b, n, err := GetBuffer(r.Rest())
	if err != nil {
		return nil, err
	}
	r.offset += n
	return b, nil
}

// Writer is an encode cursor over a fixed-capacity buffer. A failed write
// leaves both the buffer and the cursor unchanged.
type Writer struct {
	buf    []byte
	offset int
}

// NewWriter encodes into buf, which is never grown.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.offset]
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.offset
}

// Available returns the unused capacity.
func (w *Writer) Available() int {
	return len(w.buf) - w.offset
}

// Reserve claims n bytes and returns them for the caller to fill.
func (w *Writer) Reserve(n int) ([]byte, error) {
	if n > w.Available() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferOverrun, n, w.offset, w.Available())
	}
	b := w.buf[w.offset : w.offset+n]
	w.offset += n
	return b, nil
}

// Truncate rewinds the cursor to offset, discarding later writes.
func (w *Writer) Truncate(offset int) {
	if offset >= 0 && offset <= w.offset {
		w.offset = offset
	}
}

// WriteByte appends one byte.
func (w *Writer) WriteByte(b byte) error {
	p, err := w.Reserve(1)
	if err != nil {
		return err
	}
	p[0] = b
	return nil
}

// Write appends raw bytes.
func (w *Writer) Write(p []byte) (int, error) {
	b, err := w.Reserve(len(p))
	if err != nil {
		return 0, err
	}
	return copy(b, p), nil
}

// WriteValue encodes v as type t.
func (w *Writer) WriteValue(t DataType, v Value) error {
	n, err := Encode(w.buf[w.offset:], t, v)
	if err != nil {
		return err
	}
	w.offset += n
	return nil
}

// WriteFamily encodes an unsigned reserved-bit field.
func (w *Writer) WriteFamily(f Family, v uint64) error {
	n, err := f.PutUint(w.buf[w.offset:], v)
	if err != nil {
		return err
	}
	w.offset += n
	return nil
}

// WriteBuffer encodes a length-prefixed buffer.
func (w *Writer) WriteBuffer(b []byte) error {
	n, err := PutBuffer(w.buf[w.offset:], b)
	if err != nil {
		return err
	}
	w.offset += n
	return nil
}
