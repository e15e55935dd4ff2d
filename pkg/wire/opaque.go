package wire

import (
	"fmt"
	"math"
)

// MaxBufferLen is the longest buffer a 16-bit escaped length can describe.
const MaxBufferLen = math.MaxUint16

// BufferSize returns the encoded size of b, length included.
func BufferSize(b []byte) int {
	return EscapedSize(uint16(min(len(b), MaxBufferLen))) + len(b)
}

// PutBuffer writes a sentinel-escaped 16-bit length followed by b.
func PutBuffer(dst []byte, b []byte) (int, error) {
	if len(b) > MaxBufferLen {
		return 0, fmt.Errorf("%w: buffer of %d bytes", ErrValueRange, len(b))
	}
	n := BufferSize(b)
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, n, len(dst))
	}
	h, err := PutEscaped(dst, uint16(len(b)))
	if err != nil {
		return 0, err
	}
	copy(dst[h:], b)
	return n, nil
}

// GetBuffer decodes a buffer. The returned slice aliases src.
func GetBuffer(src []byte) ([]byte, int, error) {
	l, h, err := GetEscaped[uint16](src)
	if err != nil {
		return nil, 0, err
	}
	end := h + int(l)
	if len(src) < end {
		return nil, 0, fmt.Errorf("%w: buffer of %d bytes, have %d", ErrBufferUnderrun, l, len(src)-h)
	}
	return src[h:end:end], end, nil
}

// PutASCII writes 7-bit text as a buffer.
func PutASCII(dst []byte, s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return 0, fmt.Errorf("%w: non-ASCII byte %#x at %d", ErrValueRange, s[i], i)
		}
	}
	if len(s) > MaxBufferLen {
		return 0, fmt.Errorf("%w: text of %d bytes", ErrValueRange, len(s))
	}
	n := EscapedSize(uint16(len(s))) + len(s)
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, n, len(dst))
	}
	h, err := PutEscaped(dst, uint16(len(s)))
	if err != nil {
		return 0, err
	}
	copy(dst[h:], s)
	return n, nil
}

// GetASCII decodes 7-bit text.
func GetASCII(src []byte) (string, int, error) {
	b, n, err := GetBuffer(src)
	if err != nil {
		return "", 0, err
	}
	return string(b), n, nil
}
