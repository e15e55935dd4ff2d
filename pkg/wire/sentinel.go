package wire

import (
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// Sentinel bytes of the escaped scheme. Values below SentinelShort are written
// as a single byte, so neither sentinel ever appears as a direct value.
const (
	// SentinelShort is followed by a 2-byte big-endian value.
	SentinelShort byte = 0xFE

	// SentinelLong is followed by a 4-byte big-endian value (32-bit targets only).
	SentinelLong byte = 0xFF
)

// Escaped is the set of targets of the sentinel-escaped scheme.
type Escaped interface {
	~uint16 | ~uint32
}

// EscapedSize returns the encoded size of v.
func EscapedSize[T Escaped](v T) int {
	switch {
	case uint64(v) < uint64(SentinelShort):
		return 1
	case uint64(v) <= 0xFFFF:
		return 3
	default:
		return 5
	}
}

// PutEscaped writes v directly when it is below 0xFE, otherwise as a sentinel
// followed by the fixed-width value.
func PutEscaped[T Escaped](dst []byte, v T) (int, error) {
	n := EscapedSize(v)
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, n, len(dst))
	}
	switch n {
	case 1:
		dst[0] = byte(v)
	case 3:
		dst[0] = SentinelShort
		byteorder.Put16(dst[1:], uint16(v))
	default:
		dst[0] = SentinelLong
		byteorder.Put32(dst[1:], uint32(v))
	}
	return n, nil
}

// GetEscaped decodes a sentinel-escaped value and returns it with the bytes
// consumed. SentinelLong is malformed for 16-bit targets.
func GetEscaped[T Escaped](src []byte) (T, int, error) {
	if len(src) < 1 {
		return 0, 0, fmt.Errorf("%w: empty escaped field", ErrBufferUnderrun)
	}
	switch b := src[0]; {
	case b < SentinelShort:
		return T(b), 1, nil
	case b == SentinelShort:
		if len(src) < 3 {
			return 0, 0, fmt.Errorf("%w: escaped 16-bit value, have %d", ErrBufferUnderrun, len(src)-1)
		}
		return T(byteorder.Get16(src[1:])), 3, nil
	default:
		if byteorder.Width[T]() < 4 {
			return 0, 0, fmt.Errorf("%w: sentinel %#x for 16-bit field", ErrMalformedLength, b)
		}
		if len(src) < 5 {
			return 0, 0, fmt.Errorf("%w: escaped 32-bit value, have %d", ErrBufferUnderrun, len(src)-1)
		}
		return T(byteorder.Get32(src[1:])), 5, nil
	}
}
