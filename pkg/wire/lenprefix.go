package wire

import (
	"fmt"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// MaxLength is the largest length byte a decoder accepts. Nine is only valid
// for 64-bit types whose first payload byte is pure sign or zero extension.
const MaxLength = 9

// signedLen returns the smallest payload length that holds v as
// two's-complement. Zero has the empty payload.
func signedLen(v int64) int {
	if v == 0 {
		return 0
	}
	for l := 1; l < 8; l++ {
		lim := int64(1) << (8*l - 1)
		if v >= -lim && v < lim {
			return l
		}
	}
	return 8
}

// unsignedLen returns the smallest payload length that holds v.
func unsignedLen(v uint64) int {
	l := 0
	for v != 0 {
		v >>= 8
		l++
	}
	return l
}

// IntSize returns the encoded size of v, length byte included.
func IntSize[T byteorder.Signed](v T) int {
	return 1 + signedLen(int64(v))
}

// UintSize returns the encoded size of v, length byte included.
func UintSize[T byteorder.Unsigned](v T) int {
	return 1 + unsignedLen(uint64(v))
}

// PutInt writes v as a length byte followed by the minimal big-endian
// two's-complement payload.
func PutInt[T byteorder.Signed](dst []byte, v T) (int, error) {
	l := signedLen(int64(v))
	if len(dst) < 1+l {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, 1+l, len(dst))
	}
	dst[0] = byte(l)
	if l > 0 {
		byteorder.Wire.Put(dst[1:], uint64(int64(v)), l)
	}
	return 1 + l, nil
}

// PutUint writes v as a length byte followed by the minimal big-endian payload.
func PutUint[T byteorder.Unsigned](dst []byte, v T) (int, error) {
	l := unsignedLen(uint64(v))
	if len(dst) < 1+l {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, 1+l, len(dst))
	}
	dst[0] = byte(l)
	if l > 0 {
		byteorder.Wire.Put(dst[1:], uint64(v), l)
	}
	return 1 + l, nil
}

// checkLength validates a length byte against a target width.
func checkLength(l, width int) error {
	if l > width && !(width == 8 && l == MaxLength) {
		return fmt.Errorf("%w: length %d for %d-byte integer", ErrMalformedLength, l, width)
	}
	return nil
}

// payload validates the length byte at src[0] against a target width and
// returns the payload slice.
func payload(src []byte, width int) ([]byte, error) {
	if len(src) < 1 {
		return nil, fmt.Errorf("%w: missing length byte", ErrBufferUnderrun)
	}
	l := int(src[0])
	if err := checkLength(l, width); err != nil {
		return nil, err
	}
	if len(src) < 1+l {
		return nil, fmt.Errorf("%w: length %d, have %d", ErrBufferUnderrun, l, len(src)-1)
	}
	return src[1 : 1+l], nil
}

// signedValue interprets a validated two's-complement payload.
func signedValue(p []byte) (int64, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) == MaxLength {
		// The extra leading byte must be the sign of the remaining eight.
		ext := byte(0)
		if p[1]&0x80 != 0 {
			ext = 0xFF
		}
		if p[0] != ext {
			return 0, fmt.Errorf("%w: 9-byte payload overflows 64 bits", ErrMalformedLength)
		}
		p = p[1:]
	}
	return byteorder.Wire.GetSigned(p, len(p)), nil
}

// GetInt decodes a length-prefixed signed integer and returns the value and
// bytes consumed.
func GetInt[T byteorder.Signed](src []byte) (T, int, error) {
	p, err := payload(src, byteorder.Width[T]())
	if err != nil {
		return 0, 0, err
	}
	v, err := signedValue(p)
	if err != nil {
		return 0, 0, err
	}
	return T(v), 1 + len(p), nil
}

// GetUint decodes a length-prefixed unsigned integer and returns the value
// and bytes consumed.
func GetUint[T byteorder.Unsigned](src []byte) (T, int, error) {
	p, err := payload(src, byteorder.Width[T]())
	if err != nil {
		return 0, 0, err
	}
	if len(p) == 0 {
		return 0, 1, nil
	}
	if len(p) == MaxLength {
		if p[0] != 0 {
			return 0, 0, fmt.Errorf("%w: 9-byte payload overflows 64 bits", ErrMalformedLength)
		}
		p = p[1:]
		return T(byteorder.Wire.Get(p, len(p))), 1 + MaxLength, nil
	}
	return T(byteorder.Wire.Get(p, len(p))), 1 + len(p), nil
}
