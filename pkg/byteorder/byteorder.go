// Package byteorder moves fixed-width values between Go integers and wire bytes.
//
// Every multi-byte field on the wire is big-endian. The functions here perform no
// bounds checking: callers size the destination first, exactly as with
// encoding/binary, and a short slice panics.
package byteorder

import (
	"encoding/binary"
	"math"
)

// Order selects the byte order used by Put and Get.
type Order uint8

const (
	// BigEndian is the canonical wire order.
	BigEndian Order = iota
	// LittleEndian is only used when moving values to and from host-layout memory.
	LittleEndian
)

// Wire is the byte order of every multi-byte wire field.
const Wire = BigEndian

// String returns the order name.
func (o Order) String() string {
	switch o {
	case BigEndian:
		return "BIG_ENDIAN"
	case LittleEndian:
		return "LITTLE_ENDIAN"
	default:
		return "UNKNOWN"
	}
}

// Put writes the low n bytes of v into dst and returns n. n must be in 1..8.
func (o Order) Put(dst []byte, v uint64, n int) int {
	_ = dst[n-1]
	if o == LittleEndian {
		for i := 0; i < n; i++ {
			dst[i] = byte(v >> (8 * i))
		}
		return n
	}
	for i := 0; i < n; i++ {
		dst[n-1-i] = byte(v >> (8 * i))
	}
	return n
}

// Get reads n bytes from src as an unsigned value. n must be in 1..8.
func (o Order) Get(src []byte, n int) uint64 {
	_ = src[n-1]
	var v uint64
	if o == LittleEndian {
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(src[i])
		}
		return v
	}
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(src[i])
	}
	return v
}

// GetSigned reads n bytes from src and sign-extends from the top bit of the
// most significant byte.
func (o Order) GetSigned(src []byte, n int) int64 {
	shift := uint(64 - 8*n)
	return int64(o.Get(src, n)<<shift) >> shift
}

// Unsigned is the set of Go unsigned integer types that map onto a wire width.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Signed is the set of Go signed integer types that map onto a wire width.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Integer is any integer type with a fixed wire width.
type Integer interface {
	Signed | Unsigned
}

// Width returns the byte width of T.
func Width[T Integer]() int {
	var v T = 1
	n := 0
	for v != 0 {
		v <<= 1
		n++
	}
	return n / 8
}

// PutInt writes v in its natural width using the wire order.
func PutInt[T Integer](dst []byte, v T) int {
	return Wire.Put(dst, uint64(v), Width[T]())
}

// GetUint reads a T of its natural width using the wire order.
func GetUint[T Unsigned](src []byte) T {
	return T(Wire.Get(src, Width[T]()))
}

// GetInt reads a signed T of its natural width using the wire order.
func GetInt[T Signed](src []byte) T {
	return T(Wire.GetSigned(src, Width[T]()))
}

// Put8 writes one byte.
func Put8(dst []byte, v uint8) int { dst[0] = v; return 1 }

// Put16 writes v big-endian.
func Put16(dst []byte, v uint16) int { binary.BigEndian.PutUint16(dst, v); return 2 }

// Put24 writes the low 24 bits of v big-endian.
func Put24(dst []byte, v uint32) int { return Wire.Put(dst, uint64(v), 3) }

// Put32 writes v big-endian.
func Put32(dst []byte, v uint32) int { binary.BigEndian.PutUint32(dst, v); return 4 }

// Put40 writes the low 40 bits of v big-endian.
func Put40(dst []byte, v uint64) int { return Wire.Put(dst, v, 5) }

// Put48 writes the low 48 bits of v big-endian.
func Put48(dst []byte, v uint64) int { return Wire.Put(dst, v, 6) }

// Put56 writes the low 56 bits of v big-endian.
func Put56(dst []byte, v uint64) int { return Wire.Put(dst, v, 7) }

// Put64 writes v big-endian.
func Put64(dst []byte, v uint64) int { binary.BigEndian.PutUint64(dst, v); return 8 }

// Get8 reads one byte.
func Get8(src []byte) uint8 { return src[0] }

// Get16 reads a big-endian uint16.
func Get16(src []byte) uint16 { return binary.BigEndian.Uint16(src) }

// Get24 reads a big-endian 24-bit value.
func Get24(src []byte) uint32 { return uint32(Wire.Get(src, 3)) }

// Get32 reads a big-endian uint32.
func Get32(src []byte) uint32 { return binary.BigEndian.Uint32(src) }

// Get40 reads a big-endian 40-bit value.
func Get40(src []byte) uint64 { return Wire.Get(src, 5) }

// Get48 reads a big-endian 48-bit value.
func Get48(src []byte) uint64 { return Wire.Get(src, 6) }

// Get56 reads a big-endian 56-bit value.
func Get56(src []byte) uint64 { return Wire.Get(src, 7) }

// Get64 reads a big-endian uint64.
func Get64(src []byte) uint64 { return binary.BigEndian.Uint64(src) }

// PutFloat32 writes the IEEE 754 bit pattern of v big-endian.
func PutFloat32(dst []byte, v float32) int { return Put32(dst, math.Float32bits(v)) }

// PutFloat64 writes the IEEE 754 bit pattern of v big-endian.
func PutFloat64(dst []byte, v float64) int { return Put64(dst, math.Float64bits(v)) }

// GetFloat32 reads a big-endian IEEE 754 single.
func GetFloat32(src []byte) float32 { return math.Float32frombits(Get32(src)) }

// GetFloat64 reads a big-endian IEEE 754 double.
func GetFloat64(src []byte) float64 { return math.Float64frombits(Get64(src)) }
