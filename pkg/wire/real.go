package wire

import (
	"fmt"
	"math"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// FormatBlank is the format byte of a blank real.
const FormatBlank byte = 0x20

// Exponent classes. Classes 0..21 scale the mantissa by 10^-14..10^7, classes
// 22..30 divide it by 1, 2, 4 .. 256.
const (
	ExponentNeg14 uint8 = 0
	ExponentNeg8  uint8 = 6
	ExponentNeg6  uint8 = 8
	ExponentNeg4  uint8 = 10
	ExponentNeg2  uint8 = 12
	Exponent0     uint8 = 14
	Exponent2     uint8 = 16
	Exponent7     uint8 = 21
	Fraction1     uint8 = 22
	Fraction2     uint8 = 23
	Fraction256   uint8 = 30

	maxExponentClass = Fraction256
)

// Real is a decimal value: Mantissa scaled by the multiplier of Exponent.
type Real struct {
	Mantissa int64
	Exponent uint8
	Blank    bool
}

// BlankReal is the blank real.
var BlankReal = Real{Blank: true}

// NewReal returns a non-blank real.
func NewReal(mantissa int64, exponent uint8) Real {
	return Real{Mantissa: mantissa, Exponent: exponent}
}

// Multiplier returns the scale factor of an exponent class.
func Multiplier(exponent uint8) (float64, error) {
	switch {
	case exponent <= Exponent7:
		return math.Pow10(int(exponent) - int(Exponent0)), nil
	case exponent <= Fraction256:
		return 1 / float64(uint(1)<<(exponent-Fraction1)), nil
	default:
		return 0, fmt.Errorf("%w: exponent class %d", ErrValueRange, exponent)
	}
}

// Float64 returns the real as a float. Blank reals convert to NaN.
func (r Real) Float64() float64 {
	if r.Blank {
		return math.NaN()
	}
	m, err := Multiplier(r.Exponent)
	if err != nil {
		return math.NaN()
	}
	return float64(r.Mantissa) * m
}

// RealFromFloat rounds f to the nearest mantissa for the exponent class.
func RealFromFloat(f float64, exponent uint8) (Real, error) {
	if math.IsNaN(f) {
		return BlankReal, nil
	}
	m, err := Multiplier(exponent)
	if err != nil {
		return Real{}, err
	}
	scaled := math.Round(f / m)
	if math.IsInf(scaled, 0) || scaled >= math.MaxInt64 || scaled < math.MinInt64 {
		return Real{}, fmt.Errorf("%w: %g at exponent class %d", ErrValueRange, f, exponent)
	}
	return Real{Mantissa: int64(scaled), Exponent: exponent}, nil
}

// String formats the real as mantissa and class.
func (r Real) String() string {
	if r.Blank {
		return "blank"
	}
	return fmt.Sprintf("%de%d", r.Mantissa, r.Exponent)
}

func (r Real) validate() error {
	if !r.Blank && r.Exponent > maxExponentClass {
		return fmt.Errorf("%w: exponent class %d", ErrValueRange, r.Exponent)
	}
	return nil
}

func checkFormat(format byte) error {
	if format&^FormatBlank > maxExponentClass || format&FormatBlank != 0 && format != FormatBlank {
		return fmt.Errorf("%w: format byte %#x", ErrMalformedLength, format)
	}
	return nil
}

// RealSize returns the encoded size of r in the length-prefixed profile.
func RealSize(r Real) int {
	if r.Blank {
		return 1
	}
	return 1 + IntSize(r.Mantissa)
}

// PutReal writes [length][format][mantissa], or the lone blank format byte.
// The length counts mantissa bytes only, so it never collides with 0x20.
func PutReal(dst []byte, r Real) (int, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	n := RealSize(r)
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, n, len(dst))
	}
	if r.Blank {
		dst[0] = FormatBlank
		return 1, nil
	}
	m, err := PutInt(dst[1:], r.Mantissa)
	if err != nil {
		return 0, err
	}
	dst[0], dst[1] = dst[1], r.Exponent
	return 1 + m, nil
}

// GetReal decodes a length-prefixed real.
func GetReal(src []byte) (Real, int, error) {
	if len(src) < 1 {
		return Real{}, 0, fmt.Errorf("%w: missing length byte", ErrBufferUnderrun)
	}
	if src[0] == FormatBlank {
		return BlankReal, 1, nil
	}
	l := int(src[0])
	if err := checkLength(l, 8); err != nil {
		return Real{}, 0, err
	}
	if len(src) < 2 {
		return Real{}, 0, fmt.Errorf("%w: missing format byte", ErrBufferUnderrun)
	}
	if src[1] > maxExponentClass {
		return Real{}, 0, fmt.Errorf("%w: format byte %#x", ErrMalformedLength, src[1])
	}
	if len(src) < 2+l {
		return Real{}, 0, fmt.Errorf("%w: mantissa length %d, have %d", ErrBufferUnderrun, l, len(src)-2)
	}
	m, err := signedValue(src[2 : 2+l])
	if err != nil {
		return Real{}, 0, err
	}
	return Real{Mantissa: m, Exponent: src[1]}, 2 + l, nil
}

// Mantissa byte counts selected by the top two bits of a reserved-bit format byte.
var (
	real32Sizes = [4]int{1, 2, 3, 4}
	real64Sizes = [4]int{2, 4, 6, 8}
)

func realRBSizes(width int) ([4]int, error) {
	switch width {
	case 4:
		return real32Sizes, nil
	case 8:
		return real64Sizes, nil
	default:
		return [4]int{}, fmt.Errorf("%w: %d-byte reserved-bit real", ErrUnknownType, width)
	}
}

// realRBClass returns the selector and mantissa size for m.
func realRBClass(sizes [4]int, m int64) (byte, int, bool) {
	for sel, size := range sizes {
		if size == 8 {
			return byte(sel), size, true
		}
		lim := int64(1) << (8*size - 1)
		if m >= -lim && m < lim {
			return byte(sel), size, true
		}
	}
	return 0, 0, false
}

// RealRBSize returns the encoded size of r in a reserved-bit profile of
// width 4 or 8, or 0 if the mantissa does not fit.
func RealRBSize(r Real, width int) int {
	if r.Blank {
		return 1
	}
	sizes, err := realRBSizes(width)
	if err != nil {
		return 0
	}
	_, size, ok := realRBClass(sizes, r.Mantissa)
	if !ok {
		return 0
	}
	return 1 + size
}

// PutRealRB writes [format|selector<<6][mantissa] for a 4 or 8-byte profile.
func PutRealRB(dst []byte, r Real, width int) (int, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	sizes, err := realRBSizes(width)
	if err != nil {
		return 0, err
	}
	if r.Blank {
		if len(dst) < 1 {
			return 0, fmt.Errorf("%w: need 1 byte", ErrBufferOverrun)
		}
		dst[0] = FormatBlank
		return 1, nil
	}
	sel, size, ok := realRBClass(sizes, r.Mantissa)
	if !ok {
		return 0, fmt.Errorf("%w: mantissa %d for %d-byte real", ErrValueRange, r.Mantissa, width)
	}
	if len(dst) < 1+size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, 1+size, len(dst))
	}
	dst[0] = sel<<6 | r.Exponent
	byteorder.Wire.Put(dst[1:], uint64(r.Mantissa), size)
	return 1 + size, nil
}

// GetRealRB decodes a reserved-bit real of width 4 or 8.
func GetRealRB(src []byte, width int) (Real, int, error) {
	sizes, err := realRBSizes(width)
	if err != nil {
		return Real{}, 0, err
	}
	if len(src) < 1 {
		return Real{}, 0, fmt.Errorf("%w: missing format byte", ErrBufferUnderrun)
	}
	format := src[0] & 0x3F
	if format == FormatBlank {
		if src[0] != FormatBlank {
			return Real{}, 0, fmt.Errorf("%w: blank real with length bits %#x", ErrMalformedLength, src[0])
		}
		return BlankReal, 1, nil
	}
	if err := checkFormat(format); err != nil {
		return Real{}, 0, err
	}
	size := sizes[src[0]>>6]
	if len(src) < 1+size {
		return Real{}, 0, fmt.Errorf("%w: %d-byte mantissa, have %d", ErrBufferUnderrun, size, len(src)-1)
	}
	return Real{Mantissa: byteorder.Wire.GetSigned(src[1:], size), Exponent: format}, 1 + size, nil
}
