package wire

import (
	"fmt"
	"math"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// Value is a decoded or to-be-encoded primitive. The concrete type is one of
// Int, UInt, Float, Double, Real, Date, Time, DateTime, Enum, Buffer or ASCII.
type Value interface {
	Kind() Kind
}

type (
	// Int is any signed integer load.
	Int int64
	// UInt is any unsigned integer load.
	UInt uint64
	// Float is an IEEE 754 single.
	Float float32
	// Double is an IEEE 754 double.
	Double float64
	// Enum is an enumeration value.
	Enum uint16
	// Buffer is an opaque byte span. Decoded buffers alias the source.
	Buffer []byte
	// ASCII is 7-bit text.
	ASCII string
)

func (Int) Kind() Kind      { return KindInt }
func (UInt) Kind() Kind     { return KindUInt }
func (Float) Kind() Kind    { return KindFloat }
func (Double) Kind() Kind   { return KindDouble }
func (Enum) Kind() Kind     { return KindEnum }
func (Buffer) Kind() Kind   { return KindBuffer }
func (ASCII) Kind() Kind    { return KindASCII }
func (Real) Kind() Kind     { return KindReal }
func (Date) Kind() Kind     { return KindDate }
func (Time) Kind() Kind     { return KindTime }
func (DateTime) Kind() Kind { return KindDateTime }

// primitive resolves t to a descriptor that carries a value, checking v's kind
// when v is non-nil.
func primitive(t DataType, v Value) (Descriptor, error) {
	d, err := Lookup(t)
	if err != nil {
		return d, err
	}
	if !t.IsPrimitive() {
		return d, fmt.Errorf("%w: %s has no primitive encoding", ErrTypeMismatch, t)
	}
	if v != nil && v.Kind() != d.Kind {
		return d, fmt.Errorf("%w: %s value for %s", ErrTypeMismatch, v.Kind(), t)
	}
	return d, nil
}

// checkIntRange reports whether v fits a signed integer of width bytes.
func checkIntRange(t DataType, v int64, width int) error {
	if width >= 8 {
		return nil
	}
	lim := int64(1) << (8*width - 1)
	if v < -lim || v >= lim {
		return fmt.Errorf("%w: %d for %s", ErrValueRange, v, t)
	}
	return nil
}

func checkUintRange(t DataType, v uint64, width int) error {
	if width >= 8 {
		return nil
	}
	if v >= uint64(1)<<(8*width) {
		return fmt.Errorf("%w: %d for %s", ErrValueRange, v, t)
	}
	return nil
}

// Size returns the encoded size of v as type t.
func Size(t DataType, v Value) (int, error) {
	d, err := primitive(t, v)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case Int:
		if d.Scheme == SchemeReservedBit {
			if n := d.Family.Size(int64(x)); n > 0 {
				return n, nil
			}
			return 0, fmt.Errorf("%w: %d for %s", ErrValueRange, x, t)
		}
		if err := checkIntRange(t, int64(x), d.Width); err != nil {
			return 0, err
		}
		return IntSize(int64(x)), nil
	case UInt:
		switch d.Scheme {
		case SchemeReservedBit:
			if n := d.Family.UintSize(uint64(x)); n > 0 {
				return n, nil
			}
			return 0, fmt.Errorf("%w: %d for %s", ErrValueRange, x, t)
		case SchemeSentinel:
			if err := checkUintRange(t, uint64(x), d.Width); err != nil {
				return 0, err
			}
			return EscapedSize(uint32(x)), nil
		}
		if err := checkUintRange(t, uint64(x), d.Width); err != nil {
			return 0, err
		}
		return UintSize(uint64(x)), nil
	case Float:
		return 4, nil
	case Double:
		return 8, nil
	case Enum:
		return UintSize(uint16(x)), nil
	case Real:
		if d.Scheme == SchemeRealRB {
			if n := RealRBSize(x, d.Width); n > 0 {
				return n, nil
			}
			return 0, fmt.Errorf("%w: mantissa %d for %s", ErrValueRange, x.Mantissa, t)
		}
		return RealSize(x), nil
	case Date:
		return DateSize(x), nil
	case Time:
		return TimeSize(x), nil
	case DateTime:
		return DateTimeSize(x), nil
	case Buffer:
		return BufferSize(x), nil
	case ASCII:
		return EscapedSize(uint16(min(len(x), MaxBufferLen))) + len(x), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrTypeMismatch, v)
	}
}

// Encode writes v as type t into dst and returns the bytes written. dst is
// left untouched on error.
func Encode(dst []byte, t DataType, v Value) (int, error) {
	d, err := primitive(t, v)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case Int:
		if d.Scheme == SchemeReservedBit {
			return d.Family.PutInt(dst, int64(x))
		}
		if err := checkIntRange(t, int64(x), d.Width); err != nil {
			return 0, err
		}
		return PutInt(dst, int64(x))
	case UInt:
		switch d.Scheme {
		case SchemeReservedBit:
			return d.Family.PutUint(dst, uint64(x))
		case SchemeSentinel:
			if err := checkUintRange(t, uint64(x), d.Width); err != nil {
				return 0, err
			}
			return PutEscaped(dst, uint32(x))
		}
		if err := checkUintRange(t, uint64(x), d.Width); err != nil {
			return 0, err
		}
		return PutUint(dst, uint64(x))
	case Float:
		if len(dst) < 4 {
			return 0, fmt.Errorf("%w: need 4 bytes, have %d", ErrBufferOverrun, len(dst))
		}
		return byteorder.PutFloat32(dst, float32(x)), nil
	case Double:
		if len(dst) < 8 {
			return 0, fmt.Errorf("%w: need 8 bytes, have %d", ErrBufferOverrun, len(dst))
		}
		return byteorder.PutFloat64(dst, float64(x)), nil
	case Enum:
		return PutUint(dst, uint16(x))
	case Real:
		if d.Scheme == SchemeRealRB {
			return PutRealRB(dst, x, d.Width)
		}
		return PutReal(dst, x)
	case Date:
		return PutDate(dst, x)
	case Time:
		return PutTime(dst, x)
	case DateTime:
		return PutDateTime(dst, x)
	case Buffer:
		return PutBuffer(dst, x)
	case ASCII:
		return PutASCII(dst, string(x))
	default:
		return 0, fmt.Errorf("%w: %T", ErrTypeMismatch, v)
	}
}

// Decode reads a value of type t from the start of src and returns it with
// the bytes consumed.
func Decode(src []byte, t DataType) (Value, int, error) {
	d, err := primitive(t, nil)
	if err != nil {
		return nil, 0, err
	}
	switch d.Scheme {
	case SchemeLengthPrefixed:
		return decodeLengthPrefixed(src, d)
	case SchemeReservedBit:
		if d.Kind == KindInt {
			v, n, err := d.Family.GetInt(src)
			return Int(v), n, err
		}
		v, n, err := d.Family.GetUint(src)
		return UInt(v), n, err
	case SchemeSentinel:
		if d.Width == 2 {
			v, n, err := GetEscaped[uint16](src)
			return UInt(v), n, err
		}
		v, n, err := GetEscaped[uint32](src)
		return UInt(v), n, err
	case SchemeFixed:
		if len(src) < d.Width {
			return nil, 0, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBufferUnderrun, t, d.Width, len(src))
		}
		if d.Kind == KindFloat {
			return Float(byteorder.GetFloat32(src)), 4, nil
		}
		return Double(byteorder.GetFloat64(src)), 8, nil
	case SchemeReal:
		r, n, err := GetReal(src)
		if err != nil {
			return nil, 0, err
		}
		return r, n, nil
	case SchemeRealRB:
		r, n, err := GetRealRB(src, d.Width)
		if err != nil {
			return nil, 0, err
		}
		return r, n, nil
	case SchemeTemporal:
		return decodeTemporal(src, d.Kind)
	case SchemeOpaque:
		if d.Kind == KindASCII {
			s, n, err := GetASCII(src)
			return ASCII(s), n, err
		}
		b, n, err := GetBuffer(src)
		return Buffer(b), n, err
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func decodeTemporal(src []byte, k Kind) (Value, int, error) {
	var (
		v   Value
		n   int
		err error
	)
	switch k {
	case KindDate:
		v, n, err = GetDate(src)
	case KindTime:
		v, n, err = GetTime(src)
	default:
		v, n, err = GetDateTime(src)
	}
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func decodeLengthPrefixed(src []byte, d Descriptor) (Value, int, error) {
	switch d.Kind {
	case KindEnum:
		v, n, err := GetUint[uint16](src)
		if err != nil {
			return nil, 0, err
		}
		return Enum(v), n, nil
	case KindInt:
		var (
			v   int64
			n   int
			err error
		)
		switch d.Width {
		case 1:
			var x int8
			x, n, err = GetInt[int8](src)
			v = int64(x)
		case 2:
			var x int16
			x, n, err = GetInt[int16](src)
			v = int64(x)
		case 4:
			var x int32
			x, n, err = GetInt[int32](src)
			v = int64(x)
		default:
			v, n, err = GetInt[int64](src)
		}
		if err != nil {
			return nil, 0, err
		}
		return Int(v), n, nil
	default:
		var (
			v   uint64
			n   int
			err error
		)
		switch d.Width {
		case 1:
			var x uint8
			x, n, err = GetUint[uint8](src)
			v = uint64(x)
		case 2:
			var x uint16
			x, n, err = GetUint[uint16](src)
			v = uint64(x)
		case 4:
			var x uint32
			x, n, err = GetUint[uint32](src)
			v = uint64(x)
		default:
			v, n, err = GetUint[uint64](src)
		}
		if err != nil {
			return nil, 0, err
		}
		return UInt(v), n, nil
	}
}

// Skip returns the encoded length of the value of type t at the start of src
// without materializing it.
func Skip(src []byte, t DataType) (int, error) {
	_, n, err := Decode(src, t)
	return n, err
}

// AsInt64 converts integer values to int64.
func AsInt64(v Value) (int64, error) {
	switch x := v.(type) {
	case Int:
		return int64(x), nil
	case UInt:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d exceeds int64", ErrValueRange, x)
		}
		return int64(x), nil
	case Enum:
		return int64(x), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
	}
}
