package wire

import (
	"fmt"
	"slices"
)

// DataType is the type tag transmitted ahead of a load or declared for a
// container's keys. The tag fixes both the Go value kind and the wire scheme.
type DataType uint8

const (
	// TypeNoData marks an entry without a load (Delete entries).
	TypeNoData DataType = 0

	// TypeInt64 is a signed 64-bit integer, length-prefixed.
	TypeInt64 DataType = 3

	// TypeUInt64 is an unsigned 64-bit integer, length-prefixed.
	TypeUInt64 DataType = 4

	// TypeFloat is an IEEE 754 single, 4 bytes big-endian.
	TypeFloat DataType = 5

	// TypeDouble is an IEEE 754 double, 8 bytes big-endian.
	TypeDouble DataType = 6

	// TypeReal is a decimal real with a length-prefixed mantissa.
	TypeReal DataType = 8

	// TypeDate is a calendar date.
	TypeDate DataType = 9

	// TypeTime is a time of day down to nanoseconds.
	TypeTime DataType = 10

	// TypeDateTime is a Date followed by a Time.
	TypeDateTime DataType = 11

	// TypeEnum is a 16-bit enumeration value, length-prefixed.
	TypeEnum DataType = 14

	// TypeBuffer is an opaque byte span.
	TypeBuffer DataType = 16

	// TypeASCII is 7-bit text.
	TypeASCII DataType = 17

	// Fixed-width length-prefixed integers.
	TypeInt8   DataType = 64
	TypeUInt8  DataType = 65
	TypeInt16  DataType = 66
	TypeUInt16 DataType = 67
	TypeInt32  DataType = 68
	TypeUInt32 DataType = 69

	// TypeReal32RB is a real whose format byte carries a 1..4 byte mantissa length.
	TypeReal32RB DataType = 74

	// TypeReal64RB is a real whose format byte carries a 2..8 byte mantissa length.
	TypeReal64RB DataType = 75

	// Reserved-bit integers. The suffix names the widest class.
	TypeUInt14RB DataType = 76
	TypeUInt15RB DataType = 77
	TypeUInt30RB DataType = 78
	TypeUInt62RB DataType = 79
	TypeInt30RB  DataType = 80
	TypeUInt31RB DataType = 81

	// Sentinel-escaped integers.
	TypeUInt16OB DataType = 82
	TypeUInt32OB DataType = 83

	// TypeContainer marks a nested container load.
	TypeContainer DataType = 128
)

// String returns the data type name.
func (t DataType) String() string {
	if d, ok := descriptors[t]; ok {
		return d.Name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// IsValid returns true if the type belongs to the enumeration.
func (t DataType) IsValid() bool {
	_, ok := descriptors[t]
	return ok
}

// Kind is the Go value variant a DataType decodes to.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindUInt
	KindFloat
	KindDouble
	KindReal
	KindDate
	KindTime
	KindDateTime
	KindEnum
	KindBuffer
	KindASCII
	KindContainer
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindInt:
		return "INT"
	case KindUInt:
		return "UINT"
	case KindFloat:
		return "FLOAT"
	case KindDouble:
		return "DOUBLE"
	case KindReal:
		return "REAL"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindDateTime:
		return "DATETIME"
	case KindEnum:
		return "ENUM"
	case KindBuffer:
		return "BUFFER"
	case KindASCII:
		return "ASCII"
	case KindContainer:
		return "CONTAINER"
	default:
		return "UNKNOWN"
	}
}

// Scheme is the wire layout family used for a DataType.
type Scheme uint8

const (
	SchemeNone Scheme = iota
	SchemeLengthPrefixed
	SchemeReservedBit
	SchemeSentinel
	SchemeFixed
	SchemeReal
	SchemeRealRB
	SchemeTemporal
	SchemeOpaque
	SchemeContainer
)

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case SchemeNone:
		return "NONE"
	case SchemeLengthPrefixed:
		return "LENGTH_PREFIXED"
	case SchemeReservedBit:
		return "RESERVED_BIT"
	case SchemeSentinel:
		return "SENTINEL"
	case SchemeFixed:
		return "FIXED"
	case SchemeReal:
		return "REAL"
	case SchemeRealRB:
		return "REAL_RB"
	case SchemeTemporal:
		return "TEMPORAL"
	case SchemeOpaque:
		return "OPAQUE"
	case SchemeContainer:
		return "CONTAINER"
	default:
		return "UNKNOWN"
	}
}

// Descriptor binds a DataType to its value kind and wire layout.
type Descriptor struct {
	Type   DataType
	Name   string
	Kind   Kind
	Scheme Scheme

	// Width is the Go width in bytes for integer and real types.
	Width int

	// Family is set for SchemeReservedBit types.
	Family Family
}

var descriptors = map[DataType]Descriptor{
	TypeNoData:    {TypeNoData, "NO_DATA", KindNone, SchemeNone, 0, 0},
	TypeInt64:     {TypeInt64, "INT", KindInt, SchemeLengthPrefixed, 8, 0},
	TypeUInt64:    {TypeUInt64, "UINT", KindUInt, SchemeLengthPrefixed, 8, 0},
	TypeFloat:     {TypeFloat, "FLOAT", KindFloat, SchemeFixed, 4, 0},
	TypeDouble:    {TypeDouble, "DOUBLE", KindDouble, SchemeFixed, 8, 0},
	TypeReal:      {TypeReal, "REAL", KindReal, SchemeReal, 8, 0},
	TypeDate:      {TypeDate, "DATE", KindDate, SchemeTemporal, 0, 0},
	TypeTime:      {TypeTime, "TIME", KindTime, SchemeTemporal, 0, 0},
	TypeDateTime:  {TypeDateTime, "DATETIME", KindDateTime, SchemeTemporal, 0, 0},
	TypeEnum:      {TypeEnum, "ENUM", KindEnum, SchemeLengthPrefixed, 2, 0},
	TypeBuffer:    {TypeBuffer, "BUFFER", KindBuffer, SchemeOpaque, 0, 0},
	TypeASCII:     {TypeASCII, "ASCII_STRING", KindASCII, SchemeOpaque, 0, 0},
	TypeInt8:      {TypeInt8, "INT_1", KindInt, SchemeLengthPrefixed, 1, 0},
	TypeUInt8:     {TypeUInt8, "UINT_1", KindUInt, SchemeLengthPrefixed, 1, 0},
	TypeInt16:     {TypeInt16, "INT_2", KindInt, SchemeLengthPrefixed, 2, 0},
	TypeUInt16:    {TypeUInt16, "UINT_2", KindUInt, SchemeLengthPrefixed, 2, 0},
	TypeInt32:     {TypeInt32, "INT_4", KindInt, SchemeLengthPrefixed, 4, 0},
	TypeUInt32:    {TypeUInt32, "UINT_4", KindUInt, SchemeLengthPrefixed, 4, 0},
	TypeReal32RB:  {TypeReal32RB, "REAL_4RB", KindReal, SchemeRealRB, 4, 0},
	TypeReal64RB:  {TypeReal64RB, "REAL_8RB", KindReal, SchemeRealRB, 8, 0},
	TypeUInt14RB:  {TypeUInt14RB, "UINT_14RB", KindUInt, SchemeReservedBit, 2, FamilyU14},
	TypeUInt15RB:  {TypeUInt15RB, "UINT_15RB", KindUInt, SchemeReservedBit, 2, FamilyU15},
	TypeUInt30RB:  {TypeUInt30RB, "UINT_30RB", KindUInt, SchemeReservedBit, 4, FamilyU30},
	TypeUInt62RB:  {TypeUInt62RB, "UINT_62RB", KindUInt, SchemeReservedBit, 8, FamilyU62},
	TypeInt30RB:   {TypeInt30RB, "INT_30RB", KindInt, SchemeReservedBit, 4, FamilyI30},
	TypeUInt31RB:  {TypeUInt31RB, "UINT_31RB", KindUInt, SchemeReservedBit, 4, FamilyU31},
	TypeUInt16OB:  {TypeUInt16OB, "UINT_16OB", KindUInt, SchemeSentinel, 2, 0},
	TypeUInt32OB:  {TypeUInt32OB, "UINT_32OB", KindUInt, SchemeSentinel, 4, 0},
	TypeContainer: {TypeContainer, "CONTAINER", KindContainer, SchemeContainer, 0, 0},
}

// Lookup returns the descriptor for t.
func Lookup(t DataType) (Descriptor, error) {
	d, ok := descriptors[t]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
	return d, nil
}

// IsPrimitive returns true if t carries a scalar load.
func (t DataType) IsPrimitive() bool {
	d, ok := descriptors[t]
	return ok && d.Kind != KindNone && d.Kind != KindContainer
}

// ParseDataType returns the DataType with the given name, as printed by String.
func ParseDataType(name string) (DataType, error) {
	for t, d := range descriptors {
		if d.Name == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// DataTypes returns every registered data type in tag order.
func DataTypes() []DataType {
	out := make([]DataType, 0, len(descriptors))
	for t := range descriptors {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
