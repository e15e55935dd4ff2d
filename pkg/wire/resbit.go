package wire

import (
	"fmt"
	"math"

	"github.com/mdwire/mdwire-go/pkg/byteorder"
)

// Family identifies a reserved-bit layout: how many selector bits lead the
// first byte and which length classes they select. A field's Family is fixed
// by its DataType.
type Family uint8

const (
	// FamilyU14 uses a 1-bit selector over 7-bit (1 byte) and 14-bit (2 byte) classes.
	FamilyU14 Family = iota + 1

	// FamilyU15 uses a 1-bit selector over 7-bit and 15-bit classes.
	FamilyU15

	// FamilyU30 uses a 2-bit selector over 6, 14, 22 and 30-bit classes.
	FamilyU30

	// FamilyU62 uses a 2-bit selector over 14, 30, 46 and 62-bit classes.
	FamilyU62

	// FamilyI30 is signed: bit 7 selects 22-bit (3 byte) or 30-bit (4 byte)
	// magnitude and bit 6 is the sign, extended on decode.
	FamilyI30

	// FamilyU31 uses a 1-bit selector over 23-bit (3 byte) and 31-bit (4 byte) classes.
	FamilyU31
)

// rbClass is one length class of a family.
type rbClass struct {
	size int  // bytes on the wire
	bits uint // value bits, sign flag excluded
	sel  byte // selector pattern, right-aligned
}

type rbLayout struct {
	name    string
	selBits uint
	signed  bool
	classes []rbClass
}

// Two-bit selectors map 00, 10, 01, 11 to the first through fourth class.
var rbLayouts = map[Family]rbLayout{
	FamilyU14: {"U14", 1, false, []rbClass{{1, 7, 0}, {2, 14, 1}}},
	FamilyU15: {"U15", 1, false, []rbClass{{1, 7, 0}, {2, 15, 1}}},
	FamilyU30: {"U30", 2, false, []rbClass{{1, 6, 0b00}, {2, 14, 0b10}, {3, 22, 0b01}, {4, 30, 0b11}}},
	FamilyU62: {"U62", 2, false, []rbClass{{2, 14, 0b00}, {4, 30, 0b10}, {6, 46, 0b01}, {8, 62, 0b11}}},
	FamilyI30: {"I30", 1, true, []rbClass{{3, 22, 0}, {4, 30, 1}}},
	FamilyU31: {"U31", 1, false, []rbClass{{3, 23, 0}, {4, 31, 1}}},
}

// String returns the family name.
func (f Family) String() string {
	if l, ok := rbLayouts[f]; ok {
		return l.name
	}
	return "UNKNOWN"
}

// Signed returns true if the family carries a sign flag.
func (f Family) Signed() bool {
	return rbLayouts[f].signed
}

func (f Family) layout() (rbLayout, error) {
	l, ok := rbLayouts[f]
	if !ok {
		return rbLayout{}, fmt.Errorf("%w: reserved-bit family %d", ErrUnknownType, uint8(f))
	}
	return l, nil
}

// classFor picks the narrowest class holding v. For signed families a class
// with b value bits holds [-2^b, 2^b).
func (l rbLayout) classFor(v int64, u uint64) (rbClass, bool) {
	for _, c := range l.classes {
		if l.signed {
			lim := int64(1) << c.bits
			if v >= -lim && v < lim {
				return c, true
			}
			continue
		}
		if u < uint64(1)<<c.bits {
			return c, true
		}
	}
	return rbClass{}, false
}

func (l rbLayout) classBySelector(first byte) rbClass {
	sel := first >> (8 - l.selBits)
	for _, c := range l.classes {
		if c.sel == sel {
			return c
		}
	}
	// Every selector pattern of every family is assigned.
	panic("wire: unassigned reserved-bit selector")
}

func (l rbLayout) put(dst []byte, c rbClass, word uint64) (int, error) {
	if len(dst) < c.size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverrun, c.size, len(dst))
	}
	word |= uint64(c.sel) << (8*uint(c.size) - l.selBits)
	return byteorder.Wire.Put(dst, word, c.size), nil
}

// read returns the raw bits below the selector together with the class.
func (l rbLayout) read(src []byte) (uint64, rbClass, error) {
	if len(src) < 1 {
		return 0, rbClass{}, fmt.Errorf("%w: empty reserved-bit field", ErrBufferUnderrun)
	}
	c := l.classBySelector(src[0])
	if len(src) < c.size {
		return 0, rbClass{}, fmt.Errorf("%w: %d-byte class, have %d", ErrBufferUnderrun, c.size, len(src))
	}
	return byteorder.Wire.Get(src, c.size), c, nil
}

// Size returns the encoded size of v, or 0 if v does not fit any class.
func (f Family) Size(v int64) int {
	l, err := f.layout()
	if err != nil {
		return 0
	}
	if !l.signed && v < 0 {
		return 0
	}
	c, ok := l.classFor(v, uint64(v))
	if !ok {
		return 0
	}
	return c.size
}

// UintSize returns the encoded size of v in an unsigned family, or 0 if v
// does not fit any class.
func (f Family) UintSize(v uint64) int {
	l, err := f.layout()
	if err != nil || l.signed {
		return f.Size(int64(v))
	}
	c, ok := l.classFor(0, v)
	if !ok {
		return 0
	}
	return c.size
}

// PutUint writes v in the narrowest class of an unsigned family.
func (f Family) PutUint(dst []byte, v uint64) (int, error) {
	l, err := f.layout()
	if err != nil {
		return 0, err
	}
	if l.signed {
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d for %s", ErrValueRange, v, l.name)
		}
		return f.PutInt(dst, int64(v))
	}
	c, ok := l.classFor(0, v)
	if !ok {
		return 0, fmt.Errorf("%w: %d for %s", ErrValueRange, v, l.name)
	}
	return l.put(dst, c, v)
}

// GetUint decodes an unsigned reserved-bit field and returns the value and
// bytes consumed.
func (f Family) GetUint(src []byte) (uint64, int, error) {
	l, err := f.layout()
	if err != nil {
		return 0, 0, err
	}
	if l.signed {
		v, n, err := f.GetInt(src)
		if err == nil && v < 0 {
			return 0, 0, fmt.Errorf("%w: negative %d read as unsigned", ErrTypeMismatch, v)
		}
		return uint64(v), n, err
	}
	raw, c, err := l.read(src)
	if err != nil {
		return 0, 0, err
	}
	return raw & (uint64(1)<<c.bits - 1), c.size, nil
}

// PutInt writes v in the narrowest class of the family. Unsigned families
// reject negative values.
func (f Family) PutInt(dst []byte, v int64) (int, error) {
	l, err := f.layout()
	if err != nil {
		return 0, err
	}
	if !l.signed {
		if v < 0 {
			return 0, fmt.Errorf("%w: negative %d for %s", ErrValueRange, v, l.name)
		}
		return f.PutUint(dst, uint64(v))
	}
	c, ok := l.classFor(v, 0)
	if !ok {
		return 0, fmt.Errorf("%w: %d for %s", ErrValueRange, v, l.name)
	}
	return l.put(dst, c, signedWord(v, c))
}

// signedWord keeps the value bits plus the sign flag directly above them.
func signedWord(v int64, c rbClass) uint64 {
	return uint64(v) & (uint64(1)<<(c.bits+1) - 1)
}

// GetInt decodes a reserved-bit field as a signed value.
func (f Family) GetInt(src []byte) (int64, int, error) {
	l, err := f.layout()
	if err != nil {
		return 0, 0, err
	}
	if !l.signed {
		u, n, err := f.GetUint(src)
		return int64(u), n, err
	}
	raw, c, err := l.read(src)
	if err != nil {
		return 0, 0, err
	}
	shift := 64 - (c.bits + 1)
	return int64(raw<<shift) >> shift, c.size, nil
}

// ReplaceI30 overwrites the FamilyI30 field at the start of dst with v without
// moving the bytes that follow it. A 30-bit slot is never narrowed. A 22-bit
// slot is rewritten in place when v fits, and widened to 30 bits only when
// dst has room for the extra byte; the caller owns what that byte overlays.
func ReplaceI30(dst []byte, v int64) (int, error) {
	l := rbLayouts[FamilyI30]
	if len(dst) < 1 {
		return 0, fmt.Errorf("%w: empty slot", ErrBufferUnderrun)
	}
	slot := l.classBySelector(dst[0])
	want, ok := l.classFor(v, 0)
	if !ok {
		return 0, fmt.Errorf("%w: %d for %s", ErrValueRange, v, l.name)
	}
	if want.size < slot.size {
		want = slot
	}
	return l.put(dst, want, signedWord(v, want))
}
