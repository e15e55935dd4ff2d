package byteorder

import (
	"bytes"
	"math"
	"testing"
)

func TestPutGetWidths(t *testing.T) {
	tests := []struct {
		name string
		n    int
		v    uint64
		want []byte
	}{
		{"8-bit", 1, 0xAB, []byte{0xAB}},
		{"16-bit", 2, 0x0102, []byte{0x01, 0x02}},
		{"24-bit", 3, 0x010203, []byte{0x01, 0x02, 0x03}},
		{"32-bit", 4, 0x01020304, []byte{0x01, 0x02, 0x03, 0x04}},
		{"40-bit", 5, 0x0102030405, []byte{0x01, 0x02, 0x03, 0x04, 0x05}},
		{"48-bit", 6, 0x010203040506, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}},
		{"56-bit", 7, 0x01020304050607, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}},
		{"64-bit", 8, 0x0102030405060708, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}},
		{"truncates high bits", 2, 0xFFFF0102, []byte{0x01, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.n)
			if n := Wire.Put(buf, tt.v, tt.n); n != tt.n {
				t.Fatalf("Put returned %d, want %d", n, tt.n)
			}
			if !bytes.Equal(buf, tt.want) {
				t.Errorf("Put = % x, want % x", buf, tt.want)
			}
			mask := uint64(math.MaxUint64) >> (64 - 8*tt.n)
			if got := Wire.Get(buf, tt.n); got != tt.v&mask {
				t.Errorf("Get = %#x, want %#x", got, tt.v&mask)
			}
		})
	}
}

func TestFixedWidthHelpers(t *testing.T) {
	buf := make([]byte, 8)

	Put16(buf, 0xBEEF)
	if Get16(buf) != 0xBEEF || buf[0] != 0xBE {
		t.Errorf("Put16/Get16 mismatch: % x", buf[:2])
	}
	Put24(buf, 0x123456)
	if Get24(buf) != 0x123456 {
		t.Errorf("Get24 = %#x", Get24(buf))
	}
	Put32(buf, 0xDEADBEEF)
	if Get32(buf) != 0xDEADBEEF {
		t.Errorf("Get32 = %#x", Get32(buf))
	}
	Put40(buf, 0x1122334455)
	if Get40(buf) != 0x1122334455 {
		t.Errorf("Get40 = %#x", Get40(buf))
	}
	Put48(buf, 0x112233445566)
	if Get48(buf) != 0x112233445566 {
		t.Errorf("Get48 = %#x", Get48(buf))
	}
	Put56(buf, 0x11223344556677)
	if Get56(buf) != 0x11223344556677 {
		t.Errorf("Get56 = %#x", Get56(buf))
	}
	Put64(buf, 0x1122334455667788)
	if Get64(buf) != 0x1122334455667788 {
		t.Errorf("Get64 = %#x", Get64(buf))
	}
	Put8(buf, 0x7F)
	if Get8(buf) != 0x7F {
		t.Errorf("Get8 = %#x", Get8(buf))
	}
}

func TestLittleEndian(t *testing.T) {
	buf := make([]byte, 3)
	LittleEndian.Put(buf, 0x010203, 3)
	if !bytes.Equal(buf, []byte{0x03, 0x02, 0x01}) {
		t.Fatalf("LittleEndian.Put = % x", buf)
	}
	if got := LittleEndian.Get(buf, 3); got != 0x010203 {
		t.Errorf("LittleEndian.Get = %#x", got)
	}
}

func TestGetSigned(t *testing.T) {
	tests := []struct {
		src  []byte
		want int64
	}{
		{[]byte{0x7F}, 127},
		{[]byte{0x80}, -128},
		{[]byte{0xFF, 0x7F}, -129},
		{[]byte{0x00, 0x80}, 128},
		{[]byte{0xFF, 0xFF, 0xFF}, -1},
		{[]byte{0x80, 0, 0, 0, 0, 0, 0, 0}, math.MinInt64},
	}
	for _, tt := range tests {
		if got := Wire.GetSigned(tt.src, len(tt.src)); got != tt.want {
			t.Errorf("GetSigned(% x) = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestGenericWidths(t *testing.T) {
	if Width[int8]() != 1 || Width[uint16]() != 2 || Width[int32]() != 4 || Width[uint64]() != 8 {
		t.Fatal("unexpected generic widths")
	}

	type price int32
	if Width[price]() != 4 {
		t.Errorf("Width[price] = %d, want 4", Width[price]())
	}

	buf := make([]byte, 8)
	if n := PutInt(buf, int16(-2)); n != 2 {
		t.Fatalf("PutInt returned %d", n)
	}
	if got := GetInt[int16](buf); got != -2 {
		t.Errorf("GetInt[int16] = %d", got)
	}
	PutInt(buf, uint32(0xCAFEBABE))
	if got := GetUint[uint32](buf); got != 0xCAFEBABE {
		t.Errorf("GetUint[uint32] = %#x", got)
	}
}

func TestFloatBitTransfer(t *testing.T) {
	buf := make([]byte, 8)

	for _, f := range []float32{0, 1.5, -3.25, float32(math.Inf(1)), math.SmallestNonzeroFloat32} {
		PutFloat32(buf, f)
		if got := GetFloat32(buf); got != f {
			t.Errorf("float32 %v round-tripped to %v", f, got)
		}
	}
	PutFloat32(buf, 1.0)
	if !bytes.Equal(buf[:4], []byte{0x3F, 0x80, 0x00, 0x00}) {
		t.Errorf("PutFloat32(1.0) = % x", buf[:4])
	}

	for _, f := range []float64{0, 1e300, -2.5, math.Inf(-1)} {
		PutFloat64(buf, f)
		if got := GetFloat64(buf); got != f {
			t.Errorf("float64 %v round-tripped to %v", f, got)
		}
	}
	PutFloat64(buf, math.NaN())
	if got := GetFloat64(buf); !math.IsNaN(got) {
		t.Errorf("NaN round-tripped to %v", got)
	}
}
