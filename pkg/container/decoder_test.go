package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdwire/mdwire-go/pkg/container"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

func TestDecodeSequence(t *testing.T) {
	dec, err := container.NewDecoder(unhex(t, sequenceWire))
	require.NoError(t, err)
	assert.Equal(t, wire.TypeUInt16OB, dec.KeyType())
	assert.Equal(t, 3, dec.Count())
	assert.False(t, dec.HasSummary())

	want := []struct {
		action container.Action
		key    uint64
	}{
		{container.ActionAdd, 1},
		{container.ActionUpdate, 2},
		{container.ActionDelete, 3},
	}
	for i, w := range want {
		assert.Equal(t, 3-i, dec.Remaining())
		ent, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, w.action, ent.Action)
		assert.Equal(t, wire.UInt(w.key), ent.Key)
		assert.Equal(t, i, ent.Index())
	}

	_, err = dec.Next()
	assert.ErrorIs(t, err, container.ErrEndOfContainer)
	assert.NotErrorIs(t, err, wire.ErrBufferUnderrun)
	_, err = dec.Next()
	assert.ErrorIs(t, err, container.ErrEndOfContainer)
	assert.Equal(t, len(unhex(t, sequenceWire)), dec.Offset())
	assert.Equal(t, 0, dec.Remaining())
}

func TestDecodeRemainingStopsAtZero(t *testing.T) {
	dec, err := container.NewDecoder(unhex(t, "00 00 00 01 01 41 01 05"))
	require.NoError(t, err)
	assert.Equal(t, 1, dec.Remaining())

	_, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, dec.Remaining())

	for range 3 {
		_, err = dec.Next()
		require.ErrorIs(t, err, container.ErrEndOfContainer)
		assert.Equal(t, 0, dec.Remaining())
	}
}

func TestDecodeLoads(t *testing.T) {
	dec, err := container.NewDecoder(unhex(t, sequenceWire))
	require.NoError(t, err)

	ent, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, wire.TypeUInt8, ent.Type)
	u, err := ent.UInt()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), u)
	assert.Equal(t, []byte{0x01, 0x0a}, ent.Raw())
	_, err = ent.Int()
	assert.ErrorIs(t, err, wire.ErrTypeMismatch)
	_, err = ent.Container()
	assert.ErrorIs(t, err, wire.ErrTypeMismatch)

	ent, err = dec.Next()
	require.NoError(t, err)
	s, err := ent.ASCII()
	require.NoError(t, err)
	assert.Equal(t, "ab", s)
	v, err := ent.Load()
	require.NoError(t, err)
	assert.Equal(t, wire.ASCII("ab"), v)
	_, err = ent.Buffer()
	assert.ErrorIs(t, err, wire.ErrTypeMismatch)

	ent, err = dec.Next()
	require.NoError(t, err)
	assert.False(t, ent.HasLoad())
	v, err = ent.Load()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDecodeNested(t *testing.T) {
	data := unhex(t, "00 00 00 01 01 80 00 00 00 08 00 00 00 01 01 41 01 05")
	dec, err := container.NewDecoder(data)
	require.NoError(t, err)

	ent, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, wire.TypeContainer, ent.Type)
	assert.Len(t, ent.Raw(), 8)
	_, err = ent.Load()
	assert.ErrorIs(t, err, wire.ErrTypeMismatch)

	inner, err := ent.Container()
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Depth())
	ient, err := inner.Next()
	require.NoError(t, err)
	u, err := ient.UInt()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), u)
	_, err = inner.Next()
	assert.ErrorIs(t, err, container.ErrEndOfContainer)

	_, err = dec.Next()
	assert.ErrorIs(t, err, container.ErrEndOfContainer)
}

func TestDecodeSummaryAndPermission(t *testing.T) {
	dec, err := container.NewDecoder(unhex(t, "01 00 40 01 05 00 01 11 02 aa bb 00"))
	require.NoError(t, err)
	assert.True(t, dec.HasSummary())
	assert.Equal(t, wire.TypeInt8, dec.SummaryType())
	assert.Equal(t, wire.Int(5), dec.Summary())
	assert.Equal(t, wire.TypeNoData, dec.KeyType())

	ent, err := dec.Next()
	require.NoError(t, err)
	assert.Nil(t, ent.Key)
	assert.Equal(t, []byte{0xaa, 0xbb}, ent.Permission)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		wire   string
		want   error
		op     string
		index  int
		offset int
	}{
		{"truncated entry key", "00 52 00 01 01 fe 00", wire.ErrBufferUnderrun, "key", 0, 5},
		{"missing entry", "00 00 00 02 01 00", wire.ErrBufferUnderrun, "action", 1, 6},
		{"undefined action", "00 00 00 01 04 00", container.ErrInvalidAction, "action", 0, 4},
		{"stray action bits", "00 00 00 01 21 00", container.ErrInvalidAction, "action", 0, 4},
		{"delete with load", "00 00 00 01 03 41 01 05", container.ErrInvalidAction, "load type", 0, 5},
		{"unknown load type", "00 00 00 01 01 c8", wire.ErrUnknownType, "load type", 0, 5},
		{"malformed load", "00 00 00 01 01 41 05 00 00 00 00 00", wire.ErrMalformedLength, "load", 0, 6},
		{"truncated nested", "00 00 00 01 01 80 00 00 00 08 00 00", wire.ErrBufferUnderrun, "load", 0, 6},
		{"truncated permission", "00 00 00 01 11 03 aa", wire.ErrBufferUnderrun, "permission", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := container.NewDecoder(unhex(t, tt.wire))
			require.NoError(t, err)

			var got error
			for got == nil {
				_, got = dec.Next()
			}
			require.ErrorIs(t, got, tt.want)

			var de *container.DecodeError
			require.True(t, errors.As(got, &de))
			assert.Equal(t, tt.op, de.Op)
			assert.Equal(t, tt.index, de.Index)
			assert.Equal(t, tt.offset, de.Offset)

			_, again := dec.Next()
			assert.Same(t, de, again.(*container.DecodeError))
		})
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want error
		op   string
	}{
		{"empty", "", wire.ErrBufferUnderrun, "flags"},
		{"undefined flags", "02 00 00 00", container.ErrInvalidHeader, "flags"},
		{"missing key type", "00", wire.ErrBufferUnderrun, "key type"},
		{"container key type", "00 80 00 00", container.ErrInvalidHeader, "key type"},
		{"unknown key type", "00 63 00 00", wire.ErrUnknownType, "key type"},
		{"container summary", "01 00 80 00 00", container.ErrInvalidHeader, "summary type"},
		{"truncated summary", "01 00 40 01", wire.ErrBufferUnderrun, "summary"},
		{"truncated count", "00 00 00", wire.ErrBufferUnderrun, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := container.NewDecoder(unhex(t, tt.wire))
			require.ErrorIs(t, err, tt.want)
			var de *container.DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, -1, de.Index)
			assert.Equal(t, tt.op, de.Op)
		})
	}
}

func TestDecodeNestedErrorOffset(t *testing.T) {
	// Inner entry at absolute offset 14 has an undefined action.
	data := unhex(t, "00 00 00 01 01 80 00 00 00 06 00 00 00 01 07 00")
	dec, err := container.NewDecoder(data)
	require.NoError(t, err)
	ent, err := dec.Next()
	require.NoError(t, err)
	inner, err := ent.Container()
	require.NoError(t, err)

	_, err = inner.Next()
	var de *container.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 14, de.Offset)
	assert.ErrorIs(t, err, container.ErrInvalidAction)
}

func TestDecodeDepthLimit(t *testing.T) {
	cfg := container.DefaultConfig()
	cfg.MaxDepth = 3
	buf := make([]byte, 256)

	enc, err := container.NewEncoderWithConfig(buf, container.Config{MaxDepth: 8})
	require.NoError(t, err)
	require.NoError(t, enc.Begin(container.Header{}))
	for i := 0; i < 4; i++ {
		require.NoError(t, enc.PutContainer(container.Field{Action: container.ActionAdd}, container.Header{}))
	}
	for enc.Depth() > 0 {
		require.NoError(t, enc.End())
	}
	data, err := enc.Bytes()
	require.NoError(t, err)

	dec, err := container.NewDecoderWithConfig(data, cfg)
	require.NoError(t, err)
	for depth := 1; ; depth++ {
		ent, err := dec.Next()
		require.NoError(t, err)
		next, err := ent.Container()
		if depth < cfg.MaxDepth {
			require.NoError(t, err)
			dec = next
			continue
		}
		assert.ErrorIs(t, err, container.ErrDepthExceeded)
		break
	}
}

func TestDecodeFormatVersion(t *testing.T) {
	data := unhex(t, "00 00 00 01 01 4d 01")
	cfg := container.DefaultConfig()
	cfg.FormatVersion = "1.0"

	dec, err := container.NewDecoderWithConfig(data, cfg)
	require.NoError(t, err)
	_, err = dec.Next()
	assert.ErrorIs(t, err, wire.ErrUnknownType)

	dec, err = container.NewDecoder(data)
	require.NoError(t, err)
	ent, err := dec.Next()
	require.NoError(t, err)
	u, err := ent.UInt()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u)
}

func TestSkip(t *testing.T) {
	data := append(unhex(t, sequenceWire), 0xde, 0xad)
	n, err := container.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data)-2, n)

	_, err = container.Skip(unhex(t, "00 00 00 01 04 00"))
	assert.ErrorIs(t, err, container.ErrInvalidAction)
}
