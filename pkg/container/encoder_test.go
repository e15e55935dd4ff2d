package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdwire/mdwire-go/pkg/container"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

const sequenceWire = "00 52 00 03" +
	" 01 01 41 01 0a" +
	" 02 02 11 02 61 62" +
	" 03 03 00"

func encodeSequence(t testing.TB, buf []byte) []byte {
	t.Helper()
	enc := container.NewEncoder(buf)
	require.NoError(t, enc.Begin(container.Header{KeyType: wire.TypeUInt16OB}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd, Key: wire.UInt(1), Type: wire.TypeUInt8, Value: wire.UInt(10)}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionUpdate, Key: wire.UInt(2), Type: wire.TypeASCII, Value: wire.ASCII("ab")}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionDelete, Key: wire.UInt(3)}))
	require.NoError(t, enc.End())
	out, err := enc.Bytes()
	require.NoError(t, err)
	return out
}

func TestEncodeSequence(t *testing.T) {
	out := encodeSequence(t, make([]byte, 64))
	assert.Equal(t, unhex(t, sequenceWire), out)
}

func TestEncodeNested(t *testing.T) {
	enc := container.NewEncoder(make([]byte, 64))
	require.NoError(t, enc.Begin(container.Header{}))
	require.NoError(t, enc.PutContainer(container.Field{Action: container.ActionAdd}, container.Header{}))
	assert.Equal(t, 2, enc.Depth())
	require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd, Type: wire.TypeUInt8, Value: wire.UInt(5)}))
	require.NoError(t, enc.End())
	require.NoError(t, enc.End())

	out, err := enc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, unhex(t, "00 00 00 01 01 80 00 00 00 08 00 00 00 01 01 41 01 05"), out)
}

func TestEncodeSummaryAndPermission(t *testing.T) {
	enc := container.NewEncoder(make([]byte, 32))
	require.NoError(t, enc.Begin(container.Header{SummaryType: wire.TypeInt8, Summary: wire.Int(5)}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd, Permission: []byte{0xaa, 0xbb}}))
	require.NoError(t, enc.End())

	out, err := enc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, unhex(t, "01 00 40 01 05 00 01 11 02 aa bb 00"), out)
}

func TestEncodeEmptyPermission(t *testing.T) {
	enc := container.NewEncoder(make([]byte, 16))
	require.NoError(t, enc.Begin(container.Header{}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionUpdate, Permission: []byte{}}))
	require.NoError(t, enc.End())

	out, err := enc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, unhex(t, "00 00 00 01 12 00 00"), out)
}

func TestEncodeOverrunLeavesBufferUntouched(t *testing.T) {
	full := unhex(t, sequenceWire)

	// Room for the header and the first two entries only.
	buf := make([]byte, len(full)-1)
	for i := range buf {
		buf[i] = 0xee
	}
	enc := container.NewEncoder(buf)
	require.NoError(t, enc.Begin(container.Header{KeyType: wire.TypeUInt16OB}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd, Key: wire.UInt(1), Type: wire.TypeUInt8, Value: wire.UInt(10)}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionUpdate, Key: wire.UInt(2), Type: wire.TypeASCII, Value: wire.ASCII("ab")}))
	before := enc.Len()

	err := enc.Put(container.Field{Action: container.ActionDelete, Key: wire.UInt(3)})
	require.ErrorIs(t, err, wire.ErrBufferOverrun)
	assert.Equal(t, before, enc.Len())
	assert.Equal(t, []byte{0xee, 0xee}, buf[before:])

	// The container can still be closed with the entries that fit.
	require.NoError(t, enc.End())
	out, err := enc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x02}, out[2:4])
}

func TestEncodeFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		header container.Header
		field  container.Field
		want   error
	}{
		{"invalid action", container.Header{}, container.Field{Action: 0}, container.ErrInvalidAction},
		{"action out of range", container.Header{}, container.Field{Action: 4}, container.ErrInvalidAction},
		{"missing key", container.Header{KeyType: wire.TypeUInt16OB}, container.Field{Action: container.ActionAdd}, container.ErrKeyRequired},
		{"unexpected key", container.Header{}, container.Field{Action: container.ActionAdd, Key: wire.UInt(1)}, container.ErrUnexpectedKey},
		{"key type mismatch", container.Header{KeyType: wire.TypeUInt16OB}, container.Field{Action: container.ActionAdd, Key: wire.ASCII("x")}, wire.ErrTypeMismatch},
		{"key out of range", container.Header{KeyType: wire.TypeUInt16OB}, container.Field{Action: container.ActionAdd, Key: wire.UInt(70000)}, wire.ErrValueRange},
		{"delete with load", container.Header{}, container.Field{Action: container.ActionDelete, Type: wire.TypeUInt8, Value: wire.UInt(1)}, container.ErrInvalidAction},
		{"load type mismatch", container.Header{}, container.Field{Action: container.ActionAdd, Type: wire.TypeUInt8, Value: wire.Int(1)}, wire.ErrTypeMismatch},
		{"load out of range", container.Header{}, container.Field{Action: container.ActionAdd, Type: wire.TypeUInt8, Value: wire.UInt(256)}, wire.ErrValueRange},
		{"unknown load type", container.Header{}, container.Field{Action: container.ActionAdd, Type: 200, Value: wire.UInt(1)}, wire.ErrUnknownType},
		{"container through put", container.Header{}, container.Field{Action: container.ActionAdd, Type: wire.TypeContainer}, wire.ErrTypeMismatch},
		{"no data with value", container.Header{}, container.Field{Action: container.ActionAdd, Value: wire.UInt(1)}, wire.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := container.NewEncoder(make([]byte, 64))
			require.NoError(t, enc.Begin(tt.header))
			before := enc.Len()
			err := enc.Put(tt.field)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, enc.Len())
		})
	}
}

func TestEncodeHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		header container.Header
		want   error
	}{
		{"container key", container.Header{KeyType: wire.TypeContainer}, container.ErrInvalidHeader},
		{"unknown key", container.Header{KeyType: 99}, wire.ErrUnknownType},
		{"no data summary", container.Header{Summary: wire.UInt(1)}, container.ErrInvalidHeader},
		{"summary mismatch", container.Header{SummaryType: wire.TypeDouble, Summary: wire.UInt(1)}, wire.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := container.NewEncoder(make([]byte, 64))
			assert.ErrorIs(t, enc.Begin(tt.header), tt.want)
			assert.Equal(t, 0, enc.Len())
		})
	}
}

func TestEncoderSequencing(t *testing.T) {
	enc := container.NewEncoder(make([]byte, 32))

	assert.ErrorIs(t, enc.Put(container.Field{Action: container.ActionAdd}), container.ErrEncoderState)
	assert.ErrorIs(t, enc.End(), container.ErrEncoderState)
	_, err := enc.Bytes()
	assert.ErrorIs(t, err, container.ErrEncoderState)

	require.NoError(t, enc.Begin(container.Header{}))
	assert.ErrorIs(t, enc.Begin(container.Header{}), container.ErrEncoderState)
	_, err = enc.Bytes()
	assert.ErrorIs(t, err, container.ErrEncoderState)

	require.NoError(t, enc.End())
	assert.ErrorIs(t, enc.Put(container.Field{Action: container.ActionAdd}), container.ErrEncoderState)

	enc.Reset(make([]byte, 8))
	require.NoError(t, enc.Begin(container.Header{}))
	require.NoError(t, enc.End())
	out, err := enc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, out)
}

func TestEncodeDepthLimit(t *testing.T) {
	cfg := container.DefaultConfig()
	cfg.MaxDepth = 2
	enc, err := container.NewEncoderWithConfig(make([]byte, 128), cfg)
	require.NoError(t, err)

	require.NoError(t, enc.Begin(container.Header{}))
	require.NoError(t, enc.PutContainer(container.Field{Action: container.ActionAdd}, container.Header{}))
	err = enc.PutContainer(container.Field{Action: container.ActionAdd}, container.Header{})
	assert.ErrorIs(t, err, container.ErrDepthExceeded)
	assert.Equal(t, 2, enc.Depth())
}

func TestEncodeFormatVersionFiltersTypes(t *testing.T) {
	cfg := container.DefaultConfig()
	cfg.FormatVersion = "1.0"
	enc, err := container.NewEncoderWithConfig(make([]byte, 32), cfg)
	require.NoError(t, err)
	require.NoError(t, enc.Begin(container.Header{}))

	err = enc.Put(container.Field{Action: container.ActionAdd, Type: wire.TypeUInt15RB, Value: wire.UInt(1)})
	assert.ErrorIs(t, err, wire.ErrUnknownType)
	require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd, Type: wire.TypeUInt14RB, Value: wire.UInt(1)}))
}

func TestEncodeEntryCountLimit(t *testing.T) {
	enc := container.NewEncoder(make([]byte, 4+2*(container.MaxEntries+1)))
	require.NoError(t, enc.Begin(container.Header{}))
	for i := 0; i < container.MaxEntries; i++ {
		require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd}))
	}
	assert.ErrorIs(t, enc.Put(container.Field{Action: container.ActionAdd}), wire.ErrValueRange)
	require.NoError(t, enc.End())

	out, err := enc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff}, out[2:4])
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*container.Config)
		wantErr bool
	}{
		{"default", func(*container.Config) {}, false},
		{"zero depth", func(c *container.Config) { c.MaxDepth = 0 }, true},
		{"depth too large", func(c *container.Config) { c.MaxDepth = 256 }, true},
		{"any format", func(c *container.Config) { c.FormatVersion = "" }, false},
		{"unknown format", func(c *container.Config) { c.FormatVersion = "7.0" }, true},
		{"uuid stream", func(c *container.Config) { c.StreamID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8" }, false},
		{"bad stream", func(c *container.Config) { c.StreamID = "feed-1" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := container.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "ADD", container.ActionAdd.String())
	assert.Equal(t, "UPDATE", container.ActionUpdate.String())
	assert.Equal(t, "DELETE", container.ActionDelete.String())
	assert.Equal(t, "UNKNOWN", container.Action(0).String())
	assert.False(t, container.Action(4).IsValid())
}
