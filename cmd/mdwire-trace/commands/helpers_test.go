package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdwire/mdwire-go/pkg/container"
	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

const (
	encodeStream = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	decodeStream = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
)

func createTestTraceFile(t *testing.T, events []trace.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mtrace")

	logger, err := trace.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())
	return path
}

// createCodecTraceFile encodes a two-entry quote container and decodes it
// back, tracing both sides to one file.
func createCodecTraceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codec.mtrace")

	logger, err := trace.NewFileLogger(path)
	require.NoError(t, err)

	cfg := container.DefaultConfig()
	cfg.Tracer = logger
	cfg.StreamID = encodeStream
	enc, err := container.NewEncoderWithConfig(make([]byte, 64), cfg)
	require.NoError(t, err)
	require.NoError(t, enc.Begin(container.Header{KeyType: wire.TypeUInt16OB}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionAdd, Key: wire.UInt(22), Type: wire.TypeUInt8, Value: wire.UInt(10)}))
	require.NoError(t, enc.Put(container.Field{Action: container.ActionUpdate, Key: wire.UInt(25), Type: wire.TypeASCII, Value: wire.ASCII("AB")}))
	require.NoError(t, enc.End())
	data, err := enc.Bytes()
	require.NoError(t, err)

	// Truncate the last byte so the decode side records an error.
	cfg.StreamID = decodeStream
	dec, err := container.NewDecoderWithConfig(data[:len(data)-1], cfg)
	require.NoError(t, err)
	_, err = dec.Next()
	require.NoError(t, err)
	_, err = dec.Next()
	require.Error(t, err)

	require.NoError(t, logger.Close())
	return path
}
