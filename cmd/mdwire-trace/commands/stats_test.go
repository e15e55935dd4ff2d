package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

func TestCollectStats(t *testing.T) {
	path := createCodecTraceFile(t)

	stats, err := collectStats(path)
	require.NoError(t, err)

	assert.Len(t, stats.Streams, 2)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 3, stats.EventsByCategory[trace.CategoryEntry])
	assert.Equal(t, 4, stats.EventsByDirection[trace.DirectionEncode])
	assert.Equal(t, 2, stats.LoadTypes[wire.TypeUInt8])
	assert.Equal(t, 1, stats.LoadTypes[wire.TypeASCII])
	assert.Equal(t, 2, stats.Streams[encodeStream].Entries)
	assert.Equal(t, "1.1", stats.Streams[encodeStream].FormatVersion)
	assert.Equal(t, "1.1", stats.Streams[decodeStream].FormatVersion)
}

func TestStatsOutput(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestTraceFile(t, []trace.Event{
		{Timestamp: ts, StreamID: encodeStream, Category: trace.CategoryContainer, Container: &trace.ContainerEvent{}},
		{Timestamp: ts.Add(time.Second), StreamID: encodeStream, Depth: 2, Category: trace.CategoryEntry,
			Entry: &trace.EntryEvent{Action: "ADD", LoadType: wire.TypeReal, Size: 6}},
		{Timestamp: ts.Add(2 * time.Second), StreamID: decodeStream, Category: trace.CategoryError,
			Error: &trace.ErrorEventData{Message: "buffer underrun"}},
	})

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	output := buf.String()

	assert.Contains(t, output, "Total Events: 3")
	assert.Contains(t, output, "Max Depth:    2")
	assert.Contains(t, output, "ENTRY:")
	assert.Contains(t, output, "ERROR:")
	assert.Contains(t, output, "Entry Loads (6 bytes):")
	assert.Contains(t, output, "REAL:")
	assert.Contains(t, output, "Streams: 2")
	assert.Contains(t, output, "[6ba7b810] 2 events, 1 entries, duration 1s")
	assert.Contains(t, output, "Errors: 1")
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestTraceFile(t, nil)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	assert.Contains(t, buf.String(), "Total Events: 0")
	assert.NotContains(t, buf.String(), "Time Range")
}
