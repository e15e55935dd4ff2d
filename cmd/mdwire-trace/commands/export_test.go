package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

func TestExportJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestTraceFile(t, []trace.Event{
		{Timestamp: ts, StreamID: encodeStream, Category: trace.CategoryContainer, Container: &trace.ContainerEvent{Count: 1}},
		{Timestamp: ts, StreamID: encodeStream, Category: trace.CategoryEntry, Entry: &trace.EntryEvent{Action: "ADD", LoadType: wire.TypeUInt8, Size: 3}},
	})

	var buf bytes.Buffer
	require.NoError(t, export(path, "jsonl", &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		assert.Equal(t, encodeStream, m["StreamID"])
	}
}

func TestExportCSV(t *testing.T) {
	path := createCodecTraceFile(t)

	var buf bytes.Buffer
	require.NoError(t, export(path, "csv", &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "timestamp", records[0][0])
	assert.Equal(t, "error", records[0][len(records[0])-1])

	var entries, errs int
	for _, r := range records[1:] {
		if r[4] == "ENTRY" {
			entries++
			assert.NotEmpty(t, r[8], "load_type")
		}
		if r[4] == "ERROR" {
			errs++
			assert.NotEmpty(t, r[10])
		}
	}
	// Two encoded entries and one decoded before the truncation.
	assert.Equal(t, 3, entries)
	assert.Equal(t, 1, errs)
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestTraceFile(t, nil)
	assert.Error(t, export(path, "xml", &bytes.Buffer{}))
}

func TestRunExportToFile(t *testing.T) {
	path := createCodecTraceFile(t)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	require.NoError(t, RunExport(path, "jsonl", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
