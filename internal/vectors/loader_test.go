package vectors_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdwire/mdwire-go/internal/vectors"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

func TestParseBasic(t *testing.T) {
	f, err := vectors.Parse([]byte(`
name: basics
vectors:
  - {id: u8, type: UINT_1, uint: 10, wire: "01 0a"}
  - {id: text, type: ASCII_STRING, text: "ab", wire: "02 61 62"}
  - {id: short, type: UINT_1, wire: "02 00", error: buffer_underrun}
`))
	require.NoError(t, err)
	assert.Equal(t, "basics", f.Name)
	require.Len(t, f.Vectors, 3)

	v, err := f.Vectors[0].Value()
	require.NoError(t, err)
	assert.Equal(t, wire.UInt(10), v)

	b, err := f.Vectors[1].WireBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x61, 0x62}, b)

	want, err := f.Vectors[2].ExpectedError()
	require.NoError(t, err)
	assert.ErrorIs(t, want, wire.ErrBufferUnderrun)
}

func TestParseTemporal(t *testing.T) {
	f, err := vectors.Parse([]byte(`
vectors:
  - {id: dt, type: DATETIME, date: "2024-03-15", time: [9, 30], wire: "04 0f 03 07 e8 02 09 1e"}
  - {id: blank, type: TIME, blank: true, wire: "00"}
`))
	require.NoError(t, err)

	v, err := f.Vectors[0].Value()
	require.NoError(t, err)
	dt, ok := v.(wire.DateTime)
	require.True(t, ok)
	assert.Equal(t, uint8(9), dt.Time.Hour)
	assert.Equal(t, uint8(30), dt.Time.Minute)

	v, err = f.Vectors[1].Value()
	require.NoError(t, err)
	assert.Equal(t, wire.BlankTime, v)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "vectors: [unclosed"},
		{"no vectors", "name: empty"},
		{"missing id", `vectors: [{type: INT, int: 1, wire: "01 01"}]`},
		{"duplicate id", `vectors: [{id: a, type: INT, wire: "00"}, {id: a, type: INT, wire: "00"}]`},
		{"bad type", `vectors: [{id: a, type: QUATERNION, wire: "00"}]`},
		{"bad hex", `vectors: [{id: a, type: INT, wire: "0g"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vectors.Parse([]byte(tt.yaml))
			var le *vectors.LoadError
			assert.True(t, errors.As(err, &le), "want *LoadError, got %v", err)
		})
	}
}

func TestValueMissingField(t *testing.T) {
	f, err := vectors.Parse([]byte(`vectors: [{id: a, type: INT, wire: "00"}]`))
	require.NoError(t, err)
	_, err = f.Vectors[0].Value()
	assert.Error(t, err)
}

func TestUnknownErrorClass(t *testing.T) {
	v := vectors.Vector{ID: "a", Error: "explosion"}
	_, err := v.ExpectedError()
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(`vectors: [{id: b, type: INT, int: 1, wire: "01 01"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(`vectors: [{id: a, type: INT, int: 2, wire: "01 02"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := vectors.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].Vectors[0].ID)
	assert.Equal(t, "b", files[1].Vectors[0].ID)
}

func TestLoadFileErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: empty"), 0o644))

	_, err := vectors.LoadFile(path)
	var le *vectors.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.File)
	assert.Contains(t, err.Error(), path)
}

func TestLoadPackVectors(t *testing.T) {
	files, err := vectors.LoadDirectory(filepath.Join("..", "..", "pkg", "wire", "testdata"))
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}
