// Package vectors loads golden wire vectors from YAML files.
package vectors

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Parse parses a vector file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if len(f.Vectors) == 0 {
		return nil, &LoadError{Message: "file must have at least one vector"}
	}
	seen := make(map[string]bool, len(f.Vectors))
	for _, v := range f.Vectors {
		if v.ID == "" {
			return nil, &LoadError{Message: "vector ID is required"}
		}
		if seen[v.ID] {
			return nil, &LoadError{Vector: v.ID, Message: "duplicate vector ID"}
		}
		seen[v.ID] = true
		if _, err := wire.ParseDataType(v.Type); err != nil {
			return nil, &LoadError{Vector: v.ID, Message: "bad type", Cause: err}
		}
		if _, err := v.WireBytes(); err != nil {
			return nil, &LoadError{Vector: v.ID, Message: "bad wire hex", Cause: err}
		}
	}
	return &f, nil
}

// LoadFile loads a vector file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	f, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return f, nil
}

// LoadDirectory loads every .yaml or .yml file in dir, sorted by name.
func LoadDirectory(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}
	var files []*File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		f, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// DataType resolves the declared type name.
func (v Vector) DataType() (wire.DataType, error) {
	return wire.ParseDataType(v.Type)
}

// WireBytes decodes the hex wire field. Spaces are ignored.
func (v Vector) WireBytes() ([]byte, error) {
	return hex.DecodeString(strings.ReplaceAll(v.Wire, " ", ""))
}

// ExpectedError maps the error field to a codec error.
func (v Vector) ExpectedError() (error, error) {
	switch v.Error {
	case "":
		return nil, nil
	case "malformed_length":
		return wire.ErrMalformedLength, nil
	case "buffer_underrun":
		return wire.ErrBufferUnderrun, nil
	case "value_range":
		return wire.ErrValueRange, nil
	default:
		return nil, fmt.Errorf("unknown error class %q", v.Error)
	}
}

// Value builds the typed value the vector describes.
func (v Vector) Value() (wire.Value, error) {
	t, err := v.DataType()
	if err != nil {
		return nil, err
	}
	d, err := wire.Lookup(t)
	if err != nil {
		return nil, err
	}
	switch d.Kind {
	case wire.KindInt:
		if v.Int == nil {
			return nil, fmt.Errorf("vector %s: int value required", v.ID)
		}
		return wire.Int(*v.Int), nil
	case wire.KindUInt:
		if v.Uint == nil {
			return nil, fmt.Errorf("vector %s: uint value required", v.ID)
		}
		return wire.UInt(*v.Uint), nil
	case wire.KindEnum:
		if v.Uint == nil {
			return nil, fmt.Errorf("vector %s: uint value required", v.ID)
		}
		return wire.Enum(*v.Uint), nil
	case wire.KindFloat:
		if v.Float == nil {
			return nil, fmt.Errorf("vector %s: float value required", v.ID)
		}
		return wire.Float(*v.Float), nil
	case wire.KindDouble:
		if v.Float == nil {
			return nil, fmt.Errorf("vector %s: float value required", v.ID)
		}
		return wire.Double(*v.Float), nil
	case wire.KindReal:
		if v.Real == nil {
			return nil, fmt.Errorf("vector %s: real value required", v.ID)
		}
		if v.Real.Blank {
			return wire.BlankReal, nil
		}
		return wire.NewReal(v.Real.Mantissa, v.Real.Exponent), nil
	case wire.KindDate:
		return v.date()
	case wire.KindTime:
		return v.time()
	case wire.KindDateTime:
		d, err := v.date()
		if err != nil {
			return nil, err
		}
		t, err := v.time()
		if err != nil {
			return nil, err
		}
		return wire.DateTime{Date: d, Time: t}, nil
	case wire.KindBuffer:
		if v.Bytes == nil {
			return nil, fmt.Errorf("vector %s: bytes value required", v.ID)
		}
		b, err := hex.DecodeString(strings.ReplaceAll(*v.Bytes, " ", ""))
		if err != nil {
			return nil, err
		}
		return wire.Buffer(b), nil
	case wire.KindASCII:
		if v.Text == nil {
			return nil, fmt.Errorf("vector %s: text value required", v.ID)
		}
		return wire.ASCII(*v.Text), nil
	default:
		return nil, fmt.Errorf("vector %s: no value for %s", v.ID, t)
	}
}

func (v Vector) date() (wire.Date, error) {
	if v.Date == "" {
		return wire.Date{}, nil
	}
	t, err := time.Parse(time.DateOnly, v.Date)
	if err != nil {
		return wire.Date{}, fmt.Errorf("vector %s: %w", v.ID, err)
	}
	return wire.DateOf(t), nil
}

// time reads [hour, minute, second, ms, us, ns]; missing trailing fields are zero.
func (v Vector) time() (wire.Time, error) {
	if v.Blank {
		return wire.BlankTime, nil
	}
	if len(v.Time) < 2 || len(v.Time) > 6 {
		return wire.Time{}, fmt.Errorf("vector %s: time needs 2 to 6 fields", v.ID)
	}
	f := make([]uint16, 6)
	copy(f, v.Time)
	return wire.Time{
		Hour:        uint8(f[0]),
		Minute:      uint8(f[1]),
		Second:      uint8(f[2]),
		Millisecond: f[3],
		Microsecond: f[4],
		Nanosecond:  f[5],
	}, nil
}
