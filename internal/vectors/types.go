package vectors

import "fmt"

// File is one YAML document of golden wire vectors.
type File struct {
	// Name describes the group of vectors.
	Name string `yaml:"name"`

	// Vectors are the cases in file order.
	Vectors []Vector `yaml:"vectors"`
}

// Vector pairs a typed value with its exact wire bytes. Exactly one value
// field is set, matching the kind of Type. When Error is set Wire must fail
// to decode with that error class and no value is given.
type Vector struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`

	Int   *int64    `yaml:"int,omitempty"`
	Uint  *uint64   `yaml:"uint,omitempty"`
	Float *float64  `yaml:"float,omitempty"`
	Real  *RealSpec `yaml:"real,omitempty"`
	Date  string    `yaml:"date,omitempty"`
	Time  []uint16  `yaml:"time,omitempty"`
	Bytes *string   `yaml:"bytes,omitempty"`
	Text  *string   `yaml:"text,omitempty"`
	Blank bool      `yaml:"blank,omitempty"`
	Wire  string    `yaml:"wire"`
	Error string    `yaml:"error,omitempty"`

	// DecodeOnly marks non-canonical wire forms that decode but are never produced.
	DecodeOnly bool `yaml:"decode_only,omitempty"`

	Comments string `yaml:"comment,omitempty"`
}

// RealSpec is a YAML real.
type RealSpec struct {
	Mantissa int64 `yaml:"mantissa"`
	Exponent uint8 `yaml:"exponent"`
	Blank    bool  `yaml:"blank"`
}

// LoadError provides details about a vector file that failed to load.
type LoadError struct {
	// File is the path that failed to load.
	File string

	// Vector is the ID of the offending vector, if any.
	Vector string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	prefix := e.File
	if e.Vector != "" {
		prefix += "#" + e.Vector
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return prefix + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
