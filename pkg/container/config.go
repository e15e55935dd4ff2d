package container

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/version"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Default limits.
const (
	DefaultMaxDepth = 16
	MaxDepthLimit   = 255

	// MaxEntries is the most entries one container can declare.
	MaxEntries = 1<<16 - 1
)

// Config holds encoder and decoder configuration.
type Config struct {
	// MaxDepth bounds container nesting. The outermost container is depth 0,
	// so MaxDepth 1 forbids nested containers.
	MaxDepth int

	// FormatVersion restricts the data types accepted on the wire to those
	// of the named version. Empty accepts every registered type.
	FormatVersion string

	// Tracer receives codec events. Nil disables tracing.
	Tracer trace.Logger

	// StreamID tags trace events. Empty generates a random UUID per
	// Encoder or outermost Decoder.
	StreamID string
}

// DefaultConfig returns the default codec configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		FormatVersion: version.Current,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > MaxDepthLimit {
		return fmt.Errorf("max depth %d out of range [1, %d]", c.MaxDepth, MaxDepthLimit)
	}
	if c.FormatVersion != "" {
		if _, err := version.LoadManifest(c.FormatVersion); err != nil {
			return err
		}
	}
	if c.StreamID != "" {
		if _, err := uuid.Parse(c.StreamID); err != nil {
			return fmt.Errorf("stream id: %w", err)
		}
	}
	return nil
}

// typeFilter admits the data types of one format version.
type typeFilter struct {
	manifest *version.Manifest
}

func newTypeFilter(c Config) (typeFilter, error) {
	if c.FormatVersion == "" {
		return typeFilter{}, nil
	}
	m, err := version.LoadManifest(c.FormatVersion)
	if err != nil {
		return typeFilter{}, err
	}
	return typeFilter{manifest: m}, nil
}

func (f typeFilter) check(t wire.DataType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %d", wire.ErrUnknownType, uint8(t))
	}
	if f.manifest != nil && !f.manifest.Supports(t) {
		return fmt.Errorf("%w: %s not in format %s", wire.ErrUnknownType, t, f.manifest.Version)
	}
	return nil
}

// checkKeyType accepts NO_DATA or any primitive type.
func (f typeFilter) checkKeyType(t wire.DataType) error {
	if err := f.check(t); err != nil {
		return err
	}
	if t != wire.TypeNoData && !t.IsPrimitive() {
		return fmt.Errorf("%w: key type %s", ErrInvalidHeader, t)
	}
	return nil
}

// checkSummaryType accepts primitive types only.
func (f typeFilter) checkSummaryType(t wire.DataType) error {
	if err := f.check(t); err != nil {
		return err
	}
	if !t.IsPrimitive() {
		return fmt.Errorf("%w: summary type %s", ErrInvalidHeader, t)
	}
	return nil
}
