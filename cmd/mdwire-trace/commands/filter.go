// Package commands implements the mdwire-trace CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

// FilterOptions holds filter flags as given on the command line.
type FilterOptions struct {
	Output    string
	StreamID  string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
	Format    string
	MaxDepth  string
	LoadType  string
	Errors    bool
}

// Build parses the options into a trace.Filter.
func (o FilterOptions) Build() (trace.Filter, error) {
	filter := trace.Filter{StreamID: o.StreamID, FormatVersion: o.Format, ErrorsOnly: o.Errors}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := parseLayer(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := parseDirection(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := parseCategory(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if o.MaxDepth != "" {
		n, err := strconv.Atoi(o.MaxDepth)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid max-depth: %s", o.MaxDepth)
		}
		filter.MaxDepth = &n
	}
	if o.LoadType != "" {
		dt, err := wire.ParseDataType(strings.ToUpper(o.LoadType))
		if err != nil {
			return filter, fmt.Errorf("invalid load-type: %w", err)
		}
		filter.LoadType = &dt
	}
	return filter, nil
}

func parseLayer(s string) (trace.Layer, error) {
	switch strings.ToLower(s) {
	case "scalar":
		return trace.LayerScalar, nil
	case "container":
		return trace.LayerContainer, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be scalar or container)", s)
	}
}

func parseDirection(s string) (trace.Direction, error) {
	switch strings.ToLower(s) {
	case "decode":
		return trace.DirectionDecode, nil
	case "encode":
		return trace.DirectionEncode, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be encode or decode)", s)
	}
}

func parseCategory(s string) (trace.Category, error) {
	switch strings.ToLower(s) {
	case "container":
		return trace.CategoryContainer, nil
	case "entry":
		return trace.CategoryEntry, nil
	case "error":
		return trace.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be container, entry, or error)", s)
	}
}

// forEach calls fn for every event in path matching filter.
func forEach(path string, filter trace.Filter, fn func(trace.Event) error) error {
	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// RunFilter copies the events of path matching opts to opts.Output and
// returns how many were copied.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	logger, err := trace.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer logger.Close()

	count := 0
	err = forEach(path, filter, func(e trace.Event) error {
		logger.Log(e)
		count++
		return nil
	})
	return count, err
}
