// Package inspect renders decoded containers for people and tools.
//
// It offers:
//   - Entry paths (e.g. "2/0/5") addressing entries in nested containers
//   - Tree building and CBOR rendering of a whole container
//   - Indented text dumps for debugging
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mdwire/mdwire-go/pkg/container"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid numeric value in path")
	ErrNotFound      = errors.New("path not found")
)

// Path addresses an entry by its index in each container along the way.
// "2/0" is entry 0 of the container loaded by entry 2 of the outermost
// container.
type Path struct {
	Indexes []int

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a slash-separated list of entry indexes. Indexes may be
// decimal or hex (0x prefix).
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}
	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	p := &Path{Raw: input, Indexes: make([]int, 0, len(parts))}
	for i, part := range parts {
		n, err := parseIndex(part)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		p.Indexes = append(p.Indexes, n)
	}
	return p, nil
}

func parseIndex(s string) (int, error) {
	var (
		v   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		v, err = strconv.ParseUint(s, 10, 16)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return int(v), nil
}

// String returns the path as decimal indexes.
func (p *Path) String() string {
	parts := make([]string, len(p.Indexes))
	for i, n := range p.Indexes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}

// Find walks d forward to the entry p addresses. Entries before the target in
// each container are decoded and discarded.
func Find(d *container.Decoder, p *Path) (container.Entry, error) {
	for level, idx := range p.Indexes {
		if idx >= d.Count() {
			return container.Entry{}, fmt.Errorf("%w: %s: container at level %d holds %d entries", ErrNotFound, p, level, d.Count())
		}
		var ent container.Entry
		for {
			var err error
			ent, err = d.Next()
			if err != nil {
				return container.Entry{}, err
			}
			if ent.Index() == idx {
				break
			}
		}
		if level == len(p.Indexes)-1 {
			return ent, nil
		}
		next, err := ent.Container()
		if err != nil {
			return container.Entry{}, fmt.Errorf("%w: %s: entry at level %d: %w", ErrNotFound, p, level, err)
		}
		d = next
	}
	return container.Entry{}, ErrEmptyPath
}
