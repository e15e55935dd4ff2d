package version

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mdwire/mdwire-go/pkg/wire"
)

//go:embed formats/*.yaml
var formatFS embed.FS

// Manifest lists the data types a wire format version admits.
type Manifest struct {
	Version     string      `yaml:"version"`
	Description string      `yaml:"description"`
	Types       []TypeEntry `yaml:"types"`

	index map[wire.DataType]bool
}

// TypeEntry is one admitted data type with its tag.
type TypeEntry struct {
	Name string `yaml:"name"`
	Tag  uint8  `yaml:"tag"`
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Manifest)
)

// LoadManifest loads the manifest of a format version (e.g. "1.0").
// Every entry must name a known data type under its registered tag.
func LoadManifest(ver string) (*Manifest, error) {
	cacheMu.RLock()
	if m, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return m, nil
	}
	cacheMu.RUnlock()

	data, err := formatFS.ReadFile("formats/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("format version %q not found: %w", ver, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing format %q: %w", ver, err)
	}
	if err := m.build(); err != nil {
		return nil, fmt.Errorf("format %q: %w", ver, err)
	}

	cacheMu.Lock()
	cache[ver] = &m
	cacheMu.Unlock()

	return &m, nil
}

// LoadCurrentManifest loads the manifest for Current.
func LoadCurrentManifest() (*Manifest, error) {
	return LoadManifest(Current)
}

// AvailableVersions returns the versions of all embedded manifests, sorted.
func AvailableVersions() ([]string, error) {
	entries, err := formatFS.ReadDir("formats")
	if err != nil {
		return nil, fmt.Errorf("reading formats directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			versions = append(versions, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func (m *Manifest) build() error {
	m.index = make(map[wire.DataType]bool, len(m.Types))
	for _, e := range m.Types {
		t, err := wire.ParseDataType(e.Name)
		if err != nil {
			return err
		}
		if uint8(t) != e.Tag {
			return fmt.Errorf("type %s: tag %d, registered as %d", e.Name, e.Tag, uint8(t))
		}
		m.index[t] = true
	}
	return nil
}

// Supports reports whether t may appear on the wire in this version.
func (m *Manifest) Supports(t wire.DataType) bool {
	return m.index[t]
}

// Missing returns the names of registered data types the manifest omits, sorted.
func (m *Manifest) Missing(all []wire.DataType) []string {
	var out []string
	for _, t := range all {
		if !m.index[t] {
			out = append(out, t.String())
		}
	}
	sort.Strings(out)
	return out
}
