// Package catalog loads the spool-type reference table. Entries are keyed by
// a stable string so reordering the file never changes what a stored key
// means.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/spool-tracker/internal/models"
)

//go:embed spool_types.yaml
var builtin []byte

type document struct {
	Version string             `yaml:"version"`
	Default string             `yaml:"default"`
	Types   []models.SpoolType `yaml:"types"`
}

// Catalog is an immutable, versioned set of spool types.
type Catalog struct {
	version    string
	defaultKey string
	byKey      map[string]models.SpoolType
	ordered    []models.SpoolType
}

// Builtin returns the catalog compiled into the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtin)
}

// Load reads a catalog file, falling back to the builtin one for an empty path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spool types %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode spool types: %w", err)
	}
	if len(doc.Types) == 0 {
		return nil, fmt.Errorf("spool type catalog %q is empty", doc.Version)
	}

	c := &Catalog{
		version:    doc.Version,
		defaultKey: doc.Default,
		byKey:      make(map[string]models.SpoolType, len(doc.Types)),
	}
	for _, t := range doc.Types {
		if t.Key == "" {
			return nil, fmt.Errorf("spool type %q has no key", t.Name)
		}
		if _, dup := c.byKey[t.Key]; dup {
			return nil, fmt.Errorf("duplicate spool type key %q", t.Key)
		}
		if t.SpoolWeight < 0 || t.FilamentWeight <= 0 {
			return nil, fmt.Errorf("spool type %q has invalid weights", t.Key)
		}
		c.byKey[t.Key] = t
	}
	if c.defaultKey == "" {
		c.defaultKey = doc.Types[0].Key
	}
	if _, ok := c.byKey[c.defaultKey]; !ok {
		return nil, fmt.Errorf("default spool type %q not in catalog", c.defaultKey)
	}

	c.ordered = append([]models.SpoolType(nil), doc.Types...)
	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].Manufacturer != c.ordered[j].Manufacturer {
			return c.ordered[i].Manufacturer < c.ordered[j].Manufacturer
		}
		return c.ordered[i].FilamentWeight < c.ordered[j].FilamentWeight
	})
	return c, nil
}

// Version identifies the loaded reference data.
func (c *Catalog) Version() string { return c.version }

// DefaultKey is used for spools with no type set.
func (c *Catalog) DefaultKey() string { return c.defaultKey }

// Has reports whether key is known. The empty key is always accepted.
func (c *Catalog) Has(key string) bool {
	if key == "" {
		return true
	}
	_, ok := c.byKey[key]
	return ok
}

// Lookup resolves key, mapping the empty key to the default type.
func (c *Catalog) Lookup(key string) (models.SpoolType, bool) {
	if key == "" {
		key = c.defaultKey
	}
	t, ok := c.byKey[key]
	return t, ok
}

// All returns every type grouped by manufacturer.
func (c *Catalog) All() []models.SpoolType {
	return append([]models.SpoolType(nil), c.ordered...)
}
