// Package catalog reads and writes YAML files describing dimensions and
// applies them to a dimensions.Registry.
//
// A catalog lists base dimensions, then derived dimensions:
//
//	base:
//	  - name: length
//	    symbol: L
//	  - key: len          # optional registry key, defaults to name
//	    name: length
//	    symbol: Len
//	    override: true    # replace instead of insert-or-fail
//	derived:
//	  - name: velocity
//	    symbol: v
//	    components:
//	      - { dimension: length, exponent: 1 }
//	      - { dimension: time, exponent: -1 }
//
// Exponents may be integers or fractions written as "1/2".
package catalog

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// File is the on-disk structure of a catalog.
type File struct {
	Base    []BaseDef    `yaml:"base"`
	Derived []DerivedDef `yaml:"derived,omitempty"`
}

// BaseDef is one base dimension entry.
type BaseDef struct {
	Key      string `yaml:"key,omitempty"`
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Override bool   `yaml:"override,omitempty"`
}

// DerivedDef is one derived dimension entry.
type DerivedDef struct {
	Key        string         `yaml:"key,omitempty"`
	Name       string         `yaml:"name"`
	Symbol     string         `yaml:"symbol"`
	Override   bool           `yaml:"override,omitempty"`
	Components []ComponentDef `yaml:"components"`
}

// ComponentDef is one factor of a derived dimension entry.
type ComponentDef struct {
	Dimension string `yaml:"dimension"`
	Exponent  string `yaml:"exponent"`
}

// BaseEntry is a validated base dimension ready to register.
type BaseEntry struct {
	Key      string
	Def      dimensions.BaseDimensionDef
	Override bool
}

// DerivedEntry is a validated derived dimension ready to register.
type DerivedEntry struct {
	Key      string
	Def      dimensions.DerivedDimensionDef
	Override bool
}

// Catalog is a parsed, validated catalog.
type Catalog struct {
	Source  string
	Base    []BaseEntry
	Derived []DerivedEntry
}

// Len returns the total number of entries.
func (c *Catalog) Len() int {
	return len(c.Base) + len(c.Derived)
}

// Parse decodes and validates catalog YAML. source labels error messages.
func Parse(source string, data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	cat, err := fromFile(source, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return cat, nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: catalog path comes from the CLI or config
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Load reads and parses the catalog at path within fsys.
func Load(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data)
}

func fromFile(source string, file File) (*Catalog, error) {
	cat := &Catalog{Source: source}

	for i, b := range file.Base {
		def, err := dimensions.NewBaseDimensionDef(b.Name, b.Symbol)
		if err != nil {
			return nil, fmt.Errorf("base[%d]: %w", i, err)
		}
		cat.Base = append(cat.Base, BaseEntry{Key: keyOr(b.Key, b.Name), Def: def, Override: b.Override})
	}

	for i, d := range file.Derived {
		components := make([]dimensions.DimensionComponent, 0, len(d.Components))
		for j, c := range d.Components {
			exp, err := dimensions.ParseExponent(c.Exponent)
			if err != nil {
				return nil, fmt.Errorf("derived[%d] (%s) component %d: %w", i, d.Name, j, err)
			}
			component, err := dimensions.NewDimensionComponent(c.Dimension, exp)
			if err != nil {
				return nil, fmt.Errorf("derived[%d] (%s) component %d: %w", i, d.Name, j, err)
			}
			components = append(components, component)
		}
		def, err := dimensions.NewDerivedDimensionDef(d.Name, d.Symbol, components)
		if err != nil {
			return nil, fmt.Errorf("derived[%d]: %w", i, err)
		}
		cat.Derived = append(cat.Derived, DerivedEntry{Key: keyOr(d.Key, d.Name), Def: def, Override: d.Override})
	}

	return cat, nil
}

func keyOr(key, name string) string {
	if key != "" {
		return key
	}
	return name
}

// FromSnapshot builds a catalog reproducing snap. Every entry is marked as
// an override so that applying it on top of an existing registry restores
// the snapshot's definitions. Derived entries are written after the derived
// entries they reference.
func FromSnapshot(snap dimensions.Snapshot) *Catalog {
	cat := &Catalog{Source: fmt.Sprintf("snapshot@%d", snap.Generation)}
	for _, e := range snap.Base {
		cat.Base = append(cat.Base, BaseEntry{Key: e.Key, Def: e.Def, Override: true})
	}
	for _, e := range snap.DerivedInDependencyOrder() {
		cat.Derived = append(cat.Derived, DerivedEntry{Key: e.Key, Def: e.Def, Override: true})
	}
	return cat
}

// File converts the catalog back to its on-disk structure. Keys equal to
// the definition name are omitted.
func (c *Catalog) File() File {
	var file File
	for _, b := range c.Base {
		file.Base = append(file.Base, BaseDef{
			Key:      omitKey(b.Key, b.Def.Name()),
			Name:     b.Def.Name(),
			Symbol:   b.Def.Symbol(),
			Override: b.Override,
		})
	}
	for _, d := range c.Derived {
		def := DerivedDef{
			Key:      omitKey(d.Key, d.Def.Name()),
			Name:     d.Def.Name(),
			Symbol:   d.Def.Symbol(),
			Override: d.Override,
		}
		for _, comp := range d.Def.Components() {
			def.Components = append(def.Components, ComponentDef{
				Dimension: comp.Dimension(),
				Exponent:  comp.Exponent().String(),
			})
		}
		file.Derived = append(file.Derived, def)
	}
	return file
}

func omitKey(key, name string) string {
	if key == name {
		return ""
	}
	return key
}
