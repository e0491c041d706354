package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal encodes the catalog as YAML with two-space indentation.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c.File()); err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	return buf.Bytes(), nil
}
