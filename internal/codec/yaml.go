package codec

import (
	"errors"
	"fmt"
	"io"

	"netmap/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export. Like JSON it accepts a catalog
// mapping or a bare sequence of devices.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a catalog from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind == yaml.SequenceNode {
		var devices []domain.Device
		if err := root.Decode(&devices); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return singleDataset(devices), nil
	}

	var catalog domain.Catalog
	if err := root.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &catalog, nil
}

// Export exports a catalog to YAML
func (c *YAMLCodec) Export(catalog *domain.Catalog, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
