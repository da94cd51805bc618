package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"netmap/internal/domain"
)

// JSONCodec handles JSON import/export. It accepts a catalog object or a
// bare array of devices.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a catalog from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var devices []domain.Device
		if err := json.Unmarshal(trimmed, &devices); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return singleDataset(devices), nil
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &catalog, nil
}

// Export exports a catalog to JSON
func (c *JSONCodec) Export(catalog *domain.Catalog, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
