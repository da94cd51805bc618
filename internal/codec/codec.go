// Package codec reads and writes fixture catalogs in JSON, YAML and TOML.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"netmap/internal/domain"
)

// DefaultDatasetName names the single dataset of a bare device list
const DefaultDatasetName = "devices"

// ErrUnsupportedFormat is returned for a format or file extension no codec handles
var ErrUnsupportedFormat = errors.New("unsupported format")

// Importer parses a catalog from a reader
type Importer interface {
	Parse(r io.Reader) (*domain.Catalog, error)
	Format() string
}

// Exporter writes a catalog to a writer
type Exporter interface {
	Export(catalog *domain.Catalog, w io.Writer) error
	Format() string
}

// Codec both parses and exports one format
type Codec interface {
	Importer
	Exporter
}

// Lookup returns the codec for a format name: json, yaml or toml
func Lookup(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "toml":
		return NewTOMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ForPath returns the codec matching a file's extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return Lookup(ext)
}

func singleDataset(devices []domain.Device) *domain.Catalog {
	return &domain.Catalog{Datasets: []domain.Dataset{{Name: DefaultDatasetName, Devices: devices}}}
}
