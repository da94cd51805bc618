package codec

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"netmap/internal/domain"
)

// TOMLCodec handles TOML import/export. TOML has no top-level arrays, so
// only the catalog form ([[datasets]] tables) is accepted.
type TOMLCodec struct{}

// NewTOMLCodec creates a new TOML codec
func NewTOMLCodec() *TOMLCodec {
	return &TOMLCodec{}
}

// Format returns the codec format identifier
func (c *TOMLCodec) Format() string {
	return "toml"
}

// Parse imports a catalog from TOML. Unknown keys are rejected.
func (c *TOMLCodec) Parse(r io.Reader) (*domain.Catalog, error) {
	var catalog domain.Catalog
	md, err := toml.NewDecoder(r).Decode(&catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to parse TOML: unknown key %s", undecoded[0])
	}
	return &catalog, nil
}

// Export exports a catalog to TOML
func (c *TOMLCodec) Export(catalog *domain.Catalog, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}
