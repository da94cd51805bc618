// Package loader reads fixture catalogs from disk and validates them.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"netmap/internal/codec"
	"netmap/internal/domain"
)

// ErrInvalidCatalog is returned when a catalog fails validation
var ErrInvalidCatalog = errors.New("invalid catalog")

var validate = validator.New()

// Load reads a catalog file, choosing the codec by extension
func Load(path string) (*domain.Catalog, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	catalog, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(catalog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes and validates catalog bytes in the named format
func Parse(format string, data []byte) (*domain.Catalog, error) {
	c, err := codec.Lookup(format)
	if err != nil {
		return nil, err
	}
	catalog, err := c.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Validate checks required fields and that dataset names are unique and do
// not shadow the aggregate scope. Device IDs may repeat across datasets but
// not within one.
func Validate(catalog *domain.Catalog) error {
	if err := validate.Struct(catalog); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidCatalog, formatValidationError(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	names := make(map[string]bool, len(catalog.Datasets))
	for _, ds := range catalog.Datasets {
		if ds.Name == domain.ScopeAll {
			return fmt.Errorf("%w: dataset name %q is reserved", ErrInvalidCatalog, ds.Name)
		}
		if names[ds.Name] {
			return fmt.Errorf("%w: duplicate dataset %q", ErrInvalidCatalog, ds.Name)
		}
		names[ds.Name] = true

		ids := make(map[string]bool, len(ds.Devices))
		for _, dev := range ds.Devices {
			if ids[dev.ID] {
				return fmt.Errorf("%w: dataset %q: duplicate device %q", ErrInvalidCatalog, ds.Name, dev.ID)
			}
			ids[dev.ID] = true
		}
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, e.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}
