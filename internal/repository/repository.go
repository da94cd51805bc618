package repository

import (
	"context"
	"time"

	"netmap/internal/domain"
)

// DatasetInfo summarizes one stored dataset
type DatasetInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Devices int    `json:"devices"`
}

// Repository defines the interface for fixture storage
type Repository interface {
	// ImportCatalog replaces every stored dataset with the catalog
	ImportCatalog(ctx context.Context, catalog *domain.Catalog) error

	// LoadCatalog returns the stored datasets in import order
	LoadCatalog(ctx context.Context) (*domain.Catalog, error)

	// ListDatasets returns a summary per dataset in import order
	ListDatasets(ctx context.Context) ([]DatasetInfo, error)

	// LastImport returns when ImportCatalog last committed
	LastImport(ctx context.Context) (time.Time, bool, error)

	// Close releases resources
	Close() error
}
