package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"netmap/internal/domain"
	"netmap/internal/repository"

	_ "modernc.org/sqlite"
)

var _ repository.Repository = (*Repository)(nil)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens or creates a fixture database. ":memory:" gives a private
// in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory") {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT,
		default_fields JSON
	);

	CREATE TABLE IF NOT EXISTS devices (
		dataset TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT,
		type TEXT,
		status TEXT,
		location TEXT,
		ip_address TEXT,
		subnet TEXT,
		cpu_usage REAL NOT NULL DEFAULT 0,
		memory_usage REAL NOT NULL DEFAULT 0,
		uptime REAL NOT NULL DEFAULT 0,
		last_seen TEXT,
		tags JSON,
		connected_to JSON,
		PRIMARY KEY (dataset, id),
		FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_devices_order ON devices(dataset, position);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ImportCatalog replaces all data with the provided catalog
func (r *Repository) ImportCatalog(ctx context.Context, catalog *domain.Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Devices go with their datasets through the cascade.
	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets`); err != nil {
		return fmt.Errorf("failed to clear datasets: %w", err)
	}

	datasetStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO datasets (name, position, title, default_fields) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare dataset statement: %w", err)
	}
	defer datasetStmt.Close()

	deviceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO devices (dataset, position, id, name, type, status, location, ip_address,
			subnet, cpu_usage, memory_usage, uptime, last_seen, tags, connected_to)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare device statement: %w", err)
	}
	defer deviceStmt.Close()

	for i, ds := range catalog.Datasets {
		fields, err := marshalToNull(ds.DefaultFields)
		if err != nil {
			return fmt.Errorf("failed to marshal default fields for %s: %w", ds.Name, err)
		}
		if _, err := datasetStmt.ExecContext(ctx, ds.Name, i, stringToNull(ds.Title), fields); err != nil {
			return fmt.Errorf("failed to insert dataset %s: %w", ds.Name, err)
		}

		for j := range ds.Devices {
			args, err := deviceInsertArgs(ds.Name, j, &ds.Devices[j])
			if err != nil {
				return fmt.Errorf("failed to encode device %s: %w", ds.Devices[j].ID, err)
			}
			if _, err := deviceStmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("failed to insert device %s/%s: %w", ds.Name, ds.Devices[j].ID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES ('last_import', ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, fmt.Sprintf(`"%s"`, time.Now().UTC().Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("failed to store import timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadCatalog loads every dataset with its devices in import order
func (r *Repository) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, title, default_fields FROM datasets ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	catalog := &domain.Catalog{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			name          string
			title, fields sql.NullString
		)
		if err := rows.Scan(&name, &title, &fields); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		ds := domain.Dataset{Name: name, Title: nullToString(title)}
		if err := unmarshalJSONField(fields, &ds.DefaultFields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal default fields for %s: %w", name, err)
		}
		index[name] = len(catalog.Datasets)
		catalog.Datasets = append(catalog.Datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}

	devRows, err := r.db.QueryContext(ctx, `
		SELECT dataset, id, name, type, status, location, ip_address, subnet,
			cpu_usage, memory_usage, uptime, last_seen, tags, connected_to
		FROM devices ORDER BY dataset, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer devRows.Close()

	for devRows.Next() {
		var row deviceRow
		if err := devRows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		dev, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		i, ok := index[row.dataset]
		if !ok {
			continue
		}
		catalog.Datasets[i].Devices = append(catalog.Datasets[i].Devices, dev)
	}
	if err := devRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}

	return catalog, nil
}

// ListDatasets summarizes the stored datasets
func (r *Repository) ListDatasets(ctx context.Context) ([]repository.DatasetInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.name, d.title, COUNT(v.id)
		FROM datasets d LEFT JOIN devices v ON v.dataset = d.name
		GROUP BY d.name ORDER BY d.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var out []repository.DatasetInfo
	for rows.Next() {
		var (
			info  repository.DatasetInfo
			title sql.NullString
		)
		if err := rows.Scan(&info.Name, &title, &info.Devices); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		info.Title = nullToString(title)
		out = append(out, info)
	}
	return out, rows.Err()
}

// LastImport returns the time of the last committed import
func (r *Repository) LastImport(ctx context.Context) (time.Time, bool, error) {
	var value sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_import'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query import time: %w", err)
	}

	var stamp string
	if err := unmarshalJSONField(value, &stamp); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to decode import time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse import time: %w", err)
	}
	return t, true, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
