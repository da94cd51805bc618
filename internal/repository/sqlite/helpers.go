package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"netmap/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a string list to nullable JSON. Empty lists are
// stored as NULL so they load back as nil.
func marshalToNull(v []string) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Row Scanning
// ============================================================================

// deviceRow holds the columns of one devices row
type deviceRow struct {
	dataset     string
	id          string
	name        sql.NullString
	typ         sql.NullString
	status      sql.NullString
	location    sql.NullString
	ipAddress   sql.NullString
	subnet      sql.NullString
	cpuUsage    float64
	memoryUsage float64
	uptime      float64
	lastSeen    sql.NullString
	tags        sql.NullString
	connectedTo sql.NullString
}

func (r *deviceRow) scanArgs() []any {
	return []any{
		&r.dataset, &r.id, &r.name, &r.typ, &r.status, &r.location, &r.ipAddress,
		&r.subnet, &r.cpuUsage, &r.memoryUsage, &r.uptime, &r.lastSeen, &r.tags, &r.connectedTo,
	}
}

func (r *deviceRow) toDomain() (domain.Device, error) {
	dev := domain.Device{
		ID:          r.id,
		Name:        nullToString(r.name),
		Type:        nullToString(r.typ),
		Status:      domain.Status(nullToString(r.status)),
		Location:    nullToString(r.location),
		IPAddress:   nullToString(r.ipAddress),
		Subnet:      nullToString(r.subnet),
		CPUUsage:    r.cpuUsage,
		MemoryUsage: r.memoryUsage,
		Uptime:      r.uptime,
		LastSeen:    nullToString(r.lastSeen),
	}
	if err := unmarshalJSONField(r.tags, &dev.Tags); err != nil {
		return domain.Device{}, fmt.Errorf("failed to unmarshal tags for %s: %w", r.id, err)
	}
	if err := unmarshalJSONField(r.connectedTo, &dev.ConnectedTo); err != nil {
		return domain.Device{}, fmt.Errorf("failed to unmarshal connections for %s: %w", r.id, err)
	}
	return dev, nil
}

// deviceInsertArgs returns the insert arguments in column order
func deviceInsertArgs(dataset string, position int, d *domain.Device) ([]any, error) {
	tags, err := marshalToNull(d.Tags)
	if err != nil {
		return nil, err
	}
	connectedTo, err := marshalToNull(d.ConnectedTo)
	if err != nil {
		return nil, err
	}
	return []any{
		dataset, position, d.ID,
		stringToNull(d.Name), stringToNull(d.Type), stringToNull(string(d.Status)),
		stringToNull(d.Location), stringToNull(d.IPAddress), stringToNull(d.Subnet),
		d.CPUUsage, d.MemoryUsage, d.Uptime,
		stringToNull(d.LastSeen), tags, connectedTo,
	}, nil
}
