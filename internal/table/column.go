package table

import (
	"strings"

	"netmap/internal/domain"
)

// MinVisibleColumns is the floor the default column set is padded to
const MinVisibleColumns = 6

// Formatter renders a raw cell value for display
type Formatter func(v any) string

// Column describes one field of a dataset
type Column struct {
	Field   string `json:"field"`
	Title   string `json:"title"`
	Width   int    `json:"width"`
	Frozen  bool   `json:"frozen,omitempty"`
	Numeric bool   `json:"numeric,omitempty"`

	Format Formatter `json:"-"`
}

// Render formats a value with the column's formatter, or as plain text
func (c Column) Render(v any) string {
	if v == nil {
		return ""
	}
	if c.Format != nil {
		return c.Format(v)
	}
	return Text(v)
}

// FormatStatus renders a status upper-case
func FormatStatus(v any) string {
	return strings.ToUpper(Text(v))
}

// FormatPercent suffixes a metric with a percent sign
func FormatPercent(v any) string {
	return Text(v) + "%"
}

// DeviceColumns returns the device table columns in declared order
func DeviceColumns() []Column {
	return []Column{
		{Field: domain.FieldID, Title: "ID", Width: 120, Frozen: true},
		{Field: domain.FieldName, Title: "Name", Width: 200},
		{Field: domain.FieldType, Title: "Type", Width: 130},
		{Field: domain.FieldStatus, Title: "Status", Width: 100, Format: FormatStatus},
		{Field: domain.FieldLocation, Title: "Location", Width: 250},
		{Field: domain.FieldIPAddress, Title: "IP Address", Width: 140},
		{Field: domain.FieldSubnet, Title: "Subnet", Width: 150},
		{Field: domain.FieldCPUUsage, Title: "CPU Usage", Width: 120, Numeric: true, Format: FormatPercent},
		{Field: domain.FieldMemoryUsage, Title: "Memory Usage", Width: 140, Numeric: true, Format: FormatPercent},
		{Field: domain.FieldUptime, Title: "Uptime", Width: 120, Numeric: true, Format: FormatPercent},
		{Field: domain.FieldLastSeen, Title: "Last Seen", Width: 180},
	}
}

// Dataset is a named table: its columns, default-fields hint and rows
type Dataset struct {
	Name          string
	Title         string
	Columns       []Column
	DefaultFields []string
	Rows          []Row
	// IDField names the column Open looks rows up by
	IDField string
}

func (d *Dataset) column(field string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// defaultVisible seeds the visible set from the hint, dropping unknown
// fields, and pads it in declared order to MinVisibleColumns. A dataset
// without a hint shows every column.
func (d *Dataset) defaultVisible() map[string]bool {
	visible := make(map[string]bool, len(d.Columns))
	if len(d.DefaultFields) == 0 {
		for _, c := range d.Columns {
			visible[c.Field] = true
		}
		return visible
	}
	for _, f := range d.DefaultFields {
		if _, ok := d.column(f); ok {
			visible[f] = true
		}
	}
	for _, c := range d.Columns {
		if len(visible) >= MinVisibleColumns {
			break
		}
		visible[c.Field] = true
	}
	return visible
}

// FromDomain converts a fixture dataset into a device table
func FromDomain(ds domain.Dataset) Dataset {
	rows := make([]Row, 0, len(ds.Devices))
	for _, dev := range ds.Devices {
		rows = append(rows, Row(dev.Record()))
	}
	return Dataset{
		Name:          ds.Name,
		Title:         ds.DisplayTitle(),
		Columns:       DeviceColumns(),
		DefaultFields: ds.DefaultFields,
		Rows:          rows,
		IDField:       domain.FieldID,
	}
}

// FromCatalog returns an "all floors" table followed by one table per floor
func FromCatalog(c *domain.Catalog) []Dataset {
	all := domain.Dataset{Name: domain.ScopeAll, Title: "All floors", Devices: c.AllDevices()}
	out := []Dataset{FromDomain(all)}
	for _, ds := range c.Datasets {
		out = append(out, FromDomain(ds))
	}
	return out
}
