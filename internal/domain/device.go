package domain

import (
	"slices"
	"strings"
)

// Status represents the reachability reported for a device
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Online reports whether the status is online. Anything else counts as offline.
func (s Status) Online() bool {
	return strings.EqualFold(string(s), string(StatusOnline))
}

// Tag names carried in device records
const (
	TagCore    = "Core"
	TagGateway = "Gateway"
	TagSwitch  = "Switch"
	TagDevice  = "Device"
	TagPrinter = "Printer"
	TagPhone   = "Phone"
)

// Device represents one infrastructure record in a fixture
type Device struct {
	ID          string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Type        string   `json:"type" yaml:"type" toml:"type"`
	Status      Status   `json:"status" yaml:"status" toml:"status"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty" toml:"location"`
	IPAddress   string   `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty" toml:"ipAddress"`
	Subnet      string   `json:"subnet,omitempty" yaml:"subnet,omitempty" toml:"subnet"`
	CPUUsage    float64  `json:"cpuUsage" yaml:"cpuUsage" toml:"cpuUsage"`
	MemoryUsage float64  `json:"memoryUsage" yaml:"memoryUsage" toml:"memoryUsage"`
	Uptime      float64  `json:"uptime" yaml:"uptime" toml:"uptime"`
	LastSeen    string   `json:"lastSeen,omitempty" yaml:"lastSeen,omitempty" toml:"lastSeen"`
	ConnectedTo []string `json:"connectedTo,omitempty" yaml:"connectedTo,omitempty" toml:"connectedTo"`
}

// Field names of a device record, in declared order
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldType        = "type"
	FieldStatus      = "status"
	FieldTags        = "tags"
	FieldLocation    = "location"
	FieldIPAddress   = "ipAddress"
	FieldSubnet      = "subnet"
	FieldCPUUsage    = "cpuUsage"
	FieldMemoryUsage = "memoryUsage"
	FieldUptime      = "uptime"
	FieldLastSeen    = "lastSeen"
	FieldConnectedTo = "connectedTo"
)

// HasTag checks if the device carries the given tag
func (d *Device) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// HasAnyTag checks if the device carries at least one of the given tags
func (d *Device) HasAnyTag(tags ...string) bool {
	for _, tag := range tags {
		if d.HasTag(tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hold the device without sharing slices
func (d Device) Clone() Device {
	d.Tags = slices.Clone(d.Tags)
	d.ConnectedTo = slices.Clone(d.ConnectedTo)
	return d
}

// Record returns the device as a field map. Empty optional fields are omitted
// so that predicates on them behave as missing.
func (d *Device) Record() map[string]any {
	rec := map[string]any{
		FieldID:          d.ID,
		FieldName:        d.Name,
		FieldType:        d.Type,
		FieldStatus:      string(d.Status),
		FieldCPUUsage:    d.CPUUsage,
		FieldMemoryUsage: d.MemoryUsage,
		FieldUptime:      d.Uptime,
	}
	if len(d.Tags) > 0 {
		rec[FieldTags] = slices.Clone(d.Tags)
	}
	if d.Location != "" {
		rec[FieldLocation] = d.Location
	}
	if d.IPAddress != "" {
		rec[FieldIPAddress] = d.IPAddress
	}
	if d.Subnet != "" {
		rec[FieldSubnet] = d.Subnet
	}
	if d.LastSeen != "" {
		rec[FieldLastSeen] = d.LastSeen
	}
	if len(d.ConnectedTo) > 0 {
		rec[FieldConnectedTo] = slices.Clone(d.ConnectedTo)
	}
	return rec
}

// RecordFields lists the record keys in declared order
func RecordFields() []string {
	return []string{
		FieldID, FieldName, FieldType, FieldStatus, FieldTags, FieldLocation,
		FieldIPAddress, FieldSubnet, FieldCPUUsage, FieldMemoryUsage,
		FieldUptime, FieldLastSeen, FieldConnectedTo,
	}
}
