package domain

import (
	"errors"
	"fmt"
)

// ScopeAll names the aggregate view over every dataset
const ScopeAll = "all"

// ErrUnknownDataset is returned when a dataset name is not in the catalog
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset is one floor of the fixture
type Dataset struct {
	Name          string   `json:"name" yaml:"name" toml:"name" validate:"required"`
	Title         string   `json:"title" yaml:"title" toml:"title"`
	DefaultFields []string `json:"defaultFields,omitempty" yaml:"defaultFields,omitempty" toml:"defaultFields"`
	Devices       []Device `json:"devices" yaml:"devices" toml:"devices" validate:"dive"`
}

// DisplayTitle returns the title, falling back to the name
func (d *Dataset) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Catalog is the ordered list of datasets loaded from a fixture
type Catalog struct {
	Datasets []Dataset `json:"datasets" yaml:"datasets" toml:"datasets" validate:"dive"`
}

// Floors returns the dataset names in catalog order
func (c *Catalog) Floors() []string {
	names := make([]string, 0, len(c.Datasets))
	for _, ds := range c.Datasets {
		names = append(names, ds.Name)
	}
	return names
}

// Scopes returns the aggregate scope followed by every floor
func (c *Catalog) Scopes() []string {
	return append([]string{ScopeAll}, c.Floors()...)
}

// Dataset looks up a dataset by name
func (c *Catalog) Dataset(name string) (*Dataset, error) {
	for i := range c.Datasets {
		if c.Datasets[i].Name == name {
			return &c.Datasets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
}

// AllDevices returns the union of every dataset's devices, deduped by ID.
// The first occurrence of an ID wins.
func (c *Catalog) AllDevices() []Device {
	seen := make(map[string]bool)
	var devices []Device
	for _, ds := range c.Datasets {
		for _, dev := range ds.Devices {
			if seen[dev.ID] {
				continue
			}
			seen[dev.ID] = true
			devices = append(devices, dev)
		}
	}
	return devices
}

// Devices returns the devices for a scope: ScopeAll or a dataset name
func (c *Catalog) Devices(scope string) ([]Device, error) {
	if scope == ScopeAll {
		return c.AllDevices(), nil
	}
	ds, err := c.Dataset(scope)
	if err != nil {
		return nil, err
	}
	return ds.Devices, nil
}

// FindDevice searches every dataset for a device ID
func (c *Catalog) FindDevice(id string) (Device, bool) {
	for _, ds := range c.Datasets {
		for _, dev := range ds.Devices {
			if dev.ID == id {
				return dev, true
			}
		}
	}
	return Device{}, false
}
