// Package domain defines the fixture types for the netmap topology explorer.
//
// This package contains the records the rest of the system consumes: devices,
// the datasets (floors) that group them, and the catalog that orders the
// datasets.
//
// # Core Types
//
// Device is one infrastructure record (computer, switch, gateway, printer)
// with its status, tags, metrics and declared adjacency.
//
// Dataset is a named floor: a title, an optional default-field hint for the
// table and its devices.
//
// Catalog is the ordered list of datasets, plus the aggregate "all floors"
// view over every device.
//
// NodeKind is the single classification of a device's tags that styling and
// tag exclusion consume.
//
// # Design Principles
//
// - Fixture records are never mutated after load
// - No database or external dependencies
// - Pure domain logic without rendering concerns
package domain
