// Package service manages viewer sessions for the netmap host.
//
// A Session pairs a view.Renderer, run by its own view.Driver, with a
// table.Engine over the same catalog and a hub.Hub that streams frames and
// selection changes. Opening a table row selects that node on the map.
//
// # Event System
//
// Session lifecycle, scope and selection changes are published on an
// EventBus so the host can log or forward them.
package service
