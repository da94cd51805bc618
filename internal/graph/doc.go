// Package graph normalizes device records into the node arena and edge set the
// layout engine runs on.
//
// A Graph owns its nodes: each Node holds a private copy of its Device plus the
// mutable simulation state (position, velocity, optional pin). Two graphs
// built from the same devices share nothing, so the main view and the sidebar
// ego view can simulate independently.
//
// Edges are deduplicated by unordered endpoint pair. Adjacency that names an
// unknown device is dropped rather than reported.
package graph
