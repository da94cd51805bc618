// Package view composes the graph, simulation, style and interaction packages
// into the two synchronized panes of the explorer.
//
// The main pane shows the current scope: every floor, or one floor without
// its core node. Selecting a node opens the sidebar pane with an ego view of
// the node and its direct neighbors. The ego graph is built on the next frame
// so the host can size the sidebar first.
//
// A Renderer is single-threaded. Hosts wrap it in a Driver, which serializes
// access behind a mutex and runs the frame loop until its context is
// cancelled. Frames are plain data; painters (terminal, browser over
// WebSocket) draw them without reaching back into the engine.
package view
