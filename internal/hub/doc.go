// Package hub streams one session's frames and selection changes to its
// subscribers, as Server-Sent Events or as messages a WebSocket writer
// drains. Frames go to slow clients best effort.
package hub
