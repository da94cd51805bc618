// Package handler implements the HTTP API of the netmap host.
//
// Every viewer opens a session and then drives it through REST calls or a
// WebSocket. Frames and selection changes stream back over Server-Sent
// Events (/api/sessions/{id}/events) or the same WebSocket
// (/api/sessions/{id}/ws).
//
// # Response Format
//
// Success responses return JSON data. Error responses return JSON with an
// {error, details} body; domain errors map to 400, 404, 409 or 410.
//
// # Middleware
//
// Recover turns panics into 500 responses, CORS checks origins, and Logger
// logs requests and records their metrics by route pattern.
package handler
