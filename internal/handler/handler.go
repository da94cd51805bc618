package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"netmap/internal/domain"
	"netmap/internal/service"
	"netmap/internal/table"
	"netmap/internal/view"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SessionHandler serves the session API
type SessionHandler struct {
	mgr      *service.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewSessionHandler creates a handler over a session manager. WebSocket
// upgrades accept the listed origins; "*" accepts any.
func NewSessionHandler(mgr *service.Manager, allowedOrigins []string, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		mgr: mgr,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// Register adds every route to mux
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /api/scopes", h.ListScopes)

	mux.HandleFunc("GET /api/sessions", h.ListSessions)
	mux.HandleFunc("POST /api/sessions", h.CreateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.DeleteSession)

	// Map
	mux.HandleFunc("PUT /api/sessions/{id}/scope", h.SetScope)
	mux.HandleFunc("PUT /api/sessions/{id}/theme", h.SetTheme)
	mux.HandleFunc("POST /api/sessions/{id}/pointer", h.Pointer)
	mux.HandleFunc("POST /api/sessions/{id}/resize", h.Resize)
	mux.HandleFunc("POST /api/sessions/{id}/fit", h.Fit)
	mux.HandleFunc("POST /api/sessions/{id}/select", h.Select)
	mux.HandleFunc("GET /api/sessions/{id}/selection", h.GetSelection)
	mux.HandleFunc("DELETE /api/sessions/{id}/selection", h.ClearSelection)
	mux.HandleFunc("GET /api/sessions/{id}/frame", h.GetFrame)

	// Table
	mux.HandleFunc("GET /api/sessions/{id}/table", h.GetTable)
	mux.HandleFunc("PUT /api/sessions/{id}/table/dataset", h.SetDataset)
	mux.HandleFunc("PUT /api/sessions/{id}/table/search", h.SetSearch)
	mux.HandleFunc("POST /api/sessions/{id}/table/filters", h.AddFilter)
	mux.HandleFunc("DELETE /api/sessions/{id}/table/filters", h.ClearFilters)
	mux.HandleFunc("DELETE /api/sessions/{id}/table/filters/{value}", h.RemoveFilter)
	mux.HandleFunc("POST /api/sessions/{id}/table/columns/{field}/toggle", h.ToggleColumn)
	mux.HandleFunc("PUT /api/sessions/{id}/table/sort", h.SetSort)
	mux.HandleFunc("PUT /api/sessions/{id}/table/page", h.SetPage)
	mux.HandleFunc("POST /api/sessions/{id}/table/rows/{row}/open", h.OpenRow)

	// Streams
	mux.HandleFunc("GET /api/sessions/{id}/events", h.Events)
	mux.HandleFunc("GET /api/sessions/{id}/ws", h.Stream)
}

// Health reports liveness
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "sessions": len(h.mgr.List())}, http.StatusOK)
}

// ListScopes returns "all" followed by every floor
func (h *SessionHandler) ListScopes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.mgr.Scopes(), http.StatusOK)
}

// SessionResponse describes a newly opened session
type SessionResponse struct {
	ID     string     `json:"id"`
	Scopes []string   `json:"scopes"`
	Frame  view.Frame `json:"frame"`
}

// ListSessions returns the open session IDs
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.mgr.List(), http.StatusOK)
}

// CreateSession opens a session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Open()
	if err != nil {
		h.fail(w, "Failed to open session", err)
		return
	}
	writeJSON(w, SessionResponse{ID: s.ID(), Scopes: h.mgr.Scopes(), Frame: s.Frame()}, http.StatusCreated)
}

// DeleteSession closes a session
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Close(r.PathValue("id")); err != nil {
		h.fail(w, "Failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ScopeRequest selects what the main pane shows
type ScopeRequest struct {
	Scope string `json:"scope"`
}

// SetScope switches the main view
func (h *SessionHandler) SetScope(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req ScopeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.SetScope(req.Scope); err != nil {
		h.fail(w, "Failed to set scope", err)
		return
	}
	writeJSON(w, s.Frame(), http.StatusOK)
}

// ThemeRequest sets the color scheme
type ThemeRequest struct {
	Dark bool `json:"dark"`
}

// SetTheme switches a session between light and dark
func (h *SessionHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req ThemeRequest
	if !decode(w, r, &req) {
		return
	}
	s.SetDark(req.Dark)
	w.WriteHeader(http.StatusNoContent)
}

// Pointer forwards one pointer event
func (h *SessionHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in service.PointerInput
	if !decode(w, r, &in) {
		return
	}
	ev, err := s.Pointer(in)
	if err != nil {
		h.fail(w, "Failed to handle pointer event", err)
		return
	}
	writeJSON(w, ev, http.StatusOK)
}

// Resize records a pane's size
func (h *SessionHandler) Resize(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var in service.ResizeInput
	if !decode(w, r, &in) {
		return
	}
	if err := s.Resize(in); err != nil {
		h.fail(w, "Failed to resize", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PaneRequest names a pane
type PaneRequest struct {
	Pane view.PaneID `json:"pane"`
}

// Fit frames every node of a pane
func (h *SessionHandler) Fit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	req := PaneRequest{Pane: view.PaneMain}
	if !decode(w, r, &req) {
		return
	}
	if err := s.FitView(req.Pane); err != nil {
		h.fail(w, "Failed to fit view", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectRequest names a node
type SelectRequest struct {
	ID string `json:"id"`
}

// Select selects a node
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Select(req.ID); err != nil {
		h.fail(w, "Failed to select node", err)
		return
	}
	h.writeSelection(w, s)
}

// GetSelection returns the selected node's details
func (h *SessionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeSelection(w, s)
}

func (h *SessionHandler) writeSelection(w http.ResponseWriter, s *service.Session) {
	sel, ok := s.Selection()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, sel, http.StatusOK)
}

// ClearSelection closes the sidebar
func (h *SessionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.CloseSidebar()
	w.WriteHeader(http.StatusNoContent)
}

// GetFrame returns the session's current frame
func (h *SessionHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.Frame(), http.StatusOK)
}

// Events streams the session's frames and selection changes as SSE
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Hub().ServeHTTP(w, r)
}

// Helper methods

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	s, err := h.mgr.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg(msg)
	}
	writeError(w, msg, err.Error(), status)
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, view.ErrUnknownNode),
		errors.Is(err, view.ErrUnknownScope),
		errors.Is(err, domain.ErrUnknownDataset),
		errors.Is(err, table.ErrUnknownRow):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, view.ErrUnknownPane),
		errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, table.ErrPageSize):
		return http.StatusBadRequest
	case errors.Is(err, view.ErrPaneClosed):
		return http.StatusConflict
	case errors.Is(err, view.ErrClosed):
		return http.StatusGone
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrShutdown):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
