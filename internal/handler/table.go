package handler

import (
	"net/http"

	"netmap/internal/service"
	"netmap/internal/table"
)

// DatasetRequest switches the table's dataset
type DatasetRequest struct {
	Name string `json:"name"`
}

// SearchRequest replaces the search text
type SearchRequest struct {
	Text string `json:"text"`
}

// FilterRequest adds a cell filter
type FilterRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SortRequest orders the table; an empty field restores fixture order
type SortRequest struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// PageRequest moves to a page, optionally changing the page size
type PageRequest struct {
	Number int `json:"number"`
	Size   int `json:"size,omitempty"`
}

// GetTable returns the table's current view
func (h *SessionHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.TableState(), http.StatusOK)
}

// SetDataset switches datasets
func (h *SessionHandler) SetDataset(w http.ResponseWriter, r *http.Request) {
	var req DatasetRequest
	h.tableOp(w, r, &req, func(e *table.Engine) error {
		return e.SetDataset(req.Name)
	})
}

// SetSearch replaces the search text
func (h *SessionHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	h.tableOp(w, r, &req, func(e *table.Engine) error {
		e.SetSearch(req.Text)
		return nil
	})
}

// AddFilter narrows the rows to one cell value
func (h *SessionHandler) AddFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	h.tableOp(w, r, &req, func(e *table.Engine) error {
		return e.AddCellFilter(req.Field, req.Value)
	})
}

// ClearFilters drops the search and every cell filter
func (h *SessionHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.tableOp(w, r, nil, func(e *table.Engine) error {
		e.ClearAll()
		return nil
	})
}

// RemoveFilter drops every cell filter on a value
func (h *SessionHandler) RemoveFilter(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	h.tableOp(w, r, nil, func(e *table.Engine) error {
		e.RemoveCellFilter(value)
		return nil
	})
}

// ToggleColumn shows or hides a column
func (h *SessionHandler) ToggleColumn(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	h.tableOp(w, r, nil, func(e *table.Engine) error {
		return e.ToggleColumn(field)
	})
}

// SetSort orders the rows
func (h *SessionHandler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	h.tableOp(w, r, &req, func(e *table.Engine) error {
		return e.SortBy(req.Field, req.Desc)
	})
}

// SetPage moves between pages
func (h *SessionHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	h.tableOp(w, r, &req, func(e *table.Engine) error {
		if req.Size != 0 && req.Size != e.PageSize() {
			if err := e.SetPageSize(req.Size); err != nil {
				return err
			}
		}
		e.Page(req.Number)
		return nil
	})
}

// OpenRow selects the row's node on the map
func (h *SessionHandler) OpenRow(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	row := r.PathValue("row")
	if err := s.Table(func(e *table.Engine) error { return e.Open(row) }); err != nil {
		h.fail(w, "Failed to open row", err)
		return
	}
	h.writeSelection(w, s)
}

// tableOp decodes req, if any, runs op on the session's table and replies
// with the resulting state
func (h *SessionHandler) tableOp(w http.ResponseWriter, r *http.Request, req any, op func(*table.Engine) error) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if req != nil && !decode(w, r, req) {
		return
	}
	if err := s.Table(op); err != nil {
		h.fail(w, "Table operation failed", err)
		return
	}
	writeState(w, s)
}

func writeState(w http.ResponseWriter, s *service.Session) {
	writeJSON(w, s.TableState(), http.StatusOK)
}
