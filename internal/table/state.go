package table

// ColumnState is a column with its visibility
type ColumnState struct {
	Column
	Visible bool `json:"visible"`
}

// State is everything a client needs to draw the table
type State struct {
	Dataset  string        `json:"dataset"`
	Datasets []string      `json:"datasets"`
	Search   string        `json:"search"`
	Filters  []Predicate   `json:"filters"`
	Columns  []ColumnState `json:"columns"`
	Sort     Sort          `json:"sort"`
	Page     Page          `json:"page"`
	// Cells holds the current page rendered through the visible columns
	Cells [][]string `json:"cells"`
}

// State captures the engine's current view
func (e *Engine) State() State {
	st := State{
		Dataset:  e.Dataset(),
		Datasets: e.Datasets(),
		Search:   e.search,
		Filters:  e.Filters(),
		Sort:     e.sort,
		Page:     e.CurrentPage(),
	}
	if st.Filters == nil {
		st.Filters = []Predicate{}
	}
	for _, c := range e.Columns() {
		st.Columns = append(st.Columns, ColumnState{Column: c, Visible: e.visible[c.Field]})
	}
	st.Cells = e.Cells(st.Page.Rows)
	return st
}

// Cells renders rows through the visible columns
func (e *Engine) Cells(rows []Row) [][]string {
	cols := e.VisibleColumns()
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Render(row[c.Field])
		}
		out = append(out, cells)
	}
	return out
}
