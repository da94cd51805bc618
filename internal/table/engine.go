package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"netmap/internal/domain"
)

var (
	// ErrUnknownDataset is returned when switching to a dataset that was not registered
	ErrUnknownDataset = domain.ErrUnknownDataset
	// ErrUnknownColumn is returned for a field the current dataset does not declare
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnknownRow is returned when opening an ID no visible row carries
	ErrUnknownRow = errors.New("unknown row")
	// ErrPageSize is returned for a page size outside PageSizes
	ErrPageSize = errors.New("invalid page size")
	// ErrNoDataset is returned by operations that need a current dataset
	ErrNoDataset = errors.New("no dataset")
)

// PageSizes are the selectable page sizes
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is the page size after a dataset switch
const DefaultPageSize = 10

// OpenFunc receives the ID of a row the user opened
type OpenFunc func(id string) error

// Sort orders the visible rows by one column
type Sort struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Page is one page of visible rows
type Page struct {
	Number    int   `json:"number"`
	Size      int   `json:"size"`
	Pages     int   `json:"pages"`
	TotalRows int   `json:"totalRows"`
	Rows      []Row `json:"rows"`
}

// Engine filters, projects, sorts and pages the rows of one dataset at a
// time. It is not safe for concurrent use.
type Engine struct {
	datasets []Dataset
	current  *Dataset

	search    string
	searchSet []Predicate
	filters   []Predicate
	visible   map[string]bool
	sort      Sort
	pageSize  int
	page      int

	rows   []Row
	onOpen OpenFunc
	log    zerolog.Logger
}

// New creates an engine over the datasets. The first dataset is current.
func New(datasets ...Dataset) *Engine {
	e := &Engine{
		datasets: datasets,
		pageSize: DefaultPageSize,
		page:     1,
		log:      zerolog.Nop(),
	}
	if len(datasets) > 0 {
		e.reset(&e.datasets[0])
	}
	return e
}

// SetLogger replaces the engine's logger
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// OnOpen registers the handler Open hands row IDs to
func (e *Engine) OnOpen(fn OpenFunc) {
	e.onOpen = fn
}

// Datasets returns the registered dataset names in order
func (e *Engine) Datasets() []string {
	names := make([]string, 0, len(e.datasets))
	for _, ds := range e.datasets {
		names = append(names, ds.Name)
	}
	return names
}

// Dataset returns the current dataset name, or "" if none
func (e *Engine) Dataset() string {
	if e.current == nil {
		return ""
	}
	return e.current.Name
}

// SetDataset switches datasets. Search, filters, sorting, paging and the
// visible columns are reset to the new dataset's defaults.
func (e *Engine) SetDataset(name string) error {
	for i := range e.datasets {
		if e.datasets[i].Name == name {
			e.reset(&e.datasets[i])
			e.log.Debug().Str("dataset", name).Int("rows", len(e.rows)).Msg("Dataset switched")
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownDataset, name)
}

func (e *Engine) reset(ds *Dataset) {
	e.current = ds
	e.search = ""
	e.searchSet = nil
	e.filters = nil
	e.sort = Sort{}
	e.pageSize = DefaultPageSize
	e.page = 1
	e.visible = ds.defaultVisible()
	e.recompute()
}

// SetSearch replaces the search text. The text becomes one contains
// predicate per column visible now; later column toggles do not change it.
func (e *Engine) SetSearch(text string) {
	e.search = text
	e.searchSet = nil
	if text != "" && e.current != nil {
		for _, c := range e.VisibleColumns() {
			e.searchSet = append(e.searchSet, Predicate{Field: c.Field, Operator: OpContains, Value: text})
		}
	}
	e.recompute()
}

// Search returns the current search text
func (e *Engine) Search() string {
	return e.search
}

// SearchSet returns the predicates the search text expanded to
func (e *Engine) SearchSet() []Predicate {
	return slices.Clone(e.searchSet)
}

// AddCellFilter narrows the rows to those whose field equals value. Adding
// a filter already present is a no-op.
func (e *Engine) AddCellFilter(field, value string) error {
	if err := e.requireColumn(field); err != nil {
		return err
	}
	p := Predicate{Field: field, Operator: OpEquals, Value: value}
	if slices.Contains(e.filters, p) {
		return nil
	}
	e.filters = append(e.filters, p)
	e.recompute()
	return nil
}

// RemoveCellFilter drops every cell filter on value
func (e *Engine) RemoveCellFilter(value string) {
	n := len(e.filters)
	e.filters = slices.DeleteFunc(e.filters, func(p Predicate) bool {
		return p.Value == value
	})
	if len(e.filters) != n {
		e.recompute()
	}
}

// ClearAll drops the search and every cell filter
func (e *Engine) ClearAll() {
	e.search = ""
	e.searchSet = nil
	e.filters = nil
	e.recompute()
}

// Filters returns the cell filters in the order they were added
func (e *Engine) Filters() []Predicate {
	return slices.Clone(e.filters)
}

// ToggleColumn shows or hides a column. Row filters are untouched.
func (e *Engine) ToggleColumn(field string) error {
	if err := e.requireColumn(field); err != nil {
		return err
	}
	if e.visible[field] {
		delete(e.visible, field)
	} else {
		e.visible[field] = true
	}
	return nil
}

// Columns returns every column of the current dataset in declared order
func (e *Engine) Columns() []Column {
	if e.current == nil {
		return nil
	}
	return slices.Clone(e.current.Columns)
}

// VisibleColumns returns the shown columns in declared order
func (e *Engine) VisibleColumns() []Column {
	if e.current == nil {
		return nil
	}
	out := make([]Column, 0, len(e.visible))
	for _, c := range e.current.Columns {
		if e.visible[c.Field] {
			out = append(out, c)
		}
	}
	return out
}

// Rows returns every visible row in sort order
func (e *Engine) Rows() []Row {
	return slices.Clone(e.rows)
}

// SetPageSize changes the page size and returns to the first page
func (e *Engine) SetPageSize(n int) error {
	if !slices.Contains(PageSizes, n) {
		return fmt.Errorf("%w: %d", ErrPageSize, n)
	}
	e.pageSize = n
	e.page = 1
	return nil
}

// PageSize returns the current page size
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Pages returns the page count; an empty result still has one page
func (e *Engine) Pages() int {
	if len(e.rows) == 0 {
		return 1
	}
	return (len(e.rows) + e.pageSize - 1) / e.pageSize
}

// Page moves to page n, clamped to the valid range, and returns it
func (e *Engine) Page(n int) Page {
	e.page = max(1, min(n, e.Pages()))
	return e.CurrentPage()
}

// CurrentPage returns the page last moved to
func (e *Engine) CurrentPage() Page {
	start := (e.page - 1) * e.pageSize
	end := min(start+e.pageSize, len(e.rows))
	rows := []Row{}
	if start < end {
		rows = slices.Clone(e.rows[start:end])
	}
	return Page{
		Number:    e.page,
		Size:      e.pageSize,
		Pages:     e.Pages(),
		TotalRows: len(e.rows),
		Rows:      rows,
	}
}

// SortBy orders rows by a column. Numeric columns compare as numbers, the
// rest as case-insensitive text. An empty field restores fixture order.
func (e *Engine) SortBy(field string, desc bool) error {
	if field != "" {
		if err := e.requireColumn(field); err != nil {
			return err
		}
	}
	e.sort = Sort{Field: field, Desc: desc}
	e.recompute()
	return nil
}

// Sorting returns the current sort
func (e *Engine) Sorting() Sort {
	return e.sort
}

// Open hands a visible row's ID to the open handler
func (e *Engine) Open(id string) error {
	if e.current == nil {
		return ErrNoDataset
	}
	idField := e.current.IDField
	if idField == "" {
		idField = domain.FieldID
	}
	for _, row := range e.rows {
		if Text(row[idField]) == id {
			e.log.Debug().Str("dataset", e.current.Name).Str("row_id", id).Msg("Row opened")
			if e.onOpen == nil {
				return nil
			}
			return e.onOpen(id)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownRow, id)
}

func (e *Engine) requireColumn(field string) error {
	if e.current == nil {
		return ErrNoDataset
	}
	if _, ok := e.current.column(field); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	return nil
}

// recompute rebuilds the visible rows and clamps the page
func (e *Engine) recompute() {
	e.rows = e.rows[:0]
	if e.current == nil {
		return
	}
	for _, row := range e.current.Rows {
		if matchAny(e.searchSet, row) && matchAll(e.filters, row) {
			e.rows = append(e.rows, row)
		}
	}
	if e.sort.Field != "" {
		col, _ := e.current.column(e.sort.Field)
		slices.SortStableFunc(e.rows, func(a, b Row) int {
			c := compare(col, a[col.Field], b[col.Field])
			if e.sort.Desc {
				return -c
			}
			return c
		})
	}
	e.page = max(1, min(e.page, e.Pages()))
}

// compare orders two raw values; missing values sort first
func compare(col Column, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if col.Numeric {
		fa, okA := number(a)
		fb, okB := number(b)
		if okA && okB {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(strings.ToLower(Text(a)), strings.ToLower(Text(b)))
}
