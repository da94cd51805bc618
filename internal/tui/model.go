package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"netmap/internal/domain"
	"netmap/internal/hub"
	"netmap/internal/service"
	"netmap/internal/table"
	"netmap/internal/view"
)

type tab int

const (
	mapTab tab = iota
	tableTab
)

var tabNames = []string{"Map", "Devices"}

const (
	headerLines = 2
	footerLines = 2
	// wheelStep is the pixel delta one wheel notch reports
	wheelStep = 100
)

type (
	frameMsg     view.Frame
	selectionMsg service.Selection
	closedMsg    struct{}
)

// ThemeFunc persists a theme change
type ThemeFunc func(dark bool) error

// Options configures the terminal UI
type Options struct {
	Dark    bool
	OnTheme ThemeFunc
	Logger  zerolog.Logger
}

// Model is the bubbletea model of one session
type Model struct {
	session *service.Session
	client  *hub.Client
	scopes  []string

	keys   keyMap
	help   help.Model
	styles styles
	dark   bool

	onTheme ThemeFunc
	log     zerolog.Logger

	tab       tab
	width     int
	height    int
	frame     view.Frame
	selection *service.Selection

	// dragPane is the pane a mouse press landed in until it is released
	dragPane view.PaneID

	devices   btable.Model
	search    textinput.Model
	searching bool
	column    int
	state     table.State

	status string
	err    error
}

// New creates a model over an open session and subscribes to its frames
func New(s *service.Session, opts Options) (Model, error) {
	client, ok := s.Hub().Subscribe()
	if !ok {
		return Model{}, view.ErrClosed
	}

	var scopes []string
	_ = s.Do(func(r *view.Renderer) error {
		scopes = r.Catalog().Scopes()
		return nil
	})
	s.SetDark(opts.Dark)

	ti := textinput.New()
	ti.Placeholder = "Search visible columns..."
	ti.CharLimit = 128
	ti.Width = 40

	devices := btable.New(btable.WithFocused(true))

	m := Model{
		session: s,
		client:  client,
		scopes:  scopes,
		keys:    keys,
		help:    help.New(),
		styles:  newStyles(opts.Dark),
		dark:    opts.Dark,
		onTheme: opts.OnTheme,
		log:     opts.Logger,
		frame:   s.Frame(),
		devices: devices,
		search:  ti,
	}
	m.refreshTable()
	return m, nil
}

// Close drops the model's hub subscription
func (m Model) Close() {
	m.session.Hub().Unsubscribe(m.client)
}

func waitForEvent(c *hub.Client) tea.Cmd {
	return func() tea.Msg {
		for msg := range c.Events() {
			switch msg.Type {
			case hub.EventFrame:
				var f view.Frame
				if err := json.Unmarshal(msg.Data, &f); err == nil {
					return frameMsg(f)
				}
			case hub.EventSelection:
				var sel service.Selection
				if err := json.Unmarshal(msg.Data, &sel); err == nil {
					return selectionMsg(sel)
				}
			case hub.EventClosed:
				return closedMsg{}
			}
		}
		return closedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.client)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizePanes()
		m.refreshTable()
		return m, nil

	case frameMsg:
		m.frame = view.Frame(msg)
		if m.frame.Selected == "" {
			m.selection = nil
		}
		return m, waitForEvent(m.client)

	case selectionMsg:
		sel := service.Selection(msg)
		if sel.ID == "" {
			m.selection = nil
		} else {
			m.selection = &sel
		}
		return m, waitForEvent(m.client)

	case closedMsg:
		return m, tea.Quit

	case tea.MouseMsg:
		if m.tab == mapTab {
			m.mouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % tab(len(tabNames))
			if m.tab == tableTab {
				m.refreshTable()
			}
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.tab == mapTab {
			return m.updateMap(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m *Model) toggleTheme() {
	m.dark = !m.dark
	m.session.SetDark(m.dark)
	m.styles = newStyles(m.dark)
	if m.onTheme != nil {
		if err := m.onTheme(m.dark); err != nil {
			m.log.Warn().Err(err).Msg("Failed to persist theme")
			m.err = err
			return
		}
	}
	m.status = "theme: " + themeName(m.dark)
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func (m Model) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextScope):
		m.stepScope(1)
	case key.Matches(msg, m.keys.PrevScope):
		m.stepScope(-1)
	case key.Matches(msg, m.keys.Fit):
		m.setErr(m.session.FitView(view.PaneMain))
	case key.Matches(msg, m.keys.FitSidebar):
		m.setErr(m.session.FitView(view.PaneSidebar))
	case key.Matches(msg, m.keys.Close):
		m.session.CloseSidebar()
		m.selection = nil
	}
	return m, nil
}

func (m *Model) stepScope(delta int) {
	if len(m.scopes) == 0 {
		return
	}
	i := slices.Index(m.scopes, m.frame.Scope)
	i = (i + delta + len(m.scopes)) % len(m.scopes)
	if err := m.session.SetScope(m.scopes[i]); err != nil {
		m.setErr(err)
		return
	}
	m.frame = m.session.Frame()
	m.status = "scope: " + m.scopes[i]
}

func (m *Model) setErr(err error) {
	m.err = err
	if err == nil {
		m.status = ""
	}
}

// layout is the map tab's geometry in cells
type layout struct {
	mainW, sideW int
	paneH        int
	sideCanvasH  int
}

func (m Model) layout() layout {
	paneH := max(m.height-headerLines-footerLines-2, 1)
	sideW := max(m.width/3-2, 1)
	mainW := max(m.width-sideW-4, 1)
	return layout{mainW: mainW, sideW: sideW, paneH: paneH, sideCanvasH: max(paneH/2, 1)}
}

func (m *Model) resizePanes() {
	l := m.layout()
	m.setErr(m.session.Resize(service.ResizeInput{
		Pane:   view.PaneMain,
		Width:  float64(l.mainW) * CellWidth,
		Height: float64(l.paneH) * CellHeight,
	}))
	m.setErr(m.session.Resize(service.ResizeInput{
		Pane:   view.PaneSidebar,
		Width:  float64(l.sideW) * CellWidth,
		Height: float64(l.sideCanvasH) * CellHeight,
	}))
}

// paneAt maps a terminal cell to a pane and a cell inside it
func (m Model) paneAt(x, y int) (view.PaneID, int, int, bool) {
	l := m.layout()
	row := y - headerLines - 1
	if row < 0 || row >= l.paneH {
		return "", 0, 0, false
	}
	if col := x - 1; col >= 0 && col < l.mainW {
		return view.PaneMain, col, row, true
	}
	if col := x - l.mainW - 3; col >= 0 && col < l.sideW && row < l.sideCanvasH {
		return view.PaneSidebar, col, row, true
	}
	return "", 0, 0, false
}

// paneCell maps a terminal cell into a given pane, inside or not
func (m Model) paneCell(pane view.PaneID, x, y int) (int, int) {
	row := y - headerLines - 1
	if pane == view.PaneSidebar {
		return x - m.layout().mainW - 3, row
	}
	return x - 1, row
}

func (m *Model) mouse(msg tea.MouseMsg) {
	var in service.PointerInput
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		pane, col, row, ok := m.paneAt(msg.X, msg.Y)
		if !ok {
			return
		}
		px, py := ToPixel(col, row)
		delta := float64(wheelStep)
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -delta
		}
		in = service.PointerInput{Type: service.PointerWheel, Pane: pane, X: px, Y: py, DeltaY: delta}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		pane, col, row, ok := m.paneAt(msg.X, msg.Y)
		if !ok {
			return
		}
		m.dragPane = pane
		px, py := ToPixel(col, row)
		in = service.PointerInput{Type: service.PointerDown, Pane: pane, X: px, Y: py}

	case msg.Action == tea.MouseActionMotion && m.dragPane != "":
		px, py := ToPixel(m.paneCell(m.dragPane, msg.X, msg.Y))
		in = service.PointerInput{Type: service.PointerMove, Pane: m.dragPane, X: px, Y: py}

	case msg.Action == tea.MouseActionRelease && m.dragPane != "":
		px, py := ToPixel(m.paneCell(m.dragPane, msg.X, msg.Y))
		in = service.PointerInput{Type: service.PointerUp, Pane: m.dragPane, X: px, Y: py}
		m.dragPane = ""

	default:
		return
	}

	if _, err := m.session.Pointer(in); err != nil && !errors.Is(err, view.ErrPaneClosed) {
		m.err = err
	}
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.search.Value()
		m.searching = false
		m.search.Blur()
		m.tableOp(func(e *table.Engine) error {
			e.SetSearch(text)
			return nil
		})
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.state.Search)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.state.Search)
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Open):
		id, ok := m.cursorRowID()
		if !ok {
			return m, nil
		}
		if err := m.session.Table(func(e *table.Engine) error { return e.Open(id) }); err != nil {
			m.setErr(err)
			return m, nil
		}
		m.tab = mapTab
		m.frame = m.session.Frame()
		m.status = "selected: " + id
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.column = max(m.column-1, 0)
		m.refreshTable()
	case key.Matches(msg, m.keys.Right):
		m.column = min(m.column+1, max(len(m.visibleColumns())-1, 0))
		m.refreshTable()

	case key.Matches(msg, m.keys.Filter):
		if field, value, ok := m.cursorCell(); ok {
			m.tableOp(func(e *table.Engine) error { return e.AddCellFilter(field, value) })
		}
	case key.Matches(msg, m.keys.Unfilter):
		if _, value, ok := m.cursorCell(); ok {
			m.tableOp(func(e *table.Engine) error {
				e.RemoveCellFilter(value)
				return nil
			})
		}
	case key.Matches(msg, m.keys.ClearAll):
		m.tableOp(func(e *table.Engine) error {
			e.ClearAll()
			return nil
		})

	case key.Matches(msg, m.keys.Column):
		if cols := m.visibleColumns(); m.column < len(cols) {
			field := cols[m.column].Field
			m.column = min(m.column, max(len(cols)-2, 0))
			m.tableOp(func(e *table.Engine) error { return e.ToggleColumn(field) })
		}

	case key.Matches(msg, m.keys.Sort):
		if cols := m.visibleColumns(); m.column < len(cols) {
			next := nextSort(m.state.Sort, cols[m.column].Field)
			m.tableOp(func(e *table.Engine) error { return e.SortBy(next.Field, next.Desc) })
		}

	case key.Matches(msg, m.keys.NextPage):
		n := m.state.Page.Number + 1
		m.tableOp(func(e *table.Engine) error {
			e.Page(n)
			return nil
		})
	case key.Matches(msg, m.keys.PrevPage):
		n := m.state.Page.Number - 1
		m.tableOp(func(e *table.Engine) error {
			e.Page(n)
			return nil
		})
	case key.Matches(msg, m.keys.PageSize):
		i := slices.Index(table.PageSizes, m.state.Page.Size)
		size := table.PageSizes[(i+1)%len(table.PageSizes)]
		m.tableOp(func(e *table.Engine) error { return e.SetPageSize(size) })

	case key.Matches(msg, m.keys.NextDataset):
		m.stepDataset(1)
	case key.Matches(msg, m.keys.PrevDataset):
		m.stepDataset(-1)

	default:
		var cmd tea.Cmd
		m.devices, cmd = m.devices.Update(msg)
		return m, cmd
	}
	return m, nil
}

// nextSort cycles a column through ascending, descending and unsorted
func nextSort(cur table.Sort, field string) table.Sort {
	switch {
	case cur.Field != field:
		return table.Sort{Field: field}
	case !cur.Desc:
		return table.Sort{Field: field, Desc: true}
	default:
		return table.Sort{}
	}
}

func (m *Model) stepDataset(delta int) {
	names := m.state.Datasets
	if len(names) == 0 {
		return
	}
	i := slices.Index(names, m.state.Dataset)
	name := names[(i+delta+len(names))%len(names)]
	m.tableOp(func(e *table.Engine) error { return e.SetDataset(name) })
	m.column = 0
}

func (m *Model) tableOp(fn func(*table.Engine) error) {
	m.setErr(m.session.Table(fn))
	m.refreshTable()
}

func (m Model) visibleColumns() []table.Column {
	var cols []table.Column
	for _, c := range m.state.Columns {
		if c.Visible {
			cols = append(cols, c.Column)
		}
	}
	return cols
}

func (m Model) cursorRowID() (string, bool) {
	rows := m.state.Page.Rows
	i := m.devices.Cursor()
	if i < 0 || i >= len(rows) {
		return "", false
	}
	return table.Text(rows[i][domain.FieldID]), true
}

// cursorCell returns the field and raw text under the cursor
func (m Model) cursorCell() (string, string, bool) {
	rows := m.state.Page.Rows
	cols := m.visibleColumns()
	i := m.devices.Cursor()
	if i < 0 || i >= len(rows) || m.column >= len(cols) {
		return "", "", false
	}
	field := cols[m.column].Field
	raw, ok := rows[i][field]
	if !ok || raw == nil {
		return "", "", false
	}
	return field, table.Text(raw), true
}

func (m *Model) refreshTable() {
	m.state = m.session.TableState()

	var cols []btable.Column
	for i, c := range m.visibleColumns() {
		title := c.Title
		if m.state.Sort.Field == c.Field {
			if m.state.Sort.Desc {
				title += " ↓"
			} else {
				title += " ↑"
			}
		}
		if i == m.column {
			title = "[" + title + "]"
		}
		cols = append(cols, btable.Column{Title: title, Width: max(int(float64(c.Width)/CellWidth), 4)})
	}

	rows := make([]btable.Row, 0, len(m.state.Cells))
	for _, cells := range m.state.Cells {
		rows = append(rows, btable.Row(cells))
	}

	// columns and rows must agree in length, so clear rows first
	m.devices.SetRows(nil)
	m.devices.SetColumns(cols)
	m.devices.SetRows(rows)
	m.devices.SetHeight(max(m.height-headerLines-footerLines-4, 5))
	if c := m.devices.Cursor(); c >= len(rows) {
		m.devices.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	switch m.tab {
	case mapTab:
		b.WriteString(m.renderMap())
	case tableTab:
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if tab(i) == m.tab {
			tabs = append(tabs, m.styles.activeTab.Render(name))
		} else {
			tabs = append(tabs, m.styles.inactiveTab.Render(name))
		}
	}
	title := m.styles.title.Render("netmap")
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, " "}, tabs...)...)
}

func (m Model) renderStatus() string {
	parts := []string{"scope: " + m.frame.Scope, "theme: " + themeName(m.dark)}
	if m.frame.Main.Running {
		parts = append(parts, "settling")
	}
	line := m.styles.hint.Render(strings.Join(parts, "  "))
	switch {
	case m.err != nil:
		line += "  " + m.styles.errorMsg.Render(m.err.Error())
	case m.status != "":
		line += "  " + m.styles.successMsg.Render(m.status)
	}
	return line
}

func (m Model) renderMap() string {
	l := m.layout()
	edge := paletteFor(m.dark).Edge

	main := NewCanvas(l.mainW, l.paneH)
	main.Paint(m.frame.Main, edge)
	left := m.styles.pane.Render(main.Render())

	var side strings.Builder
	if m.frame.Sidebar != nil {
		c := NewCanvas(l.sideW, l.sideCanvasH)
		c.Paint(*m.frame.Sidebar, edge)
		side.WriteString(c.Render())
	} else {
		side.WriteString(m.styles.hint.Width(l.sideW).Height(l.sideCanvasH).Render(m.frame.Hint))
	}
	if m.selection != nil {
		side.WriteString("\n")
		for _, d := range m.selection.Details {
			side.WriteString(m.styles.detailKey.Render(d.Key+": ") + d.Value + "\n")
		}
	}
	right := m.styles.pane.Width(l.sideW).Height(l.paneH).Render(side.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderTable() string {
	var b strings.Builder

	dataset := fmt.Sprintf("dataset: %s (%d/%d)", m.state.Dataset,
		slices.Index(m.state.Datasets, m.state.Dataset)+1, len(m.state.Datasets))
	b.WriteString(m.styles.detailKey.Render(dataset))
	b.WriteString("  ")
	if m.searching {
		b.WriteString(m.search.View())
	} else if m.state.Search != "" {
		b.WriteString(m.styles.chip.Render("search: " + m.state.Search))
	}
	for _, f := range m.state.Filters {
		b.WriteString(" ")
		b.WriteString(m.styles.chip.Render(f.Field + " = " + f.Value))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.pane.Render(m.devices.View()))
	b.WriteString("\n")
	p := m.state.Page
	b.WriteString(m.styles.hint.Render(fmt.Sprintf("page %d/%d  %d rows  %d per page",
		p.Number, p.Pages, p.TotalRows, p.Size)))
	return b.String()
}
