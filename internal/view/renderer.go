package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"netmap/internal/domain"
	"netmap/internal/graph"
	"netmap/internal/interaction"
	"netmap/internal/simulation"
)

var (
	// ErrUnknownScope is returned for a scope that is neither "all" nor a floor
	ErrUnknownScope = errors.New("unknown scope")
	// ErrUnknownPane is returned for a pane name other than main or sidebar
	ErrUnknownPane = errors.New("unknown pane")
	// ErrPaneClosed is returned when addressing the sidebar while it is closed
	ErrPaneClosed = errors.New("pane closed")
	// ErrUnknownNode is returned when selecting an ID no dataset contains
	ErrUnknownNode = errors.New("unknown node")
	// ErrClosed is returned by operations on a closed renderer
	ErrClosed = errors.New("renderer closed")
)

// SidebarHint is shown in place of the ego view while nothing is selected
const SidebarHint = "Click a node in the map above to update the sidebar with that node and its connections."

const (
	// resizeAlpha is the minimum temperature after a pane resize
	resizeAlpha = 0.1

	DefaultFitPadding = 40
)

// ZoomRange bounds a pane's scale
type ZoomRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Default zoom ranges
var (
	DefaultMainZoom    = ZoomRange{Min: 0.1, Max: 4}
	DefaultSidebarZoom = ZoomRange{Min: 0.5, Max: 3}
)

// Theme reports the host's color scheme
type Theme interface {
	Dark() bool
}

// StaticTheme is a fixed theme
type StaticTheme bool

// Dark reports whether the theme is dark
func (t StaticTheme) Dark() bool {
	return bool(t)
}

// SelectionFunc is called when the selection changes. An empty ID means cleared.
type SelectionFunc func(id string)

// Options configures a Renderer
type Options struct {
	Theme       Theme
	Interaction interaction.Config
	FitPadding  float64
	MainZoom    ZoomRange
	SidebarZoom ZoomRange

	// Presets by name; missing entries fall back to the built-ins
	Presets map[string]simulation.Preset

	MainWidth, MainHeight       float64
	SidebarWidth, SidebarHeight float64

	// DetailFilter hides extra keys from Details when it returns false
	DetailFilter func(key string) bool

	Observer simulation.Observer
	Logger   zerolog.Logger
}

// DefaultOptions returns options with the standard presets and sizes
func DefaultOptions() Options {
	return Options{
		Theme:         StaticTheme(false),
		Interaction:   interaction.DefaultConfig(),
		FitPadding:    DefaultFitPadding,
		MainZoom:      DefaultMainZoom,
		SidebarZoom:   DefaultSidebarZoom,
		Presets:       simulation.Presets(),
		MainWidth:     960,
		MainHeight:    600,
		SidebarWidth:  320,
		SidebarHeight: 320,
		Logger:        zerolog.Nop(),
	}
}

func (o *Options) fill() {
	def := DefaultOptions()
	if o.Theme == nil {
		o.Theme = def.Theme
	}
	if o.Interaction == (interaction.Config{}) {
		o.Interaction = def.Interaction
	}
	if o.FitPadding == 0 {
		o.FitPadding = def.FitPadding
	}
	if o.MainZoom == (ZoomRange{}) {
		o.MainZoom = def.MainZoom
	}
	if o.SidebarZoom == (ZoomRange{}) {
		o.SidebarZoom = def.SidebarZoom
	}
	if o.Presets == nil {
		o.Presets = make(map[string]simulation.Preset)
	}
	for name, p := range def.Presets {
		if _, ok := o.Presets[name]; !ok {
			o.Presets[name] = p
		}
	}
	if o.MainWidth <= 0 || o.MainHeight <= 0 {
		o.MainWidth, o.MainHeight = def.MainWidth, def.MainHeight
	}
	if o.SidebarWidth <= 0 || o.SidebarHeight <= 0 {
		o.SidebarWidth, o.SidebarHeight = def.SidebarWidth, def.SidebarHeight
	}
}

// Renderer owns the main pane, the optional sidebar ego pane and the
// selection. It is not safe for concurrent use; wrap it in a Driver.
type Renderer struct {
	catalog *domain.Catalog
	opts    Options
	log     zerolog.Logger

	scope   string
	main    *pane
	sidebar *pane

	selected    *domain.Device
	sidebarOpen bool
	egoPending  bool

	seq      uint64
	dirty    bool
	closed   bool
	onSelect []SelectionFunc
}

// New creates a renderer showing every floor
func New(catalog *domain.Catalog, opts Options) (*Renderer, error) {
	opts.fill()
	for name, p := range opts.Presets {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
	}

	r := &Renderer{
		catalog: catalog,
		opts:    opts,
		log:     opts.Logger,
		main:    newPane(PaneMain, opts.MainZoom, opts.Interaction, opts.MainWidth, opts.MainHeight),
		sidebar: newPane(PaneSidebar, opts.SidebarZoom, opts.Interaction, opts.SidebarWidth, opts.SidebarHeight),
	}
	if err := r.SetScope(domain.ScopeAll); err != nil {
		return nil, err
	}
	return r, nil
}

// OnSelect registers a selection listener
func (r *Renderer) OnSelect(fn SelectionFunc) {
	r.onSelect = append(r.onSelect, fn)
}

// Catalog returns the fixture catalog
func (r *Renderer) Catalog() *domain.Catalog {
	return r.catalog
}

// Scope returns the current scope name
func (r *Renderer) Scope() string {
	return r.scope
}

// SetTheme replaces the theme
func (r *Renderer) SetTheme(t Theme) {
	r.opts.Theme = t
	r.dirty = true
}

// Dark reports whether the current theme is dark
func (r *Renderer) Dark() bool {
	return r.opts.Theme.Dark()
}

func (r *Renderer) simOptions() []simulation.Option {
	if r.opts.Observer == nil {
		return nil
	}
	return []simulation.Option{simulation.WithObserver(r.opts.Observer)}
}

// SetScope switches the main view to all floors or one floor. Single floors
// exclude the core node. Leaving a floor for all floors clears the selection;
// switching floors with a selection rebuilds the ego view on the next frame.
func (r *Renderer) SetScope(scope string) error {
	if r.closed {
		return ErrClosed
	}
	devices, err := r.catalog.Devices(scope)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownScope, scope)
	}

	presetName := simulation.PresetFloor
	var exclude []string
	if scope == domain.ScopeAll {
		presetName = simulation.PresetAllFloors
	} else {
		exclude = []string{domain.TagCore}
	}

	r.main.load(graph.Build(devices, exclude...), r.opts.Presets[presetName], r.simOptions()...)
	r.main.viewport.Reset()
	r.scope = scope
	r.dirty = true

	r.log.Info().
		Str("scope", scope).
		Int("nodes", r.main.graph.Len()).
		Int("edges", len(r.main.graph.Edges)).
		Str("preset", presetName).
		Msg("Scope switched")

	if scope == domain.ScopeAll {
		r.clearSelection()
	} else if r.selected != nil {
		r.scheduleEgo()
	}
	return nil
}

// Select makes id the selection. Selecting the current selection is a no-op.
// The ego view is built on the next frame so the host can report the
// sidebar's size first.
func (r *Renderer) Select(id string) error {
	if r.closed {
		return ErrClosed
	}
	if r.selected != nil && r.selected.ID == id {
		return nil
	}
	var focus domain.Device
	if n, ok := r.main.graph.Node(id); ok {
		focus = n.Device.Clone()
	} else if dev, ok := r.catalog.FindDevice(id); ok {
		focus = dev.Clone()
	} else {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	r.selected = &focus
	r.sidebarOpen = true
	r.scheduleEgo()

	r.log.Debug().Str("node_id", id).Str("scope", r.scope).Msg("Node selected")
	r.notify(id)
	return nil
}

func (r *Renderer) scheduleEgo() {
	r.sidebar.stop()
	r.sidebar.machine.Cancel()
	r.egoPending = true
	r.dirty = true
}

// CloseSidebar stops the ego simulation and clears the selection
func (r *Renderer) CloseSidebar() {
	r.clearSelection()
}

func (r *Renderer) clearSelection() {
	hadSelection := r.selected != nil
	r.sidebar.stop()
	r.sidebar.machine.Cancel()
	r.sidebar.graph = graph.Build(nil)
	r.sidebar.sim = nil
	r.selected = nil
	r.sidebarOpen = false
	r.egoPending = false
	r.dirty = true
	if hadSelection {
		r.notify("")
	}
}

func (r *Renderer) notify(id string) {
	for _, fn := range r.onSelect {
		fn(id)
	}
}

// buildEgo constructs the sidebar graph around the selection. The focus
// starts at the center with its neighbors on a circle at link distance.
func (r *Renderer) buildEgo() {
	r.egoPending = false
	if r.selected == nil {
		return
	}
	preset := r.opts.Presets[simulation.PresetSidebar]
	ego := graph.Ego(*r.selected, r.main.graph)

	cx, cy := r.sidebar.width/2, r.sidebar.height/2
	neighbors := ego.Len() - 1
	step := 0.0
	if neighbors > 0 {
		step = 2 * math.Pi / float64(neighbors)
	}
	i := 0
	for _, n := range ego.Nodes {
		if n.ID() == r.selected.ID {
			n.Place(cx, cy)
			continue
		}
		angle := float64(i) * step
		n.Place(cx+preset.LinkDistance*math.Cos(angle), cy+preset.LinkDistance*math.Sin(angle))
		i++
	}

	r.sidebar.load(ego, preset, r.simOptions()...)
	r.sidebar.viewport.Reset()

	r.log.Debug().
		Str("node_id", r.selected.ID).
		Int("neighbors", neighbors).
		Msg("Ego view built")
}

// Selection returns the selected device
func (r *Renderer) Selection() (domain.Device, bool) {
	if r.selected == nil {
		return domain.Device{}, false
	}
	return r.selected.Clone(), true
}

// SidebarOpen reports whether the ego view is shown
func (r *Renderer) SidebarOpen() bool {
	return r.sidebarOpen
}

func (r *Renderer) pane(id PaneID) (*pane, error) {
	switch id {
	case PaneMain:
		return r.main, nil
	case PaneSidebar:
		if !r.sidebarOpen {
			return nil, fmt.Errorf("%w: %s", ErrPaneClosed, id)
		}
		return r.sidebar, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPane, id)
	}
}

// Resize records a pane's size, recenters its forces and nudges the
// simulation so the layout adapts. The sidebar size is kept while closed.
func (r *Renderer) Resize(id PaneID, width, height float64) error {
	if r.closed {
		return ErrClosed
	}
	var p *pane
	switch id {
	case PaneMain:
		p = r.main
	case PaneSidebar:
		p = r.sidebar
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPane, id)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %gx%g", width, height)
	}
	p.resize(width, height)
	r.dirty = true
	return nil
}

// FitView frames every node of a pane. Degenerate layouts are left alone.
func (r *Renderer) FitView(id PaneID) error {
	if r.closed {
		return ErrClosed
	}
	p, err := r.pane(id)
	if err != nil {
		return err
	}
	if p.viewport.Fit(p.graph.Bounds(), p.width, p.height, r.opts.FitPadding) {
		r.dirty = true
	}
	return nil
}

// Machine returns a pane's gesture machine
func (r *Renderer) Machine(id PaneID) (*interaction.Machine, error) {
	p, err := r.pane(id)
	if err != nil {
		return nil, err
	}
	return p.machine, nil
}

// PointerDown forwards a press on a pane, in screen coordinates
func (r *Renderer) PointerDown(id PaneID, x, y float64) error {
	p, err := r.activePane(id)
	if err != nil {
		return err
	}
	p.machine.PointerDown(x, y)
	r.dirty = true
	return nil
}

// PointerMove forwards pointer motion on a pane
func (r *Renderer) PointerMove(id PaneID, x, y float64) error {
	p, err := r.activePane(id)
	if err != nil {
		return err
	}
	if p.machine.State() != interaction.StateIdle {
		p.machine.PointerMove(x, y)
		r.dirty = true
	}
	return nil
}

// PointerUp completes a gesture. A click selects the node under the pointer.
func (r *Renderer) PointerUp(id PaneID, x, y float64) (interaction.Event, error) {
	p, err := r.activePane(id)
	if err != nil {
		return interaction.Event{}, err
	}
	return r.handle(p.machine.PointerUp(x, y))
}

// PointerCancel completes a gesture at the last known pointer position
func (r *Renderer) PointerCancel(id PaneID) (interaction.Event, error) {
	p, err := r.activePane(id)
	if err != nil {
		return interaction.Event{}, err
	}
	return r.handle(p.machine.Cancel())
}

// Wheel zooms a pane around a screen point
func (r *Renderer) Wheel(id PaneID, x, y, deltaY float64) error {
	p, err := r.activePane(id)
	if err != nil {
		return err
	}
	p.machine.Wheel(x, y, deltaY)
	r.dirty = true
	return nil
}

func (r *Renderer) activePane(id PaneID) (*pane, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.pane(id)
}

func (r *Renderer) handle(ev interaction.Event) (interaction.Event, error) {
	r.dirty = true
	if ev.Kind == interaction.EventClick && ev.NodeID != "" {
		if err := r.Select(ev.NodeID); err != nil {
			return ev, err
		}
	}
	return ev, nil
}

// Active reports whether a frame would change anything
func (r *Renderer) Active() bool {
	if r.closed {
		return false
	}
	return r.dirty || r.egoPending || r.main.running() || (r.sidebarOpen && r.sidebar.running())
}

// Frame runs deferred work, advances every running simulation one tick and
// returns the resulting snapshot.
func (r *Renderer) Frame() Frame {
	if !r.closed {
		if r.egoPending {
			r.buildEgo()
		}
		r.main.step()
		if r.sidebarOpen {
			r.sidebar.step()
		}
	}
	r.seq++
	r.dirty = false
	return r.Snapshot()
}

// Settle steps every simulation until it completes or maxSteps is reached
func (r *Renderer) Settle(maxSteps int) {
	if r.closed {
		return
	}
	if r.egoPending {
		r.buildEgo()
	}
	if r.main.sim != nil {
		r.main.sim.Settle(maxSteps)
	}
	if r.sidebarOpen && r.sidebar.sim != nil {
		r.sidebar.sim.Settle(maxSteps)
	}
	r.dirty = true
}

// Close stops every simulation. Later calls are no-ops.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.main.stop()
	r.sidebar.stop()
	r.closed = true
	r.log.Debug().Str("scope", r.scope).Msg("Renderer closed")
}

// Closed reports whether Close has been called
func (r *Renderer) Closed() bool {
	return r.closed
}
