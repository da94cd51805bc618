package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"netmap/internal/hub"
	"netmap/internal/interaction"
	"netmap/internal/metrics"
	"netmap/internal/table"
	"netmap/internal/view"
)

// Pointer input types
const (
	PointerDown   = "down"
	PointerMove   = "move"
	PointerUp     = "up"
	PointerCancel = "cancel"
	PointerWheel  = "wheel"
)

// ErrInvalidInput is returned for malformed pointer or resize input
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

// PointerInput is one pointer event in a pane's screen coordinates
type PointerInput struct {
	Type   string      `json:"type" validate:"required,oneof=down move up cancel wheel"`
	Pane   view.PaneID `json:"pane" validate:"required"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	DeltaY float64     `json:"deltaY"`
}

// ResizeInput reports a pane's new size
type ResizeInput struct {
	Pane   view.PaneID `json:"pane" validate:"required"`
	Width  float64     `json:"width" validate:"gt=0"`
	Height float64     `json:"height" validate:"gt=0"`
}

// Selection is the payload of selection events
type Selection struct {
	ID      string        `json:"id"`
	Details []view.Detail `json:"details"`
}

// Session is one viewer: a renderer behind its driver, a table engine and
// the hub its frames stream through.
type Session struct {
	id      string
	created time.Time

	driver *view.Driver
	hub    *hub.Hub

	tableMu sync.Mutex
	table   *table.Engine

	metrics *metrics.Registry
	bus     *EventBus
	cancel  context.CancelFunc
	done    chan struct{}
	log     zerolog.Logger
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Created returns when the session was opened
func (s *Session) Created() time.Time {
	return s.created
}

// Hub returns the session's event hub
func (s *Session) Hub() *hub.Hub {
	return s.hub
}

// Done is closed once the session's loops have stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Do runs fn with exclusive access to the renderer
func (s *Session) Do(fn func(*view.Renderer) error) error {
	return s.driver.Do(fn)
}

// Frame returns the current frame without advancing anything
func (s *Session) Frame() view.Frame {
	return s.driver.Snapshot()
}

// Table runs fn with exclusive access to the table engine
func (s *Session) Table(fn func(*table.Engine) error) error {
	s.tableMu.Lock()
	defer s.tableMu.Unlock()
	return fn(s.table)
}

// TableState returns the table's current view
func (s *Session) TableState() table.State {
	var st table.State
	_ = s.Table(func(e *table.Engine) error {
		st = e.State()
		return nil
	})
	return st
}

// Selection returns the selected node and its details
func (s *Session) Selection() (Selection, bool) {
	var sel Selection
	var ok bool
	_ = s.Do(func(r *view.Renderer) error {
		dev, found := r.Selection()
		if found {
			sel = Selection{ID: dev.ID, Details: r.Details()}
			ok = true
		}
		return nil
	})
	return sel, ok
}

// Pointer forwards one pointer event and returns the completed gesture, if any
func (s *Session) Pointer(in PointerInput) (interaction.Event, error) {
	if err := validate.Struct(in); err != nil {
		return interaction.Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var ev interaction.Event
	err := s.Do(func(r *view.Renderer) error {
		var err error
		switch in.Type {
		case PointerDown:
			err = r.PointerDown(in.Pane, in.X, in.Y)
		case PointerMove:
			err = r.PointerMove(in.Pane, in.X, in.Y)
		case PointerUp:
			ev, err = r.PointerUp(in.Pane, in.X, in.Y)
		case PointerCancel:
			ev, err = r.PointerCancel(in.Pane)
		case PointerWheel:
			err = r.Wheel(in.Pane, in.X, in.Y, in.DeltaY)
		}
		return err
	})
	if ev.Kind != interaction.EventNone {
		s.metrics.RecordGesture(string(ev.Kind))
	}
	return ev, err
}

// Resize records a pane's size
func (s *Session) Resize(in ResizeInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.Do(func(r *view.Renderer) error {
		return r.Resize(in.Pane, in.Width, in.Height)
	})
}

// SetScope switches the main view to a floor or to every floor
func (s *Session) SetScope(scope string) error {
	if err := s.Do(func(r *view.Renderer) error {
		return r.SetScope(scope)
	}); err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventScopeChanged, SessionID: s.id, Payload: scope})
	return nil
}

// Select selects a node by ID
func (s *Session) Select(id string) error {
	return s.Do(func(r *view.Renderer) error {
		return r.Select(id)
	})
}

// CloseSidebar clears the selection
func (s *Session) CloseSidebar() {
	_ = s.Do(func(r *view.Renderer) error {
		r.CloseSidebar()
		return nil
	})
}

// FitView frames every node of a pane
func (s *Session) FitView(pane view.PaneID) error {
	return s.Do(func(r *view.Renderer) error {
		return r.FitView(pane)
	})
}

// SetDark switches the session's color scheme
func (s *Session) SetDark(dark bool) {
	_ = s.Do(func(r *view.Renderer) error {
		r.SetTheme(view.StaticTheme(dark))
		return nil
	})
}

func (s *Session) close() {
	s.cancel()
	<-s.done
}
