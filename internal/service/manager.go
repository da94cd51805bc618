package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"netmap/internal/domain"
	"netmap/internal/hub"
	"netmap/internal/metrics"
	"netmap/internal/table"
	"netmap/internal/view"
)

var (
	// ErrSessionNotFound is returned for an unknown session ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when MaxSessions sessions are open
	ErrTooManySessions = errors.New("too many sessions")
	// ErrShutdown is returned once the manager has been shut down
	ErrShutdown = errors.New("manager shut down")
)

// Options configures a Manager
type Options struct {
	Renderer      view.Options
	FrameInterval time.Duration
	// MaxSessions caps open sessions; 0 is unlimited
	MaxSessions int
	Metrics     *metrics.Registry
	Logger      zerolog.Logger
}

// Manager opens and tracks sessions over one fixture catalog
type Manager struct {
	mu       sync.RWMutex
	catalog  *domain.Catalog
	opts     Options
	sessions map[string]*Session
	bus      *EventBus
	closed   bool
	log      zerolog.Logger
}

// NewManager creates a session manager. A nil bus gets a private one.
func NewManager(catalog *domain.Catalog, bus *EventBus, opts Options) *Manager {
	if bus == nil {
		bus = NewEventBus()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	return &Manager{
		catalog:  catalog,
		opts:     opts,
		sessions: make(map[string]*Session),
		bus:      bus,
		log:      opts.Logger,
	}
}

// Catalog returns the fixture catalog
func (m *Manager) Catalog() *domain.Catalog {
	return m.catalog
}

// Scopes returns "all" followed by every floor
func (m *Manager) Scopes() []string {
	return m.catalog.Scopes()
}

// Open starts a new session. Its loops run until Close or Shutdown.
func (m *Manager) Open() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrShutdown
	}
	if m.opts.MaxSessions > 0 && len(m.sessions) >= m.opts.MaxSessions {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, m.opts.MaxSessions)
	}

	id := uuid.NewString()
	log := m.log.With().Str("session_id", id).Logger()

	ropts := m.opts.Renderer
	ropts.Presets = maps.Clone(ropts.Presets)
	ropts.Observer = m.opts.Metrics
	ropts.Logger = log
	r, err := view.New(m.catalog, ropts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:      id,
		created: time.Now(),
		hub:     hub.New(log),
		table:   table.New(table.FromCatalog(m.catalog)...),
		metrics: m.opts.Metrics,
		bus:     m.bus,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
	}
	s.table.SetLogger(log)

	s.driver = view.NewDriver(r, m.opts.FrameInterval, func(f view.Frame) {
		s.hub.Broadcast(hub.EventFrame, f)
		m.opts.Metrics.RecordFrame()
	})

	// Runs under the driver lock, so the renderer is read directly
	r.OnSelect(func(nodeID string) {
		sel := Selection{ID: nodeID}
		if nodeID != "" {
			sel.Details = r.Details()
			m.opts.Metrics.RecordSelection()
		}
		s.hub.Broadcast(hub.EventSelection, sel)
		m.bus.Publish(Event{Type: EventSelectionChanged, SessionID: id, Payload: sel})
	})

	s.table.OnOpen(func(rowID string) error {
		return s.driver.Do(func(r *view.Renderer) error {
			return r.Select(rowID)
		})
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = s.driver.Run(ctx)
	}()
	go func() {
		wg.Wait()
		close(s.done)
	}()

	m.sessions[id] = s
	m.opts.Metrics.SessionOpened()
	m.bus.Publish(Event{Type: EventSessionOpened, SessionID: id})
	log.Info().Int("sessions", len(m.sessions)).Msg("Session opened")
	return s, nil
}

// Get returns an open session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns the open session IDs in creation order
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].created.Before(sessions[j].created)
	})
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.id
	}
	return ids
}

// Close stops a session and waits for its loops to exit
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.close()
	m.opts.Metrics.SessionClosed()
	m.bus.Publish(Event{Type: EventSessionClosed, SessionID: id})
	s.log.Info().Dur("age", time.Since(s.created)).Msg("Session closed")
	return nil
}

// Shutdown closes every session. Later Opens fail with ErrShutdown.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, id := range ids {
			_ = m.Close(id)
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
