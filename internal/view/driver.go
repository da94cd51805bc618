package view

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval paces the driver loop at roughly 60 frames per second
const DefaultFrameInterval = 16 * time.Millisecond

// FrameSink receives frames published by a Driver
type FrameSink func(Frame)

// Driver serializes access to a Renderer and runs its frame loop
type Driver struct {
	mu       sync.Mutex
	r        *Renderer
	interval time.Duration
	sink     FrameSink
	kick     chan struct{}
}

// NewDriver wraps a renderer. A zero interval uses DefaultFrameInterval.
func NewDriver(r *Renderer, interval time.Duration, sink FrameSink) *Driver {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if sink == nil {
		sink = func(Frame) {}
	}
	return &Driver{
		r:        r,
		interval: interval,
		sink:     sink,
		kick:     make(chan struct{}, 1),
	}
}

// Do runs fn with exclusive access to the renderer and wakes the loop
func (d *Driver) Do(fn func(*Renderer) error) error {
	d.mu.Lock()
	err := fn(d.r)
	d.mu.Unlock()

	select {
	case d.kick <- struct{}{}:
	default:
	}
	return err
}

// Snapshot returns the current frame without advancing the simulations
func (d *Driver) Snapshot() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Snapshot()
}

// Tick advances one frame if anything changed and publishes it. It reports
// whether a frame was published.
func (d *Driver) Tick() bool {
	d.mu.Lock()
	if !d.r.Active() {
		d.mu.Unlock()
		return false
	}
	f := d.r.Frame()
	d.mu.Unlock()

	d.sink(f)
	return true
}

// Run drives frames until ctx is cancelled, then closes the renderer
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	defer func() {
		d.mu.Lock()
		d.r.Close()
		d.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick()
		case <-d.kick:
			d.Tick()
		}
	}
}
