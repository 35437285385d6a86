package winmux

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/winmux/gpu"
)

// idlePollInterval bounds the platform wait when no redraw is pending,
// so ticks keep running for windows that only need lifecycle progress.
const idlePollInterval = 50 * time.Millisecond

// Bootstrap performs the one-shot device handshake around the first
// window: create the window and its surface, request the adapter/device
// with that surface for compatibility, and assemble the shared Env.
// This is the only awaited asynchronous step in the process; every
// later window reuses the returned device and queue synchronously.
func Bootstrap(ctx context.Context, p Platform, cfg WindowConfig) (*Env, PlatformWindow, gpu.Surface, error) {
	win, err := p.CreateWindow(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("winmux: create window: %w", err)
	}
	surface, err := p.CreateSurface(win)
	if err != nil {
		win.Destroy()
		return nil, nil, nil, fmt.Errorf("winmux: create surface: %w", err)
	}
	device, queue, err := p.RequestDevice(ctx, surface)
	if err != nil {
		surface.Release()
		win.Destroy()
		return nil, nil, nil, fmt.Errorf("winmux: request device: %w", err)
	}
	env := &Env{
		Platform: p,
		Device:   device,
		Queue:    queue,
		Registry: NewRegistry(),
	}
	return env, win, surface, nil
}

// Mux is the window multiplexer: the single process-wide owner of the
// live window set. It routes targeted events to the right window,
// advances every window once per tick, and applies lifecycle deltas
// (adoptions and retirements) between ticks, never mid-iteration.
type Mux struct {
	env     *Env
	windows map[WindowID]Layout
	limiter *FrameLimiter
}

// closer is implemented by layouts that hold native resources to tear
// down after retiring (DrawingWindow releases its surface and window).
type closer interface {
	Close()
}

// NewMux creates an empty multiplexer around the shared Env.
func NewMux(env *Env, opts ...MuxOption) *Mux {
	o := defaultMuxOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Mux{
		env:     env,
		windows: make(map[WindowID]Layout),
		limiter: NewFrameLimiter(o.fps),
	}
}

// Limiter returns the multiplexer's redraw scheduler.
func (m *Mux) Limiter() *FrameLimiter { return m.limiter }

// Len returns the number of live windows.
func (m *Mux) Len() int { return len(m.windows) }

// Adopt inserts a window into the live set. A colliding id is a bug in
// window-id generation, not a runtime condition, and panics.
func (m *Mux) Adopt(l Layout) {
	id := l.Window().ID()
	if _, exists := m.windows[id]; exists {
		panic(fmt.Sprintf("winmux: window id collision: %d", id))
	}
	m.windows[id] = l
	Logger().Info("window adopted", "window", id, "live", len(m.windows))
}

// Dispatch routes one targeted event. An unknown window id is a logged
// no-op. A RedrawRequested event renders immediately; everything else
// goes through the window's event handler.
func (m *Mux) Dispatch(ev TargetedEvent) {
	l, ok := m.windows[ev.Window]
	if !ok {
		Logger().Warn("event for unknown window", "window", ev.Window)
		return
	}
	if _, ok := ev.Event.(RedrawRequested); ok {
		l.Render()
		return
	}
	l.EventHandler(ev.Event, m.limiter)
}

// adoption is a child buffered during a tick, tagged with its parent so
// the id hand-off rule can be checked at commit time.
type adoption struct {
	child  Layout
	parent WindowID
}

// Tick runs the per-cycle reconciliation: every live window's Update is
// called exactly once, and the resulting removals and adoptions are
// buffered and committed only after the full pass, so no window ever
// observes the set mutating mid-iteration.
//
// Removals commit before adoptions. A child may therefore reuse the id
// of its own parent when the parent retired in the same call (hand-off);
// any other collision panics.
func (m *Mux) Tick() {
	var retired []WindowID
	retiring := make(map[WindowID]bool)
	var adds []adoption

	for id, l := range m.windows {
		status, child := l.Update(m.env)
		if status == Dead {
			retired = append(retired, id)
			retiring[id] = true
		}
		if child != nil {
			adds = append(adds, adoption{child: child, parent: id})
		}
	}

	for _, id := range retired {
		l := m.windows[id]
		delete(m.windows, id)
		m.limiter.Forget(id)
		if c, ok := l.(closer); ok {
			c.Close()
		}
		Logger().Info("window retired", "window", id, "live", len(m.windows))
	}

	for _, ad := range adds {
		id := ad.child.Window().ID()
		if retiring[id] && id != ad.parent {
			panic(fmt.Sprintf("winmux: window id collision: %d", id))
		}
		m.Adopt(ad.child)
	}
}

// Run drives the multiplexer until the live set is empty: pump platform
// events, dispatch them in arrival order, tick, then render the windows
// whose redraw interval elapsed. Returns nil on a clean empty-set exit.
func (m *Mux) Run() error {
	for len(m.windows) > 0 {
		events, err := m.env.Platform.PumpEvents(m.waitTimeout())
		if err != nil {
			return fmt.Errorf("winmux: event pump: %w", err)
		}
		for _, ev := range events {
			m.Dispatch(ev)
		}

		m.Tick()

		for _, id := range m.limiter.Due(time.Now()) {
			if l, ok := m.windows[id]; ok {
				l.Render()
			}
		}
	}
	Logger().Info("window set empty, exiting")
	return nil
}

// waitTimeout bounds the platform wait by the next redraw deadline, or
// the idle poll cadence when nothing is pending.
func (m *Mux) waitTimeout() time.Duration {
	now := time.Now()
	if deadline, ok := m.limiter.NextDeadline(now); ok {
		d := deadline.Sub(now)
		if d < 0 {
			return 0
		}
		return d
	}
	return idlePollInterval
}
