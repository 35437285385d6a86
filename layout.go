package winmux

// LifeStatus is a window's lifecycle state as reported by Update.
type LifeStatus int

const (
	// Alive keeps the window in the multiplexer's live set.
	Alive LifeStatus = iota

	// Dead is terminal: the multiplexer removes the window and drops it
	// after the current tick.
	Dead
)

func (s LifeStatus) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Layout is one window's logic: an event sink, a per-tick reconciler,
// and a renderer. The multiplexer owns a set of Layouts keyed by window
// id and drives them cooperatively from a single goroutine.
type Layout interface {
	// Window returns the platform window this layout drives.
	Window() PlatformWindow

	// EventHandler consumes one input event synchronously. It may flag
	// pending state and request a redraw through rs, but must not
	// perform lifecycle transitions; Update is the single authority for
	// those.
	EventHandler(ev WindowEvent, rs RedrawScheduler)

	// Update is the per-tick reconciliation step: apply pending resize
	// and close flags, and optionally produce a child window for the
	// multiplexer to adopt. A non-nil child must carry a window id not
	// already live, unless this layout returns Dead in the same call
	// and the child reuses its id (hand-off).
	Update(env *Env) (LifeStatus, Layout)

	// Render draws one frame to the window's surface.
	Render()
}

// InputTracker accumulates pointer state from window events: the last
// absolute cursor position and whether the cursor is over the window.
type InputTracker struct {
	pos    Point
	inside bool
}

// HandleEvent folds one event into the tracker. Non-pointer events are
// ignored.
func (t *InputTracker) HandleEvent(ev WindowEvent) {
	switch e := ev.(type) {
	case CursorMoved:
		t.pos = e.Pos
		t.inside = true
	case CursorLeft:
		t.inside = false
	}
}

// Position returns the last known cursor position in physical pixels.
func (t *InputTracker) Position() Point {
	return t.pos
}

// Inside reports whether the cursor is currently over the window.
func (t *InputTracker) Inside() bool {
	return t.inside
}

// RelativeTo returns the cursor position relative to r's origin and
// whether the cursor is inside r.
func (t *InputTracker) RelativeTo(r Rect) (Point, bool) {
	return t.pos.Sub(r.Pos), t.inside && r.Inside(t.pos)
}
