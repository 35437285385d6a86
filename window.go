package winmux

import (
	"errors"
	"fmt"

	"github.com/gogpu/winmux/gpu"
)

// SpawnKind selects what kind of child window a layout wants created.
type SpawnKind int

const (
	SpawnNone SpawnKind = iota
	SpawnDrawing
	SpawnImage
)

// Spawner constructs a child window of the requested kind. The caller
// (usually cmd) wires one in so the core never depends on concrete
// component packages.
type Spawner func(env *Env, kind SpawnKind) (Layout, error)

// mountedComponent is one component with its assigned viewport. fits is
// false when the viewport undercuts the component's minimum size, in
// which case the component is skipped during render.
type mountedComponent struct {
	c        Component
	viewport Rect
	fits     bool
}

// DrawingWindow is the standard window layout: it owns a platform
// window, its presentation surface and configuration, a render Context,
// and a row of components sharing the surface.
//
// Close and resize events only set flags; Update is the single
// authority for lifecycle transitions and surface reconfiguration.
type DrawingWindow struct {
	win     PlatformWindow
	surface gpu.Surface
	config  gpu.SurfaceConfig
	ctx     *Context

	comps []mountedComponent
	input InputTracker

	spawner Spawner
	spawn   SpawnKind

	resized bool
	close   bool
}

// NewDrawingWindow builds a layout around an already-created platform
// window and surface. The surface is configured for the window's
// current size unless that size is degenerate, in which case
// configuration is deferred to the first non-degenerate resize.
func NewDrawingWindow(env *Env, win PlatformWindow, surface gpu.Surface, opts ...WindowOption) (*DrawingWindow, error) {
	o := defaultWindowOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg := gpu.SurfaceConfig{
		Format:      surface.PreferredFormat(),
		PresentMode: o.presentMode,
	}
	size := win.InnerSize()
	if !size.IsEmpty() {
		cfg.Width, cfg.Height = size.W, size.H
		if err := surface.Configure(&cfg); err != nil {
			return nil, fmt.Errorf("winmux: configure surface for window %d: %w", win.ID(), err)
		}
	}

	w := &DrawingWindow{
		win:     win,
		surface: surface,
		config:  cfg,
		ctx:     NewContext(env.Device, env.Queue, cfg.Format, env.Registry),
		spawner: o.spawner,
	}
	for _, c := range o.components {
		w.comps = append(w.comps, mountedComponent{c: c})
	}
	for _, build := range o.builders {
		c, err := build(w.ctx)
		if err != nil {
			return nil, fmt.Errorf("winmux: build component for window %d: %w", win.ID(), err)
		}
		w.comps = append(w.comps, mountedComponent{c: c})
	}
	w.layoutComponents(size)
	return w, nil
}

// Window returns the platform window this layout drives.
func (w *DrawingWindow) Window() PlatformWindow { return w.win }

// Context returns the window's render context.
func (w *DrawingWindow) Context() *Context { return w.ctx }

// EventHandler folds one input event into the window's pending state
// and forwards it to the components under the cursor.
func (w *DrawingWindow) EventHandler(ev WindowEvent, rs RedrawScheduler) {
	w.input.HandleEvent(ev)

	switch e := ev.(type) {
	case CloseRequested:
		w.close = true
		return
	case Resized:
		w.resized = true
		return
	case KeyInput:
		if e.State == ButtonPressed {
			switch e.Key {
			case KeyEscape:
				w.close = true
				return
			case KeyN:
				w.spawn = SpawnDrawing
				return
			case KeyI:
				w.spawn = SpawnImage
				return
			}
		}
	}

	for i := range w.comps {
		mc := &w.comps[i]
		ic, ok := mc.c.(InputComponent)
		if !ok {
			continue
		}
		rel, inside := w.input.RelativeTo(mc.viewport)
		if ic.HandleInput(ev, rel, inside) {
			rs.ScheduleRedraw(w.win.ID())
		}
	}
}

// Update applies the pending flags accumulated since the last tick.
// A pending resize reconfigures the surface unless the new size is
// degenerate (zero in either dimension), in which case the resize is
// skipped and the window stays alive with the flag cleared. A pending
// close yields Dead. A pending spawn request produces a child layout
// for the multiplexer to adopt.
func (w *DrawingWindow) Update(env *Env) (LifeStatus, Layout) {
	if w.resized {
		w.resized = false
		size := w.win.InnerSize()
		if size.IsEmpty() {
			Logger().Warn("degenerate resize skipped",
				"window", w.win.ID(), "w", size.W, "h", size.H)
		} else {
			w.config.Width, w.config.Height = size.W, size.H
			if err := w.surface.Configure(&w.config); err != nil {
				Logger().Warn("surface reconfigure failed",
					"window", w.win.ID(), "err", err)
			}
			w.layoutComponents(size)
		}
	}

	if w.close {
		w.close = false
		return Dead, nil
	}

	if w.spawn != SpawnNone && w.spawner != nil {
		kind := w.spawn
		w.spawn = SpawnNone
		child, err := w.spawner(env, kind)
		if err != nil {
			Logger().Warn("child window spawn failed",
				"window", w.win.ID(), "kind", int(kind), "err", err)
			return Alive, nil
		}
		return Alive, child
	}
	w.spawn = SpawnNone

	return Alive, nil
}

// Render draws one frame: acquire a surface texture, record a clear
// pass and every fitting component, flush the staging belt, submit,
// present.
func (w *DrawingWindow) Render() {
	log := Logger()

	frame, err := w.surface.Acquire()
	if err != nil {
		switch {
		case errors.Is(err, gpu.ErrSurfaceLost):
			// Treated as an implicit resize, reconfigured next update.
			w.resized = true
		case errors.Is(err, gpu.ErrSurfaceOutOfMemory):
			log.Warn("surface out of memory, closing window", "window", w.win.ID())
			w.close = true
		default:
			log.Warn("frame skipped", "window", w.win.ID(), "err", err)
		}
		return
	}
	defer frame.Release()

	enc, err := w.ctx.Device.CreateCommandEncoder("winmux frame")
	if err != nil {
		log.Warn("command encoder creation failed", "window", w.win.ID(), "err", err)
		return
	}

	clear := gpu.Color{R: 0.02, G: 0.02, B: 0.03, A: 1}
	enc.BeginRenderPass(frame.View(), &clear).End()

	for i := range w.comps {
		mc := &w.comps[i]
		if !mc.fits {
			continue
		}
		if err := mc.c.Render(enc, w.ctx, frame, mc.viewport, mc.viewport); err != nil {
			log.Warn("component render failed",
				"window", w.win.ID(), "kind", mc.c.Kind().Name(), "err", err)
		}
	}

	if err := w.ctx.Belt.Finish(); err != nil {
		log.Warn("staging belt finish failed", "window", w.win.ID(), "err", err)
		return
	}
	cb, err := enc.Finish()
	if err != nil {
		log.Warn("command encoding failed", "window", w.win.ID(), "err", err)
	} else {
		w.ctx.Queue.Submit(cb)
		w.surface.Present()
	}
	if err := w.ctx.Belt.Recall(); err != nil {
		log.Warn("staging belt recall failed", "window", w.win.ID(), "err", err)
	}
}

// Close releases the surface and destroys the platform window. Called
// by the multiplexer after the layout reports Dead.
func (w *DrawingWindow) Close() {
	for i := range w.comps {
		if r, ok := w.comps[i].c.(interface{ Release() }); ok {
			r.Release()
		}
	}
	w.surface.Release()
	w.win.Destroy()
}

// layoutComponents splits the surface into equal-width columns, one per
// component, and re-checks each component's minimum size.
func (w *DrawingWindow) layoutComponents(size Size) {
	n := len(w.comps)
	if n == 0 {
		return
	}
	colW := size.W / uint32(n)
	x := int32(0)
	for i := range w.comps {
		mc := &w.comps[i]
		width := colW
		if i == n-1 {
			width = size.W - uint32(i)*colW
		}
		mc.viewport = RectOf(Pt(x, 0), Size{W: width, H: size.H})
		mc.fits = true
		if ms, ok := mc.c.MinSize(); ok && (width < ms.W || size.H < ms.H) {
			mc.fits = false
		}
		x += int32(width)
	}
}
