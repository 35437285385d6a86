package winmux

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/winmux/gpu"
)

func newTestWindow(t *testing.T, env *Env, opts ...WindowOption) (*DrawingWindow, *fakeWindow, *fakeSurface) {
	t.Helper()
	win := &fakeWindow{id: 1, size: Size{W: 800, H: 600}}
	surface := &fakeSurface{format: gputypes.TextureFormatBGRA8Unorm}
	w, err := NewDrawingWindow(env, win, surface, opts...)
	if err != nil {
		t.Fatalf("NewDrawingWindow: %v", err)
	}
	return w, win, surface
}

func TestNewDrawingWindowConfiguresSurface(t *testing.T) {
	env, _ := newTestEnv()
	_, _, surface := newTestWindow(t, env)

	if len(surface.configs) != 1 {
		t.Fatalf("got %d surface configurations, want 1", len(surface.configs))
	}
	cfg := surface.configs[0]
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("configured %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	if cfg.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("configured format %v", cfg.Format)
	}
}

func TestCloseDeferredToUpdate(t *testing.T) {
	env, _ := newTestEnv()
	w, _, _ := newTestWindow(t, env)
	rs := &fakeScheduler{}

	w.EventHandler(CloseRequested{}, rs)

	// The close event alone must not kill the window; exactly one
	// update after it does.
	status, _ := w.Update(env)
	if status != Dead {
		t.Fatalf("first update after close = %v, want Dead", status)
	}
}

func TestEscapeClosesWindow(t *testing.T) {
	env, _ := newTestEnv()
	w, _, _ := newTestWindow(t, env)

	w.EventHandler(KeyInput{Key: KeyEscape, State: ButtonPressed}, &fakeScheduler{})
	if status, _ := w.Update(env); status != Dead {
		t.Error("escape did not close the window")
	}
}

func TestResizeReconfiguresSurface(t *testing.T) {
	env, _ := newTestEnv()
	w, win, surface := newTestWindow(t, env)

	win.size = Size{W: 1024, H: 768}
	w.EventHandler(Resized{Size: win.size}, &fakeScheduler{})

	status, _ := w.Update(env)
	if status != Alive {
		t.Fatalf("update after resize = %v, want Alive", status)
	}
	if len(surface.configs) != 2 {
		t.Fatalf("got %d surface configurations, want 2", len(surface.configs))
	}
	cfg := surface.configs[1]
	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("reconfigured %dx%d, want 1024x768", cfg.Width, cfg.Height)
	}
}

func TestDegenerateResizeSkipped(t *testing.T) {
	env, _ := newTestEnv()
	w, win, surface := newTestWindow(t, env)

	win.size = Size{W: 0, H: 600}
	w.EventHandler(Resized{Size: win.size}, &fakeScheduler{})

	status, _ := w.Update(env)
	if status != Alive {
		t.Fatalf("update after degenerate resize = %v, want Alive", status)
	}
	if len(surface.configs) != 1 {
		t.Error("degenerate resize reconfigured the surface")
	}

	// The flag is cleared, not retried: another update must not
	// attempt reconfiguration either.
	win.size = Size{W: 800, H: 600}
	if _, _ = w.Update(env); len(surface.configs) != 1 {
		t.Error("resize retried without a new resize event")
	}
}

func TestRenderSuccess(t *testing.T) {
	env, p := newTestEnv()
	comp := &testComponent{kind: &countingKind{name: "canvas"}}
	w, _, surface := newTestWindow(t, env, WithComponents(comp))

	w.Render()

	if surface.presented != 1 {
		t.Errorf("presented %d frames, want 1", surface.presented)
	}
	if p.queue.submits != 1 {
		t.Errorf("submitted %d command buffers, want 1", p.queue.submits)
	}
	if comp.renders != 1 {
		t.Errorf("component rendered %d times, want 1", comp.renders)
	}
	if surface.lastTexture == nil || !surface.lastTexture.released {
		t.Error("acquired surface texture not released")
	}
	if comp.lastViewport != RectOf(Pt(0, 0), Size{W: 800, H: 600}) {
		t.Errorf("component viewport = %v", comp.lastViewport)
	}
}

func TestRenderSurfaceLostFlagsResize(t *testing.T) {
	env, _ := newTestEnv()
	w, _, surface := newTestWindow(t, env)

	surface.acquireErr = gpu.ErrSurfaceLost
	w.Render()
	surface.acquireErr = nil

	status, _ := w.Update(env)
	if status != Alive {
		t.Fatalf("update after lost surface = %v, want Alive", status)
	}
	if len(surface.configs) != 2 {
		t.Error("lost surface did not trigger reconfiguration")
	}
}

func TestRenderOutOfMemoryClosesWindow(t *testing.T) {
	env, _ := newTestEnv()
	w, _, surface := newTestWindow(t, env)

	surface.acquireErr = gpu.ErrSurfaceOutOfMemory
	w.Render()

	if status, _ := w.Update(env); status != Dead {
		t.Error("out-of-memory surface did not close the window")
	}
}

func TestRenderOtherFailureSkipsFrame(t *testing.T) {
	env, _ := newTestEnv()
	w, _, surface := newTestWindow(t, env)

	surface.acquireErr = errors.New("timeout")
	w.Render()

	if surface.presented != 0 {
		t.Error("failed frame was presented")
	}
	if status, _ := w.Update(env); status != Alive {
		t.Error("skippable failure killed the window")
	}
}

func TestSpawnChildOnKeyN(t *testing.T) {
	env, _ := newTestEnv()
	childWin := &fakeWindow{id: 2, size: Size{W: 400, H: 300}}
	var spawnedKind SpawnKind
	spawner := func(env *Env, kind SpawnKind) (Layout, error) {
		spawnedKind = kind
		return NewDrawingWindow(env, childWin, &fakeSurface{format: gputypes.TextureFormatBGRA8Unorm})
	}
	w, _, _ := newTestWindow(t, env, WithSpawner(spawner))

	w.EventHandler(KeyInput{Key: KeyN, State: ButtonPressed}, &fakeScheduler{})

	status, child := w.Update(env)
	if status != Alive {
		t.Fatalf("update = %v, want Alive", status)
	}
	if child == nil {
		t.Fatal("no child produced")
	}
	if spawnedKind != SpawnDrawing {
		t.Errorf("spawned kind = %v, want SpawnDrawing", spawnedKind)
	}
	if child.Window().ID() != 2 {
		t.Errorf("child window id = %d", child.Window().ID())
	}

	// One spawn per key press.
	if _, again := w.Update(env); again != nil {
		t.Error("spawn request repeated without a new key press")
	}
}

func TestSpawnImageOnKeyI(t *testing.T) {
	env, _ := newTestEnv()
	var spawnedKind SpawnKind
	spawner := func(env *Env, kind SpawnKind) (Layout, error) {
		spawnedKind = kind
		win := &fakeWindow{id: 3, size: Size{W: 400, H: 300}}
		return NewDrawingWindow(env, win, &fakeSurface{format: gputypes.TextureFormatBGRA8Unorm})
	}
	w, _, _ := newTestWindow(t, env, WithSpawner(spawner))

	w.EventHandler(KeyInput{Key: KeyI, State: ButtonPressed}, &fakeScheduler{})
	if _, child := w.Update(env); child == nil || spawnedKind != SpawnImage {
		t.Errorf("key I: child=%v kind=%v, want image child", child, spawnedKind)
	}
}

func TestInputForwardingSchedulesRedraw(t *testing.T) {
	env, _ := newTestEnv()
	comp := &testComponent{kind: &countingKind{name: "canvas"}, inputReact: true}
	w, _, _ := newTestWindow(t, env, WithComponents(comp))
	rs := &fakeScheduler{}

	w.EventHandler(CursorMoved{Pos: Pt(10, 10)}, rs)
	w.EventHandler(MouseInput{Button: MouseButtonLeft, State: ButtonPressed}, rs)

	if comp.inputs != 2 {
		t.Errorf("component saw %d inputs, want 2", comp.inputs)
	}
	if len(rs.requests) != 2 {
		t.Errorf("scheduled %d redraws, want 2", len(rs.requests))
	}
	for _, id := range rs.requests {
		if id != 1 {
			t.Errorf("redraw scheduled for window %d, want 1", id)
		}
	}
}

func TestComponentBelowMinSizeSkipped(t *testing.T) {
	env, _ := newTestEnv()
	comp := &testComponent{
		kind:    &countingKind{name: "canvas"},
		minSize: Size{W: 10000, H: 10000},
		hasMin:  true,
	}
	w, _, _ := newTestWindow(t, env, WithComponents(comp))

	w.Render()
	if comp.renders != 0 {
		t.Error("undersized component was rendered")
	}
}

func TestCloseReleasesResources(t *testing.T) {
	env, _ := newTestEnv()
	w, win, surface := newTestWindow(t, env)

	w.Close()
	if !surface.released {
		t.Error("surface not released")
	}
	if !win.destroyed {
		t.Error("platform window not destroyed")
	}
}
