package winmux

import (
	"context"
	"errors"
	"time"

	"github.com/gogpu/winmux/gpu"
)

// ErrPlatformClosed reports a platform operation after Terminate.
var ErrPlatformClosed = errors.New("winmux: platform closed")

// WindowConfig describes a window to be created.
type WindowConfig struct {
	Title string
	Size  Size
}

// PlatformWindow is one native window handle.
type PlatformWindow interface {
	// ID returns the window's identifier, stable for its lifetime.
	ID() WindowID

	// InnerSize returns the drawable (framebuffer) size in physical
	// pixels.
	InnerSize() Size

	// SetTitle updates the window title.
	SetTitle(title string)

	// Destroy releases the native window. The window must not be used
	// afterwards.
	Destroy()
}

// Platform is the windowing system collaborator: it creates native
// windows and surfaces, performs the one-shot device handshake, and
// pumps input events. Implementations live under backend/.
//
// All methods except Wakeup must be called from the main OS thread.
type Platform interface {
	// Init prepares the platform. Called once before any other method.
	Init() error

	// Terminate releases the platform. No windows may be live.
	Terminate()

	// CreateWindow opens a native window.
	CreateWindow(cfg WindowConfig) (PlatformWindow, error)

	// CreateSurface creates a presentable GPU surface for win.
	CreateSurface(win PlatformWindow) (gpu.Surface, error)

	// RequestDevice performs the asynchronous adapter/device handshake,
	// awaited to completion. Called exactly once per process, with the
	// first window's surface for compatibility; every window shares the
	// returned device and queue afterwards.
	RequestDevice(ctx context.Context, compatible gpu.Surface) (gpu.Device, gpu.Queue, error)

	// PumpEvents blocks up to timeout for native events and returns the
	// translated batch in arrival order. A zero timeout polls.
	PumpEvents(timeout time.Duration) ([]TargetedEvent, error)

	// Wakeup interrupts a concurrent PumpEvents wait early. Safe to
	// call from any goroutine.
	Wakeup()
}

// RedrawScheduler is the outbound redraw collaborator handed to event
// handlers. Requests are coalesced to the target frame rate, never
// queued.
type RedrawScheduler interface {
	ScheduleRedraw(id WindowID)
}

// Env bundles the process-wide collaborators a window needs during
// update: the platform (to spawn children) and the shared device,
// queue and pipeline registry. Logging goes through the package
// Logger, so a SetLogger call reaches running windows too.
type Env struct {
	Platform Platform
	Device   gpu.Device
	Queue    gpu.Queue
	Registry *Registry
}
