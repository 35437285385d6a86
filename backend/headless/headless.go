// Package headless is an in-memory winmux platform and GPU device for
// tests and CI. Windows, surfaces, and pipelines exist only as
// counters and recorded calls; WGSL shaders are still compiled through
// naga so shader errors surface without a GPU.
//
// Tests drive it programmatically: Inject queues targeted events for
// the next PumpEvents, Surface.FailAcquire injects one acquisition
// failure, and the Device counters expose how many GPU objects were
// created.
package headless

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/winmux"
	"github.com/gogpu/winmux/backend"
	"github.com/gogpu/winmux/gpu"
)

func init() {
	backend.Register(backend.BackendHeadless, func() winmux.Platform {
		return New()
	})
}

// Platform is the in-memory platform. Safe for the single-goroutine
// discipline the core follows; Inject and Wakeup may additionally be
// called from other goroutines.
type Platform struct {
	mu      sync.Mutex
	nextID  winmux.WindowID
	pending []winmux.TargetedEvent
	wake    chan struct{}

	device *Device
	queue  *Queue

	initialized bool
	terminated  bool
}

// New creates an uninitialized headless platform.
func New() *Platform {
	return &Platform{wake: make(chan struct{}, 1)}
}

// Init prepares the platform.
func (p *Platform) Init() error {
	p.initialized = true
	p.terminated = false
	return nil
}

// Terminate shuts the platform down.
func (p *Platform) Terminate() {
	p.terminated = true
	p.initialized = false
}

// CreateWindow opens a virtual window.
func (p *Platform) CreateWindow(cfg winmux.WindowConfig) (winmux.PlatformWindow, error) {
	if !p.initialized {
		return nil, winmux.ErrPlatformClosed
	}
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.mu.Unlock()
	return &Window{id: id, size: cfg.Size, title: cfg.Title}, nil
}

// CreateSurface creates a virtual surface for win.
func (p *Platform) CreateSurface(win winmux.PlatformWindow) (gpu.Surface, error) {
	w, ok := win.(*Window)
	if !ok {
		return nil, fmt.Errorf("headless: foreign window %T", win)
	}
	return &Surface{win: w, format: gputypes.TextureFormatRGBA8Unorm}, nil
}

// RequestDevice returns the shared in-memory device and queue. The
// handshake completes immediately; ctx is honored for cancellation to
// match the real backend's contract.
func (p *Platform) RequestDevice(ctx context.Context, compatible gpu.Surface) (gpu.Device, gpu.Queue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		p.device = &Device{}
		p.queue = &Queue{}
	}
	return p.device, p.queue, nil
}

// PumpEvents returns the injected events in arrival order, waiting up
// to timeout for some to arrive.
func (p *Platform) PumpEvents(timeout time.Duration) ([]winmux.TargetedEvent, error) {
	if batch := p.drain(); len(batch) > 0 {
		return batch, nil
	}
	if timeout <= 0 {
		return nil, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.wake:
	case <-timer.C:
	}
	return p.drain(), nil
}

// Wakeup interrupts a concurrent PumpEvents wait.
func (p *Platform) Wakeup() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Inject queues events for the next PumpEvents call and wakes a
// concurrent wait. Test API.
func (p *Platform) Inject(events ...winmux.TargetedEvent) {
	p.mu.Lock()
	p.pending = append(p.pending, events...)
	p.mu.Unlock()
	p.Wakeup()
}

// Device returns the shared device once RequestDevice has run, for
// counter assertions. Test API.
func (p *Platform) Device() *Device {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device
}

func (p *Platform) drain() []winmux.TargetedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	batch := p.pending
	p.pending = nil
	return batch
}

// Window is one virtual window.
type Window struct {
	id        winmux.WindowID
	size      winmux.Size
	title     string
	destroyed bool
}

func (w *Window) ID() winmux.WindowID { return w.id }

func (w *Window) InnerSize() winmux.Size { return w.size }

func (w *Window) SetTitle(title string) { w.title = title }

func (w *Window) Destroy() { w.destroyed = true }

// Title returns the current title. Test API.
func (w *Window) Title() string { return w.title }

// Destroyed reports whether Destroy ran. Test API.
func (w *Window) Destroyed() bool { return w.destroyed }

// Resize changes what InnerSize reports. The caller is responsible for
// injecting the matching Resized event. Test API.
func (w *Window) Resize(size winmux.Size) { w.size = size }

// Surface is one virtual presentable surface.
type Surface struct {
	win    *Window
	format gputypes.TextureFormat

	// Configs records every Configure call in order.
	Configs []gpu.SurfaceConfig

	// Presented counts Present calls.
	Presented int

	acquireErr error
	released   bool
}

func (s *Surface) PreferredFormat() gputypes.TextureFormat { return s.format }

func (s *Surface) Configure(cfg *gpu.SurfaceConfig) error {
	if s.released {
		return fmt.Errorf("headless: surface released")
	}
	s.Configs = append(s.Configs, *cfg)
	return nil
}

func (s *Surface) Acquire() (gpu.SurfaceTexture, error) {
	if err := s.acquireErr; err != nil {
		s.acquireErr = nil
		return nil, err
	}
	if len(s.Configs) == 0 {
		return nil, gpu.ErrSurfaceLost
	}
	cfg := s.Configs[len(s.Configs)-1]
	// Same usage the real backend configures the swapchain with.
	return &surfaceTexture{
		tex: texture{
			width:  cfg.Width,
			height: cfg.Height,
			usage:  gpu.TextureUsageRenderAttachment | gpu.TextureUsageCopyDst,
		},
	}, nil
}

func (s *Surface) Present() { s.Presented++ }

func (s *Surface) Release() { s.released = true }

// FailAcquire makes the next Acquire fail with err, once. Test API.
func (s *Surface) FailAcquire(err error) { s.acquireErr = err }

// Released reports whether Release ran. Test API.
func (s *Surface) Released() bool { return s.released }

type surfaceTexture struct {
	tex      texture
	view     textureView
	released bool
}

func (t *surfaceTexture) View() gpu.TextureView { return &t.view }
func (t *surfaceTexture) Texture() gpu.Texture  { return &t.tex }
func (t *surfaceTexture) Release()              { t.released = true }
