// Package wgpu drives winmux with real native windows: GLFW for
// windowing and input, WebGPU (wgpu-native via cogentcore/webgpu) for
// the device, surfaces, and pipelines.
//
// GLFW requires the process main thread; callers must lock it
// (runtime.LockOSThread in main) before Init and keep every platform
// call except Wakeup on that thread.
package wgpu

import (
	"context"
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/winmux"
	"github.com/gogpu/winmux/backend"
	"github.com/gogpu/winmux/gpu"
)

func init() {
	backend.Register(backend.BackendWGPU, func() winmux.Platform {
		return New()
	})
}

// Platform is the GLFW + WebGPU platform.
type Platform struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device

	nextID  winmux.WindowID
	pending []winmux.TargetedEvent

	initialized bool
}

// New creates an uninitialized platform.
func New() *Platform {
	return &Platform{}
}

// Init initializes GLFW and the WebGPU instance.
func (p *Platform) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("wgpu: init glfw: %w", err)
	}
	p.instance = wgpu.CreateInstance(nil)
	if p.instance == nil {
		glfw.Terminate()
		return fmt.Errorf("wgpu: create instance")
	}
	p.initialized = true
	return nil
}

// Terminate releases the WebGPU objects and shuts GLFW down.
func (p *Platform) Terminate() {
	if p.device != nil {
		p.device.Release()
		p.device = nil
	}
	if p.adapter != nil {
		p.adapter.Release()
		p.adapter = nil
	}
	if p.instance != nil {
		p.instance.Release()
		p.instance = nil
	}
	if p.initialized {
		glfw.Terminate()
		p.initialized = false
	}
}

// CreateWindow opens a GLFW window without a client API context and
// wires its input callbacks into the platform event queue.
func (p *Platform) CreateWindow(cfg winmux.WindowConfig) (winmux.PlatformWindow, error) {
	if !p.initialized {
		return nil, winmux.ErrPlatformClosed
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	width, height := int(cfg.Size.W), int(cfg.Size.H)
	if width <= 0 || height <= 0 {
		width, height = 800, 600
	}
	gw, err := glfw.CreateWindow(width, height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create window: %w", err)
	}

	p.nextID++
	w := &Window{id: p.nextID, glfw: gw, platform: p}
	w.installCallbacks()
	return w, nil
}

// CreateSurface creates a WebGPU surface for win.
func (p *Platform) CreateSurface(win winmux.PlatformWindow) (gpu.Surface, error) {
	w, ok := win.(*Window)
	if !ok {
		return nil, fmt.Errorf("wgpu: foreign window %T", win)
	}
	native := p.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.glfw))
	if native == nil {
		return nil, fmt.Errorf("wgpu: create surface for window %d", w.id)
	}
	return &Surface{native: native, platform: p}, nil
}

// RequestDevice performs the adapter/device handshake, awaited to
// completion. The compatible surface steers adapter selection.
func (p *Platform) RequestDevice(ctx context.Context, compatible gpu.Surface) (gpu.Device, gpu.Queue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var nativeSurface *wgpu.Surface
	if s, ok := compatible.(*Surface); ok {
		nativeSurface = s.native
	}

	adapter, err := p.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: nativeSurface,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wgpu: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "winmux",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		adapter.Release()
		return nil, nil, fmt.Errorf("wgpu: request device: %w", err)
	}

	p.adapter = adapter
	p.device = device
	winmux.Logger().Info("wgpu device acquired")
	return &Device{native: device}, &Queue{native: device.GetQueue()}, nil
}

// PumpEvents waits up to timeout for native events, runs the installed
// callbacks, and returns the translated batch in arrival order.
func (p *Platform) PumpEvents(timeout time.Duration) ([]winmux.TargetedEvent, error) {
	if !p.initialized {
		return nil, winmux.ErrPlatformClosed
	}
	if timeout <= 0 {
		glfw.PollEvents()
	} else {
		glfw.WaitEventsTimeout(timeout.Seconds())
	}
	batch := p.pending
	p.pending = nil
	return batch, nil
}

// Wakeup posts an empty event so a concurrent PumpEvents wait returns.
// Safe to call from any goroutine.
func (p *Platform) Wakeup() {
	glfw.PostEmptyEvent()
}

func (p *Platform) push(id winmux.WindowID, ev winmux.WindowEvent) {
	p.pending = append(p.pending, winmux.TargetedEvent{Window: id, Event: ev})
}

// Window is one GLFW window.
type Window struct {
	id       winmux.WindowID
	glfw     *glfw.Window
	platform *Platform
}

func (w *Window) ID() winmux.WindowID { return w.id }

// InnerSize returns the framebuffer size in physical pixels.
func (w *Window) InnerSize() winmux.Size {
	fw, fh := w.glfw.GetFramebufferSize()
	if fw < 0 {
		fw = 0
	}
	if fh < 0 {
		fh = 0
	}
	return winmux.Size{W: uint32(fw), H: uint32(fh)}
}

func (w *Window) SetTitle(title string) { w.glfw.SetTitle(title) }

func (w *Window) Destroy() { w.glfw.Destroy() }

// installCallbacks translates GLFW callbacks into winmux events on the
// platform queue. Callbacks run inside PumpEvents on the main thread.
func (w *Window) installCallbacks() {
	p := w.platform
	id := w.id

	w.glfw.SetCursorPosCallback(func(gw *glfw.Window, x, y float64) {
		sx, sy := contentScale(gw)
		p.push(id, winmux.CursorMoved{Pos: winmux.PointFromPixels(x*sx, y*sy)})
	})
	w.glfw.SetCursorEnterCallback(func(gw *glfw.Window, entered bool) {
		if !entered {
			p.push(id, winmux.CursorLeft{})
		}
	})
	w.glfw.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
		state, ok := translateAction(action)
		if !ok {
			return
		}
		p.push(id, winmux.MouseInput{Button: translateButton(button), State: state})
	})
	w.glfw.SetKeyCallback(func(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mod glfw.ModifierKey) {
		state, ok := translateAction(action)
		if !ok {
			return
		}
		p.push(id, winmux.KeyInput{Key: translateKey(key), State: state})
	})
	w.glfw.SetFramebufferSizeCallback(func(gw *glfw.Window, width, height int) {
		if width < 0 {
			width = 0
		}
		if height < 0 {
			height = 0
		}
		p.push(id, winmux.Resized{Size: winmux.Size{W: uint32(width), H: uint32(height)}})
	})
	w.glfw.SetCloseCallback(func(gw *glfw.Window) {
		p.push(id, winmux.CloseRequested{})
	})
	w.glfw.SetRefreshCallback(func(gw *glfw.Window) {
		p.push(id, winmux.RedrawRequested{})
	})
}

// contentScale maps screen coordinates to framebuffer pixels, which
// differ on high-DPI displays.
func contentScale(gw *glfw.Window) (float64, float64) {
	ww, wh := gw.GetSize()
	fw, fh := gw.GetFramebufferSize()
	sx, sy := 1.0, 1.0
	if ww > 0 {
		sx = float64(fw) / float64(ww)
	}
	if wh > 0 {
		sy = float64(fh) / float64(wh)
	}
	return sx, sy
}

func translateAction(a glfw.Action) (winmux.ButtonState, bool) {
	switch a {
	case glfw.Press:
		return winmux.ButtonPressed, true
	case glfw.Release:
		return winmux.ButtonReleased, true
	default:
		// Key repeats are not forwarded.
		return 0, false
	}
}

func translateButton(b glfw.MouseButton) winmux.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return winmux.MouseButtonLeft
	case glfw.MouseButtonRight:
		return winmux.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return winmux.MouseButtonMiddle
	default:
		return winmux.MouseButtonOther
	}
}

func translateKey(k glfw.Key) winmux.Key {
	switch k {
	case glfw.KeyN:
		return winmux.KeyN
	case glfw.KeyI:
		return winmux.KeyI
	case glfw.KeyC:
		return winmux.KeyC
	case glfw.KeyEscape:
		return winmux.KeyEscape
	default:
		return winmux.KeyOther
	}
}
