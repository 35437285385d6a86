package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/winmux"
	"github.com/gogpu/winmux/gpu"
)

func newPlatform(t *testing.T) *Platform {
	t.Helper()
	p := New()
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return p
}

func TestWindowIDsUnique(t *testing.T) {
	p := newPlatform(t)
	seen := make(map[winmux.WindowID]bool)
	for i := 0; i < 5; i++ {
		w, err := p.CreateWindow(winmux.WindowConfig{Size: winmux.Size{W: 100, H: 100}})
		if err != nil {
			t.Fatal(err)
		}
		if seen[w.ID()] {
			t.Fatalf("duplicate window id %d", w.ID())
		}
		seen[w.ID()] = true
	}
}

func TestPumpEventsReturnsInjectedInOrder(t *testing.T) {
	p := newPlatform(t)
	p.Inject(
		winmux.TargetedEvent{Window: 1, Event: winmux.CursorLeft{}},
		winmux.TargetedEvent{Window: 2, Event: winmux.CloseRequested{}},
	)

	batch, err := p.PumpEvents(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d events, want 2", len(batch))
	}
	if batch[0].Window != 1 || batch[1].Window != 2 {
		t.Errorf("events out of order: %+v", batch)
	}

	// Drained: a poll comes back empty.
	if batch, _ := p.PumpEvents(0); len(batch) != 0 {
		t.Errorf("drained events delivered twice: %+v", batch)
	}
}

func TestPumpEventsWakeup(t *testing.T) {
	p := newPlatform(t)
	go func() {
		time.Sleep(10 * time.Millisecond)
		p.Inject(winmux.TargetedEvent{Window: 1, Event: winmux.CursorLeft{}})
	}()

	start := time.Now()
	batch, err := p.PumpEvents(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 1 {
		t.Fatalf("got %d events, want 1", len(batch))
	}
	if time.Since(start) > time.Second {
		t.Error("PumpEvents slept through the injection wakeup")
	}
}

func TestRequestDeviceSharedAcrossCalls(t *testing.T) {
	p := newPlatform(t)
	w, _ := p.CreateWindow(winmux.WindowConfig{Size: winmux.Size{W: 10, H: 10}})
	s, err := p.CreateSurface(w)
	if err != nil {
		t.Fatal(err)
	}

	d1, q1, err := p.RequestDevice(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	d2, q2, err := p.RequestDevice(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 || q1 != q2 {
		t.Error("RequestDevice returned distinct devices")
	}
}

func TestSurfaceAcquireBeforeConfigureIsLost(t *testing.T) {
	p := newPlatform(t)
	w, _ := p.CreateWindow(winmux.WindowConfig{Size: winmux.Size{W: 10, H: 10}})
	s, _ := p.CreateSurface(w)

	if _, err := s.Acquire(); !errors.Is(err, gpu.ErrSurfaceLost) {
		t.Errorf("unconfigured acquire err = %v, want ErrSurfaceLost", err)
	}
}

func TestSurfaceFailAcquireIsOneShot(t *testing.T) {
	p := newPlatform(t)
	w, _ := p.CreateWindow(winmux.WindowConfig{Size: winmux.Size{W: 10, H: 10}})
	s, _ := p.CreateSurface(w)
	hs := s.(*Surface)
	if err := s.Configure(&gpu.SurfaceConfig{Width: 10, Height: 10}); err != nil {
		t.Fatal(err)
	}

	hs.FailAcquire(gpu.ErrSurfaceOutOfMemory)
	if _, err := s.Acquire(); !errors.Is(err, gpu.ErrSurfaceOutOfMemory) {
		t.Fatalf("injected failure not surfaced: %v", err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("failure injection not one-shot: %v", err)
	}
}

const validWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

func TestDeviceValidatesWGSL(t *testing.T) {
	d := &Device{}

	if _, err := d.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
		Label: "ok",
		WGSL:  validWGSL,
	}); err != nil {
		t.Fatalf("valid WGSL rejected: %v", err)
	}
	if d.RenderPipelines != 1 {
		t.Errorf("RenderPipelines = %d, want 1", d.RenderPipelines)
	}

	if _, err := d.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
		Label: "broken",
		WGSL:  "fn { this is not wgsl",
	}); err == nil {
		t.Error("invalid WGSL accepted")
	}
	if d.RenderPipelines != 1 {
		t.Errorf("failed pipeline counted: %d", d.RenderPipelines)
	}
}

func TestCopyTextureUsageEnforced(t *testing.T) {
	d := &Device{}
	src, _ := d.CreateTexture(&gpu.TextureDescriptor{Usage: gpu.TextureUsageCopySrc})
	noCopyDst, _ := d.CreateTexture(&gpu.TextureDescriptor{Usage: gpu.TextureUsageRenderAttachment})

	enc, _ := d.CreateCommandEncoder("frame")
	enc.CopyTextureToTexture(src, noCopyDst, 0, 0, 1, 1)
	if _, err := enc.Finish(); err == nil {
		t.Error("copy into texture without CopyDst accepted")
	}

	enc, _ = d.CreateCommandEncoder("frame")
	noCopySrc, _ := d.CreateTexture(&gpu.TextureDescriptor{Usage: gpu.TextureUsageCopyDst})
	dst, _ := d.CreateTexture(&gpu.TextureDescriptor{Usage: gpu.TextureUsageCopyDst})
	enc.CopyTextureToTexture(noCopySrc, dst, 0, 0, 1, 1)
	if _, err := enc.Finish(); err == nil {
		t.Error("copy from texture without CopySrc accepted")
	}
}

func TestSurfaceTextureAcceptsBlit(t *testing.T) {
	p := newPlatform(t)
	w, _ := p.CreateWindow(winmux.WindowConfig{Size: winmux.Size{W: 10, H: 10}})
	s, _ := p.CreateSurface(w)
	if err := s.Configure(&gpu.SurfaceConfig{Width: 10, Height: 10}); err != nil {
		t.Fatal(err)
	}
	frame, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	d := &Device{}
	src, _ := d.CreateTexture(&gpu.TextureDescriptor{Usage: gpu.TextureUsageCopySrc | gpu.TextureUsageCopyDst})
	enc, _ := d.CreateCommandEncoder("frame")
	enc.CopyTextureToTexture(src, frame.Texture(), 0, 0, 4, 4)
	if _, err := enc.Finish(); err != nil {
		t.Errorf("blit onto surface texture rejected: %v", err)
	}
}

func TestEncoderFinishTwiceFails(t *testing.T) {
	d := &Device{}
	enc, err := d.CreateCommandEncoder("frame")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Finish(); err == nil {
		t.Error("double Finish accepted")
	}
}
