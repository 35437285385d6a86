package winmux

import (
	"context"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/winmux/gpu"
)

// In-memory fakes for the platform and GPU contracts. Only the behavior
// the core observes is modeled: creation counters, recorded calls, and
// injectable surface failures.

type fakeWindow struct {
	id        WindowID
	size      Size
	title     string
	destroyed bool
}

func (w *fakeWindow) ID() WindowID          { return w.id }
func (w *fakeWindow) InnerSize() Size       { return w.size }
func (w *fakeWindow) SetTitle(title string) { w.title = title }
func (w *fakeWindow) Destroy()              { w.destroyed = true }

type fakeView struct{ released bool }

func (v *fakeView) Release() { v.released = true }

type fakeTexture struct{ released bool }

func (t *fakeTexture) CreateView() (gpu.TextureView, error) { return &fakeView{}, nil }
func (t *fakeTexture) Release()                             { t.released = true }

type fakeSurfaceTexture struct {
	view     fakeView
	tex      fakeTexture
	released bool
}

func (t *fakeSurfaceTexture) View() gpu.TextureView { return &t.view }
func (t *fakeSurfaceTexture) Texture() gpu.Texture  { return &t.tex }
func (t *fakeSurfaceTexture) Release()              { t.released = true }

type fakeSurface struct {
	format      gputypes.TextureFormat
	configs     []gpu.SurfaceConfig
	acquireErr  error
	lastTexture *fakeSurfaceTexture
	presented   int
	released    bool
}

func (s *fakeSurface) PreferredFormat() gputypes.TextureFormat { return s.format }

func (s *fakeSurface) Configure(cfg *gpu.SurfaceConfig) error {
	s.configs = append(s.configs, *cfg)
	return nil
}

func (s *fakeSurface) Acquire() (gpu.SurfaceTexture, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.lastTexture = &fakeSurfaceTexture{}
	return s.lastTexture, nil
}

func (s *fakeSurface) Present() { s.presented++ }
func (s *fakeSurface) Release() { s.released = true }

type fakeRenderPipeline struct{ released bool }

func (p *fakeRenderPipeline) Release() { p.released = true }

type fakeComputePipeline struct{ released bool }

func (p *fakeComputePipeline) Release() { p.released = true }

type fakeShaderModule struct{}

func (fakeShaderModule) Release() {}

type fakeCommandBuffer struct{}

func (fakeCommandBuffer) Release() {}

type fakeBuffer struct {
	size     uint64
	released bool
}

func (b *fakeBuffer) Size() uint64 { return b.size }
func (b *fakeBuffer) Release()     { b.released = true }

type fakeRenderPass struct{ ended bool }

func (p *fakeRenderPass) SetPipeline(gpu.RenderPipeline)     {}
func (p *fakeRenderPass) SetViewport(x, y, w, h float32)     {}
func (p *fakeRenderPass) SetScissorRect(x, y, w, h uint32)   {}
func (p *fakeRenderPass) SetVertexBuffer(uint32, gpu.Buffer) {}
func (p *fakeRenderPass) Draw(uint32, uint32, uint32)        {}
func (p *fakeRenderPass) End()                               { p.ended = true }

type fakeEncoder struct {
	passes   int
	finished bool
}

func (e *fakeEncoder) BeginRenderPass(gpu.TextureView, *gpu.Color) gpu.RenderPass {
	e.passes++
	return &fakeRenderPass{}
}

func (e *fakeEncoder) CopyTextureToTexture(src, dst gpu.Texture, dstX, dstY, width, height uint32) {
}

func (e *fakeEncoder) Finish() (gpu.CommandBuffer, error) {
	e.finished = true
	return fakeCommandBuffer{}, nil
}

type fakeDevice struct {
	renderPipelines  int
	computePipelines int
	released         bool
}

func (d *fakeDevice) CreateShaderModule(label, wgsl string) (gpu.ShaderModule, error) {
	return fakeShaderModule{}, nil
}

func (d *fakeDevice) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	d.renderPipelines++
	return &fakeRenderPipeline{}, nil
}

func (d *fakeDevice) CreateComputePipeline(desc *gpu.ComputePipelineDescriptor) (gpu.ComputePipeline, error) {
	d.computePipelines++
	return &fakeComputePipeline{}, nil
}

func (d *fakeDevice) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	return &fakeBuffer{size: desc.Size}, nil
}

func (d *fakeDevice) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	return &fakeTexture{}, nil
}

func (d *fakeDevice) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	return &fakeEncoder{}, nil
}

func (d *fakeDevice) Release() { d.released = true }

type bufferWrite struct {
	buf    gpu.Buffer
	offset uint64
	data   []byte
}

type fakeQueue struct {
	writes  []bufferWrite
	submits int
}

func (q *fakeQueue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	q.writes = append(q.writes, bufferWrite{buf: buf, offset: offset, data: data})
}

func (q *fakeQueue) WriteTexture(tex gpu.Texture, data []byte, bytesPerRow, width, height uint32) {
}

func (q *fakeQueue) Submit(buffers ...gpu.CommandBuffer) { q.submits += len(buffers) }
func (q *fakeQueue) Release()                            {}

type fakePlatform struct {
	nextID  WindowID
	device  fakeDevice
	queue   fakeQueue
	batches [][]TargetedEvent
	windows []*fakeWindow
}

func (p *fakePlatform) Init() error { return nil }
func (p *fakePlatform) Terminate()  {}

func (p *fakePlatform) CreateWindow(cfg WindowConfig) (PlatformWindow, error) {
	p.nextID++
	w := &fakeWindow{id: p.nextID, size: cfg.Size, title: cfg.Title}
	p.windows = append(p.windows, w)
	return w, nil
}

func (p *fakePlatform) CreateSurface(win PlatformWindow) (gpu.Surface, error) {
	return &fakeSurface{format: gputypes.TextureFormatBGRA8Unorm}, nil
}

func (p *fakePlatform) RequestDevice(ctx context.Context, compatible gpu.Surface) (gpu.Device, gpu.Queue, error) {
	return &p.device, &p.queue, nil
}

// PumpEvents replays pre-loaded batches, one per call, then returns
// empty batches forever.
func (p *fakePlatform) PumpEvents(timeout time.Duration) ([]TargetedEvent, error) {
	if len(p.batches) == 0 {
		return nil, nil
	}
	batch := p.batches[0]
	p.batches = p.batches[1:]
	return batch, nil
}

func (p *fakePlatform) Wakeup() {}

type fakeScheduler struct {
	requests []WindowID
}

func (s *fakeScheduler) ScheduleRedraw(id WindowID) {
	s.requests = append(s.requests, id)
}

// countingKind builds one fake render pipeline per generation and
// counts how often generation runs.
type countingKind struct {
	name  string
	calls int
}

func (k *countingKind) Name() string { return k.name }

func (k *countingKind) GeneratePipelines(ctx *Context) (*Pipelines, error) {
	k.calls++
	rp, err := ctx.Device.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{Label: k.name})
	if err != nil {
		return nil, err
	}
	return NewPipelines([]gpu.RenderPipeline{rp}, nil), nil
}

// testComponent records render and input calls. It reports a redraw
// whenever inputReact is set.
type testComponent struct {
	kind         Kind
	minSize      Size
	hasMin       bool
	inputReact   bool
	renders      int
	inputs       int
	lastViewport Rect
}

func (c *testComponent) Kind() Kind { return c.kind }

func (c *testComponent) MinSize() (Size, bool) { return c.minSize, c.hasMin }

func (c *testComponent) Render(enc gpu.CommandEncoder, ctx *Context, target gpu.RenderTarget, viewport, clip Rect) error {
	c.renders++
	c.lastViewport = viewport
	return nil
}

func (c *testComponent) HandleInput(ev WindowEvent, pos Point, inside bool) bool {
	c.inputs++
	return c.inputReact
}

func newTestEnv() (*Env, *fakePlatform) {
	p := &fakePlatform{}
	return &Env{
		Platform: p,
		Device:   &p.device,
		Queue:    &p.queue,
		Registry: NewRegistry(),
	}, p
}
