package headless

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/winmux/gpu"
)

// Device is the in-memory GPU device. Shader sources still go through
// naga, so invalid WGSL fails pipeline creation exactly as it would on
// a real device. The exported counters record object creation.
type Device struct {
	ShaderModules    int
	RenderPipelines  int
	ComputePipelines int
	Buffers          int
	Textures         int
	Encoders         int

	released bool
}

func (d *Device) CreateShaderModule(label, wgsl string) (gpu.ShaderModule, error) {
	if _, err := naga.Compile(wgsl); err != nil {
		return nil, fmt.Errorf("headless: compile shader %q: %w", label, err)
	}
	d.ShaderModules++
	return &shaderModule{}, nil
}

func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	if _, err := naga.Compile(desc.WGSL); err != nil {
		return nil, fmt.Errorf("headless: compile shader for pipeline %q: %w", desc.Label, err)
	}
	d.RenderPipelines++
	return &renderPipeline{desc: *desc}, nil
}

func (d *Device) CreateComputePipeline(desc *gpu.ComputePipelineDescriptor) (gpu.ComputePipeline, error) {
	if _, err := naga.Compile(desc.WGSL); err != nil {
		return nil, fmt.Errorf("headless: compile shader for pipeline %q: %w", desc.Label, err)
	}
	d.ComputePipelines++
	return &computePipeline{}, nil
}

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	d.Buffers++
	return &buffer{size: desc.Size}, nil
}

func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	d.Textures++
	return &texture{width: desc.Width, height: desc.Height, usage: desc.Usage}, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	d.Encoders++
	return &encoder{}, nil
}

func (d *Device) Release() { d.released = true }

// Queue is the in-memory submission queue. The exported counters record
// uploads and submissions.
type Queue struct {
	BufferWrites  int
	TextureWrites int
	Submits       int
}

func (q *Queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	q.BufferWrites++
}

func (q *Queue) WriteTexture(tex gpu.Texture, data []byte, bytesPerRow, width, height uint32) {
	q.TextureWrites++
}

func (q *Queue) Submit(buffers ...gpu.CommandBuffer) {
	q.Submits += len(buffers)
}

func (q *Queue) Release() {}

type shaderModule struct{ released bool }

func (m *shaderModule) Release() { m.released = true }

type renderPipeline struct {
	desc     gpu.RenderPipelineDescriptor
	released bool
}

func (p *renderPipeline) Release() { p.released = true }

type computePipeline struct{ released bool }

func (p *computePipeline) Release() { p.released = true }

type commandBuffer struct{}

func (commandBuffer) Release() {}

type buffer struct {
	size     uint64
	released bool
}

func (b *buffer) Size() uint64 { return b.size }
func (b *buffer) Release()     { b.released = true }

type texture struct {
	width, height uint32
	usage         gpu.TextureUsage
	released      bool
}

func (t *texture) CreateView() (gpu.TextureView, error) { return &textureView{}, nil }
func (t *texture) Release()                             { t.released = true }

type textureView struct{ released bool }

func (v *textureView) Release() { v.released = true }

type encoder struct {
	passes   int
	copies   int
	finished bool
	err      error
}

func (e *encoder) BeginRenderPass(view gpu.TextureView, clear *gpu.Color) gpu.RenderPass {
	e.passes++
	return &renderPass{}
}

// CopyTextureToTexture records the copy and enforces the usage rules a
// real device validates: CopySrc on the source, CopyDst on the
// destination. Violations surface from Finish, like a submit-time
// validation error would.
func (e *encoder) CopyTextureToTexture(src, dst gpu.Texture, dstX, dstY, width, height uint32) {
	e.copies++
	if s, ok := src.(*texture); ok && s.usage&gpu.TextureUsageCopySrc == 0 {
		e.err = fmt.Errorf("headless: copy source lacks CopySrc usage")
	}
	if d, ok := dst.(*texture); ok && d.usage&gpu.TextureUsageCopyDst == 0 {
		e.err = fmt.Errorf("headless: copy destination lacks CopyDst usage")
	}
}

func (e *encoder) Finish() (gpu.CommandBuffer, error) {
	if e.finished {
		return nil, fmt.Errorf("headless: encoder finished twice")
	}
	e.finished = true
	if e.err != nil {
		return nil, e.err
	}
	return commandBuffer{}, nil
}

type renderPass struct {
	draws int
	ended bool
}

func (p *renderPass) SetPipeline(gpu.RenderPipeline)     {}
func (p *renderPass) SetViewport(x, y, w, h float32)     {}
func (p *renderPass) SetScissorRect(x, y, w, h uint32)   {}
func (p *renderPass) SetVertexBuffer(uint32, gpu.Buffer) {}
func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex uint32) {
	p.draws++
}
func (p *renderPass) End() { p.ended = true }
