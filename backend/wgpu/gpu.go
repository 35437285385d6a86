package wgpu

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/winmux/gpu"
)

// Device wraps the native WebGPU device behind the core's contract.
type Device struct {
	native *wgpu.Device
}

func (d *Device) CreateShaderModule(label, wgsl string) (gpu.ShaderModule, error) {
	m, err := d.native.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader %q: %w", label, err)
	}
	return &shaderModule{native: m}, nil
}

func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	module, err := d.native.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader for pipeline %q: %w", desc.Label, err)
	}
	defer module.Release()

	target := wgpu.ColorTargetState{
		Format:    nativeFormat(desc.TargetFormat),
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if desc.AlphaBlending {
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	buffers := make([]wgpu.VertexBufferLayout, 0, len(desc.VertexBuffers))
	for _, vb := range desc.VertexBuffers {
		attrs := make([]wgpu.VertexAttribute, 0, len(vb.Attributes))
		for _, a := range vb.Attributes {
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         nativeVertexFormat(a.Format),
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			})
		}
		buffers = append(buffers, wgpu.VertexBufferLayout{
			ArrayStride: vb.ArrayStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}

	p, err := d.native.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  nativeTopology(desc.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline %q: %w", desc.Label, err)
	}
	return &renderPipeline{native: p}, nil
}

func (d *Device) CreateComputePipeline(desc *gpu.ComputePipelineDescriptor) (gpu.ComputePipeline, error) {
	module, err := d.native.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: desc.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile shader for pipeline %q: %w", desc.Label, err)
	}
	defer module.Release()

	p, err := d.native.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: desc.Label,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: desc.Entry,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline %q: %w", desc.Label, err)
	}
	return &computePipeline{native: p}, nil
}

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	b, err := d.native.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: nativeBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %q: %w", desc.Label, err)
	}
	return &buffer{native: b, size: desc.Size}, nil
}

func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	t, err := d.native.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        nativeFormat(desc.Format),
		Usage:         nativeTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	return &texture{native: t}, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	e, err := d.native.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder %q: %w", label, err)
	}
	return &encoder{native: e}, nil
}

// Release is a no-op; the platform owns the native device and releases
// it in Terminate.
func (d *Device) Release() {}

// Queue wraps the native submission queue.
type Queue struct {
	native *wgpu.Queue
}

func (q *Queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	q.native.WriteBuffer(buf.(*buffer).native, offset, data)
}

func (q *Queue) WriteTexture(tex gpu.Texture, data []byte, bytesPerRow, width, height uint32) {
	q.native.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.(*texture).native,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
}

func (q *Queue) Submit(buffers ...gpu.CommandBuffer) {
	for _, cb := range buffers {
		q.native.Submit(cb.(*commandBuffer).native)
	}
}

func (q *Queue) Release() {}

// Surface wraps a native window surface.
type Surface struct {
	native   *wgpu.Surface
	platform *Platform
	released bool
}

// PreferredFormat returns the adapter's first supported surface format.
// Requires the device handshake to have completed.
func (s *Surface) PreferredFormat() gputypes.TextureFormat {
	if s.platform.adapter == nil {
		return gputypes.TextureFormatBGRA8Unorm
	}
	caps := s.native.GetCapabilities(s.platform.adapter)
	if len(caps.Formats) == 0 {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return coreFormat(caps.Formats[0])
}

func (s *Surface) Configure(cfg *gpu.SurfaceConfig) error {
	if s.platform.adapter == nil || s.platform.device == nil {
		return fmt.Errorf("wgpu: configure surface before device handshake")
	}
	caps := s.native.GetCapabilities(s.platform.adapter)
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}
	// CopyDst: image windows blit into the swapchain texture.
	s.native.Configure(s.platform.adapter, s.platform.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopyDst,
		Format:      nativeFormat(cfg.Format),
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: nativePresentMode(cfg.PresentMode),
		AlphaMode:   alphaMode,
	})
	return nil
}

func (s *Surface) Acquire() (gpu.SurfaceTexture, error) {
	t, err := s.native.GetCurrentTexture()
	if err != nil {
		return nil, classifyAcquireError(err)
	}
	view, err := t.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("wgpu: create surface view: %w", err)
	}
	return &surfaceTexture{tex: t, view: view}, nil
}

func (s *Surface) Present() {
	s.native.Present()
}

func (s *Surface) Release() {
	if !s.released {
		s.native.Release()
		s.released = true
	}
}

// classifyAcquireError maps the native acquisition failure onto the
// core's taxonomy. wgpu-native reports these as strings, so matching
// on the message is the only handle available.
func classifyAcquireError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "lost"), strings.Contains(msg, "outdated"):
		return gpu.ErrSurfaceLost
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		return gpu.ErrSurfaceOutOfMemory
	default:
		return fmt.Errorf("wgpu: acquire surface texture: %w", err)
	}
}

type surfaceTexture struct {
	tex  *wgpu.Texture
	view *wgpu.TextureView
}

func (t *surfaceTexture) View() gpu.TextureView { return &textureView{native: t.view} }
func (t *surfaceTexture) Texture() gpu.Texture  { return &texture{native: t.tex} }

func (t *surfaceTexture) Release() {
	t.view.Release()
	t.tex.Release()
}

type encoder struct {
	native *wgpu.CommandEncoder
}

func (e *encoder) BeginRenderPass(view gpu.TextureView, clear *gpu.Color) gpu.RenderPass {
	attachment := wgpu.RenderPassColorAttachment{
		View:    view.(*textureView).native,
		LoadOp:  wgpu.LoadOpLoad,
		StoreOp: wgpu.StoreOpStore,
	}
	if clear != nil {
		attachment.LoadOp = wgpu.LoadOpClear
		attachment.ClearValue = wgpu.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A}
	}
	pass := e.native.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
	})
	return &renderPass{native: pass}
}

func (e *encoder) CopyTextureToTexture(src, dst gpu.Texture, dstX, dstY, width, height uint32) {
	e.native.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{
			Texture: src.(*texture).native,
			Origin:  wgpu.Origin3D{},
			Aspect:  wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyTexture{
			Texture: dst.(*texture).native,
			Origin:  wgpu.Origin3D{X: dstX, Y: dstY},
			Aspect:  wgpu.TextureAspectAll,
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
}

func (e *encoder) Finish() (gpu.CommandBuffer, error) {
	cb, err := e.native.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: finish command encoder: %w", err)
	}
	e.native.Release()
	return &commandBuffer{native: cb}, nil
}

type renderPass struct {
	native *wgpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(rp gpu.RenderPipeline) {
	p.native.SetPipeline(rp.(*renderPipeline).native)
}

func (p *renderPass) SetViewport(x, y, w, h float32) {
	p.native.SetViewport(x, y, w, h, 0, 1)
}

func (p *renderPass) SetScissorRect(x, y, w, h uint32) {
	p.native.SetScissorRect(x, y, w, h)
}

func (p *renderPass) SetVertexBuffer(slot uint32, buf gpu.Buffer) {
	p.native.SetVertexBuffer(slot, buf.(*buffer).native, 0, wgpu.WholeSize)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex uint32) {
	p.native.Draw(vertexCount, instanceCount, firstVertex, 0)
}

func (p *renderPass) End() {
	p.native.End()
	p.native.Release()
}

type shaderModule struct{ native *wgpu.ShaderModule }

func (m *shaderModule) Release() { m.native.Release() }

type renderPipeline struct{ native *wgpu.RenderPipeline }

func (p *renderPipeline) Release() { p.native.Release() }

type computePipeline struct{ native *wgpu.ComputePipeline }

func (p *computePipeline) Release() { p.native.Release() }

type commandBuffer struct{ native *wgpu.CommandBuffer }

func (c *commandBuffer) Release() { c.native.Release() }

type buffer struct {
	native *wgpu.Buffer
	size   uint64
}

func (b *buffer) Size() uint64 { return b.size }
func (b *buffer) Release()     { b.native.Release() }

type texture struct{ native *wgpu.Texture }

func (t *texture) CreateView() (gpu.TextureView, error) {
	v, err := t.native.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	return &textureView{native: v}, nil
}

func (t *texture) Release() { t.native.Release() }

type textureView struct{ native *wgpu.TextureView }

func (v *textureView) Release() { v.native.Release() }
