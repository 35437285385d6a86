// Package gpu defines the narrow GPU contract the windowing core
// depends on.
//
// The core never talks to a concrete GPU binding. It receives these
// interfaces from a backend (see backend/) and uses only the
// primitives it needs: acquire the next presentable surface texture,
// create a command encoder, record passes, submit, present. This keeps
// everything above the backend testable without a device and keeps the
// wgpu-specific glue in one place.
//
// All objects here are single-goroutine; the core is cooperative and
// never shares a device object across goroutines.
package gpu

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Surface acquisition errors. Backends classify their native failure
// modes into these sentinels; everything else is reported as-is and
// treated as a skippable frame.
var (
	// ErrSurfaceLost indicates the surface's swapchain is no longer
	// valid (window moved between displays, driver reset, outdated
	// configuration). The window treats this as an implicit resize and
	// reconfigures on its next update.
	ErrSurfaceLost = errors.New("gpu: surface lost")

	// ErrSurfaceOutOfMemory indicates the backend cannot allocate a
	// presentable texture. Fatal to the affected window only.
	ErrSurfaceOutOfMemory = errors.New("gpu: surface out of memory")
)

// PresentMode selects how presented frames are paced.
type PresentMode int

const (
	// PresentModeAutoNoVsync presents without waiting for vertical
	// blank, falling back to a supported mode if unavailable.
	PresentModeAutoNoVsync PresentMode = iota

	// PresentModeFifo waits for vertical blank (always supported).
	PresentModeFifo
)

// SurfaceConfig describes the presentation state of a surface.
// Width and Height are in physical pixels.
type SurfaceConfig struct {
	Format      gputypes.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode PresentMode
}

// Device creates GPU resources. Obtained once per process through
// Platform.RequestDevice and shared by every window.
type Device interface {
	// CreateShaderModule compiles WGSL source into a shader module.
	CreateShaderModule(label, wgsl string) (ShaderModule, error)

	// CreateRenderPipeline builds a compiled render pipeline.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateComputePipeline builds a compiled compute pipeline.
	CreateComputePipeline(desc *ComputePipelineDescriptor) (ComputePipeline, error)

	// CreateBuffer allocates a GPU buffer.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// CreateTexture allocates a 2D texture.
	CreateTexture(desc *TextureDescriptor) (Texture, error)

	// CreateCommandEncoder begins recording one command sequence.
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Release drops the device. Called once at teardown.
	Release()
}

// Queue submits recorded work and performs direct uploads.
type Queue interface {
	// WriteBuffer schedules a CPU→GPU copy into buf at offset.
	WriteBuffer(buf Buffer, offset uint64, data []byte)

	// WriteTexture schedules a CPU→GPU copy of tightly packed pixel
	// rows into the texture.
	WriteTexture(tex Texture, data []byte, bytesPerRow, width, height uint32)

	// Submit hands finished command buffers to the GPU.
	Submit(buffers ...CommandBuffer)

	Release()
}

// Surface is a window's presentable target.
type Surface interface {
	// PreferredFormat returns the pixel format the surface should be
	// configured with on this adapter.
	PreferredFormat() gputypes.TextureFormat

	// Configure (re)creates the swapchain for the given size and mode.
	Configure(cfg *SurfaceConfig) error

	// Acquire returns the next presentable texture. May fail with
	// ErrSurfaceLost, ErrSurfaceOutOfMemory, or a backend-specific
	// error (skippable frame).
	Acquire() (SurfaceTexture, error)

	// Present shows the most recently acquired texture.
	Present()

	Release()
}

// SurfaceTexture is one acquired swapchain image. It must be released
// after Present, or immediately when the frame is abandoned.
type SurfaceTexture interface {
	RenderTarget
	Release()
}

// RenderTarget is what a drawable renders into: a texture view for
// render passes, and the backing texture for direct copies.
type RenderTarget interface {
	View() TextureView
	Texture() Texture
}

// CommandEncoder records one frame's command sequence.
type CommandEncoder interface {
	// BeginRenderPass starts a pass targeting view. Existing contents
	// are loaded unless clear is non-nil.
	BeginRenderPass(view TextureView, clear *Color) RenderPass

	// CopyTextureToTexture copies a width×height region from the
	// origin of src to (dstX, dstY) in dst.
	CopyTextureToTexture(src, dst Texture, dstX, dstY, width, height uint32)

	// Finish ends recording and returns the submittable buffer. The
	// encoder must not be used afterwards.
	Finish() (CommandBuffer, error)
}

// RenderPass records draw commands for one pass.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetViewport(x, y, w, h float32)
	SetScissorRect(x, y, w, h uint32)
	SetVertexBuffer(slot uint32, buf Buffer)
	Draw(vertexCount, instanceCount, firstVertex uint32)
	End()
}

// Color is a normalized RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// Opaque GPU objects. Pipelines are immutable after creation and cheap
// to share; Release frees the native object.
type (
	ShaderModule interface{ Release() }

	RenderPipeline interface{ Release() }

	ComputePipeline interface{ Release() }

	CommandBuffer interface{ Release() }

	TextureView interface{ Release() }
)

// Buffer is a GPU buffer allocation.
type Buffer interface {
	Size() uint64
	Release()
}

// Texture is a GPU texture allocation.
type Texture interface {
	// CreateView returns a full view of the texture.
	CreateView() (TextureView, error)
	Release()
}

// BufferUsage flags, combinable with bitwise OR.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageCopySrc
	BufferUsageCopyDst
)

// BufferDescriptor describes a buffer allocation.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// TextureUsage flags, combinable with bitwise OR.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageRenderAttachment
)

// TextureDescriptor describes a 2D texture allocation.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Usage  TextureUsage
}

// VertexFormat enumerates the vertex attribute formats the core emits.
type VertexFormat int

const (
	VertexFormatFloat32x2 VertexFormat = iota
	VertexFormatFloat32x4
)

// VertexAttribute is one attribute within a vertex buffer layout.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64
	Attributes  []VertexAttribute
}

// PrimitiveTopology enumerates the primitive assemblies the core uses.
type PrimitiveTopology int

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyLineStrip
)

// RenderPipelineDescriptor describes a render pipeline. WGSL holds the
// full shader source; the vertex and fragment entry points name
// functions within it. TargetFormat is the surface format the pipeline
// renders to.
type RenderPipelineDescriptor struct {
	Label         string
	WGSL          string
	VertexEntry   string
	FragmentEntry string
	VertexBuffers []VertexBufferLayout
	Topology      PrimitiveTopology
	TargetFormat  gputypes.TextureFormat
	AlphaBlending bool
}

// ComputePipelineDescriptor describes a compute pipeline.
type ComputePipelineDescriptor struct {
	Label string
	WGSL  string
	Entry string
}
