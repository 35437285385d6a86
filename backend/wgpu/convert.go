package wgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/winmux/gpu"
)

// Translation between the core's backend-neutral vocabulary and the
// native WebGPU enums. Only the formats the surface path actually
// produces are mapped; anything else falls back to BGRA8Unorm, the
// universally supported surface format.

func nativeFormat(f gputypes.TextureFormat) wgpu.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gputypes.TextureFormatRGBA8UnormSrgb:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case gputypes.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatBGRA8UnormSrgb:
		return wgpu.TextureFormatBGRA8UnormSrgb
	case gputypes.TextureFormatR8Unorm:
		return wgpu.TextureFormatR8Unorm
	default:
		return wgpu.TextureFormatBGRA8Unorm
	}
}

func coreFormat(f wgpu.TextureFormat) gputypes.TextureFormat {
	switch f {
	case wgpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case wgpu.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return gputypes.TextureFormatBGRA8UnormSrgb
	case wgpu.TextureFormatR8Unorm:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatBGRA8Unorm
	}
}

func nativeVertexFormat(f gpu.VertexFormat) wgpu.VertexFormat {
	switch f {
	case gpu.VertexFormatFloat32x4:
		return wgpu.VertexFormatFloat32x4
	default:
		return wgpu.VertexFormatFloat32x2
	}
}

func nativeTopology(t gpu.PrimitiveTopology) wgpu.PrimitiveTopology {
	switch t {
	case gpu.PrimitiveTopologyLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func nativePresentMode(m gpu.PresentMode) wgpu.PresentMode {
	switch m {
	case gpu.PresentModeFifo:
		return wgpu.PresentModeFifo
	default:
		return wgpu.PresentModeImmediate
	}
}

func nativeBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&gpu.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&gpu.BufferUsageCopySrc != 0 {
		out |= wgpu.BufferUsageCopySrc
	}
	if u&gpu.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

func nativeTextureUsage(u gpu.TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&gpu.TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	if u&gpu.TextureUsageCopyDst != 0 {
		out |= wgpu.TextureUsageCopyDst
	}
	if u&gpu.TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	return out
}
