package components

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/winmux"
	"github.com/gogpu/winmux/gpu"
)

// canvasWGSL draws pre-transformed clip-space vertices in a flat
// stroke color.
const canvasWGSL = `
@vertex
fn vs_main(@location(0) position: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.88, 0.90, 0.96, 1.0);
}
`

const minVertexBufferSize = 4096

// CanvasKind identifies the canvas pipeline bundle.
type CanvasKind struct{}

func (CanvasKind) Name() string { return "canvas" }

// GeneratePipelines compiles the canvas line pipeline for the
// context's surface format. Invoked only by the registry's miss path.
func (CanvasKind) GeneratePipelines(ctx *winmux.Context) (*winmux.Pipelines, error) {
	rp, err := ctx.Device.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
		Label:         "canvas",
		WGSL:          canvasWGSL,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		VertexBuffers: []gpu.VertexBufferLayout{{
			ArrayStride: 8,
			Attributes: []gpu.VertexAttribute{{
				Format:         gpu.VertexFormatFloat32x2,
				Offset:         0,
				ShaderLocation: 0,
			}},
		}},
		Topology:     gpu.PrimitiveTopologyLineStrip,
		TargetFormat: ctx.Format,
	})
	if err != nil {
		return nil, err
	}
	return winmux.NewPipelines([]gpu.RenderPipeline{rp}, nil), nil
}

// Canvas is a freehand drawing surface. Dragging with the left button
// appends stroke points; the C key clears everything. Points are kept
// viewport-relative so strokes survive window resizes.
type Canvas struct {
	pipelines *winmux.Pipelines

	strokes [][]winmux.Point
	drawing bool

	buf    gpu.Buffer
	bufCap uint64
}

// NewCanvas creates a canvas, acquiring the shared pipeline bundle
// through ctx.
func NewCanvas(ctx *winmux.Context) (*Canvas, error) {
	ps, err := ctx.Pipelines(CanvasKind{})
	if err != nil {
		return nil, fmt.Errorf("components: canvas pipelines: %w", err)
	}
	return &Canvas{pipelines: ps}, nil
}

func (c *Canvas) Kind() winmux.Kind { return CanvasKind{} }

func (c *Canvas) MinSize() (winmux.Size, bool) {
	return winmux.Size{W: 32, H: 32}, true
}

// HandleInput folds pointer and keyboard input into stroke state.
func (c *Canvas) HandleInput(ev winmux.WindowEvent, pos winmux.Point, inside bool) bool {
	switch e := ev.(type) {
	case winmux.MouseInput:
		if e.Button != winmux.MouseButtonLeft {
			return false
		}
		if e.State == winmux.ButtonPressed && inside {
			c.drawing = true
			c.strokes = append(c.strokes, []winmux.Point{pos})
			return true
		}
		if e.State == winmux.ButtonReleased {
			c.drawing = false
		}
		return false
	case winmux.CursorMoved:
		if c.drawing && inside {
			last := len(c.strokes) - 1
			c.strokes[last] = append(c.strokes[last], pos)
			return true
		}
		return false
	case winmux.CursorLeft:
		c.drawing = false
		return false
	case winmux.KeyInput:
		if e.Key == winmux.KeyC && e.State == winmux.ButtonPressed && len(c.strokes) > 0 {
			c.strokes = nil
			c.drawing = false
			return true
		}
		return false
	default:
		return false
	}
}

// StrokeCount returns the number of recorded strokes.
func (c *Canvas) StrokeCount() int { return len(c.strokes) }

// Render uploads the stroke vertices through the staging belt and
// draws each stroke as a line strip clipped to clip.
func (c *Canvas) Render(enc gpu.CommandEncoder, ctx *winmux.Context, target gpu.RenderTarget, viewport, clip winmux.Rect) error {
	if viewport.Size.IsEmpty() {
		return nil
	}

	data, counts := c.vertexData(viewport.Size)
	if len(counts) == 0 {
		return nil
	}

	if err := c.ensureBuffer(ctx, uint64(len(data))); err != nil {
		return err
	}
	if err := ctx.Belt.Write(c.buf, 0, data); err != nil {
		return err
	}

	pass := enc.BeginRenderPass(target.View(), nil)
	pass.SetPipeline(c.pipelines.Render[0])
	winmux.SetViewportRect(pass, viewport)
	winmux.SetScissorRect(pass, clip)
	pass.SetVertexBuffer(0, c.buf)
	first := uint32(0)
	for _, n := range counts {
		pass.Draw(n, 1, first)
		first += n
	}
	pass.End()
	return nil
}

// Release frees the vertex buffer.
func (c *Canvas) Release() {
	if c.buf != nil {
		c.buf.Release()
		c.buf = nil
		c.bufCap = 0
	}
}

// vertexData converts the strokes to clip-space float32 pairs for the
// given viewport size, returning the packed bytes and the vertex count
// of each drawable stroke. Single-point strokes are not drawable.
func (c *Canvas) vertexData(size winmux.Size) ([]byte, []uint32) {
	var data []byte
	var counts []uint32
	w, h := float32(size.W), float32(size.H)
	for _, stroke := range c.strokes {
		if len(stroke) < 2 {
			continue
		}
		for _, p := range stroke {
			x := 2*float32(p.X)/w - 1
			y := 1 - 2*float32(p.Y)/h
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(x))
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(y))
		}
		counts = append(counts, uint32(len(stroke)))
	}
	return data, counts
}

// ensureBuffer grows the vertex buffer to hold at least need bytes.
func (c *Canvas) ensureBuffer(ctx *winmux.Context, need uint64) error {
	if c.buf != nil && c.bufCap >= need {
		return nil
	}
	size := uint64(minVertexBufferSize)
	for size < need {
		size *= 2
	}
	buf, err := ctx.Device.CreateBuffer(&gpu.BufferDescriptor{
		Label: "canvas vertices",
		Size:  size,
		Usage: gpu.BufferUsageVertex | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("components: canvas vertex buffer: %w", err)
	}
	if c.buf != nil {
		c.buf.Release()
	}
	c.buf = buf
	c.bufCap = size
	return nil
}
