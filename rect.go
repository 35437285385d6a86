package winmux

import "github.com/gogpu/winmux/gpu"

// Rect is an axis-aligned rectangle. Pos is the top-left corner.
type Rect struct {
	Pos  Point
	Size Size
}

// RectOf is a convenience function to create a Rect.
func RectOf(pos Point, size Size) Rect {
	return Rect{Pos: pos, Size: size}
}

// Inside reports whether p lies within the rectangle. Both the left/top
// and right/bottom edges are inclusive, so a rectangle of size (w, h)
// contains points up to and including pos+(w, h).
func (r Rect) Inside(p Point) bool {
	br := r.Pos.Add(r.Size.Point())
	return p.X >= r.Pos.X && p.X <= br.X &&
		p.Y >= r.Pos.Y && p.Y <= br.Y
}

// Add returns the rectangle translated by p. The size is unchanged.
func (r Rect) Add(p Point) Rect {
	return Rect{Pos: r.Pos.Add(p), Size: r.Size}
}

// ClampedToOrigin returns the rectangle clamped to non-negative
// coordinates: a negative origin is moved to zero and the extent shrinks
// by the overflow, bottoming out at zero. The clamping happens in signed
// arithmetic; converting a negative coordinate to unsigned first would
// wrap around to a huge extent instead.
func (r Rect) ClampedToOrigin() Rect {
	c := r
	if c.Pos.X < 0 {
		over := uint32(-c.Pos.X)
		if over >= c.Size.W {
			c.Size.W = 0
		} else {
			c.Size.W -= over
		}
		c.Pos.X = 0
	}
	if c.Pos.Y < 0 {
		over := uint32(-c.Pos.Y)
		if over >= c.Size.H {
			c.Size.H = 0
		} else {
			c.Size.H -= over
		}
		c.Pos.Y = 0
	}
	return c
}

// SetViewportRect applies r as the render pass viewport.
func SetViewportRect(pass gpu.RenderPass, r Rect) {
	pass.SetViewport(
		float32(r.Pos.X), float32(r.Pos.Y),
		float32(r.Size.W), float32(r.Size.H),
	)
}

// SetScissorRect applies r as the render pass scissor, clamped to the
// surface origin first so partially off-screen viewports clip correctly.
func SetScissorRect(pass gpu.RenderPass, r Rect) {
	c := r.ClampedToOrigin()
	pass.SetScissorRect(
		uint32(c.Pos.X), uint32(c.Pos.Y),
		c.Size.W, c.Size.H,
	)
}
