package winmux

import "errors"

// ErrNegativeExtent reports a Point → Size conversion where at least one
// coordinate was negative.
var ErrNegativeExtent = errors.New("winmux: negative extent")

// Point is a signed 2D coordinate in physical pixels.
type Point struct {
	X, Y int32
}

// Pt is a convenience function to create a Point.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// PointFromPixels converts a platform physical position to a Point,
// truncating toward zero.
func PointFromPixels(x, y float64) Point {
	return Point{X: int32(x), Y: int32(y)}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is an unsigned 2D extent in physical pixels.
type Size struct {
	W, H uint32
}

// SizeFromPoint converts a Point to a Size. It fails with
// ErrNegativeExtent when either coordinate is negative.
func SizeFromPoint(p Point) (Size, error) {
	if p.X < 0 || p.Y < 0 {
		return Size{}, ErrNegativeExtent
	}
	return Size{W: uint32(p.X), H: uint32(p.Y)}, nil
}

// IsEmpty reports whether either dimension is zero. An empty size is not
// a valid surface configuration.
func (s Size) IsEmpty() bool {
	return s.W == 0 || s.H == 0
}

// Point returns the size as a point. Dimensions above math.MaxInt32
// saturate rather than wrap.
func (s Size) Point() Point {
	x := s.W
	if x > 1<<31-1 {
		x = 1<<31 - 1
	}
	y := s.H
	if y > 1<<31-1 {
		y = 1<<31 - 1
	}
	return Point{X: int32(x), Y: int32(y)}
}
