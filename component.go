package winmux

import "github.com/gogpu/winmux/gpu"

// Component is one drawable unit mounted in a window. A window assigns
// each component a viewport rectangle on its surface and invokes Render
// once per frame.
//
// Render must not block and must not retain the encoder past the call.
// Draw commands are constrained to viewport and further clipped to clip.
type Component interface {
	// Kind identifies the component's pipeline bundle in the registry.
	Kind() Kind

	// MinSize advertises a minimum usable drawing area. The second
	// return is false when the component is unconstrained.
	MinSize() (Size, bool)

	// Render records this component's draw/compute commands for one
	// frame into enc, targeting the window surface.
	Render(enc gpu.CommandEncoder, ctx *Context, target gpu.RenderTarget, viewport, clip Rect) error
}

// InputComponent is a Component that consumes pointer and keyboard
// input. HandleInput receives each window event together with the
// cursor position relative to the component's viewport and whether the
// cursor is over it. It reports whether visual state changed and a
// redraw is warranted.
type InputComponent interface {
	Component
	HandleInput(ev WindowEvent, pos Point, inside bool) bool
}
