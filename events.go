package winmux

// WindowID identifies one platform window. IDs are assigned by the
// platform backend and are unique among live windows.
type WindowID uint64

// WindowEvent is one platform input event targeted at a single window.
// The set of implementations is closed; backends translate native
// events into these and nothing else.
type WindowEvent interface {
	isWindowEvent()
}

// TargetedEvent pairs a WindowEvent with the window it is for.
type TargetedEvent struct {
	Window WindowID
	Event  WindowEvent
}

// ButtonState reports whether a button or key went down or up.
type ButtonState int

const (
	ButtonPressed ButtonState = iota
	ButtonReleased
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonOther
)

// Key identifies the keyboard keys the core reacts to. Backends map
// everything else to KeyOther.
type Key int

const (
	KeyOther Key = iota
	KeyN
	KeyI
	KeyC
	KeyEscape
)

// CursorMoved reports the pointer position in physical pixels, relative
// to the window's top-left corner.
type CursorMoved struct {
	Pos Point
}

// CursorLeft reports the pointer leaving the window.
type CursorLeft struct{}

// MouseInput reports a pointer button transition.
type MouseInput struct {
	Button MouseButton
	State  ButtonState
}

// KeyInput reports a keyboard key transition.
type KeyInput struct {
	Key   Key
	State ButtonState
}

// Resized reports a new framebuffer size in physical pixels. Either
// dimension may be zero (minimized window).
type Resized struct {
	Size Size
}

// CloseRequested reports the user asking the window to close. The
// window flags intent; the actual transition happens on its next
// update.
type CloseRequested struct{}

// RedrawRequested reports that the platform wants the window repainted,
// either because the frame limiter's interval elapsed or because the
// window was exposed.
type RedrawRequested struct{}

func (CursorMoved) isWindowEvent()    {}
func (CursorLeft) isWindowEvent()     {}
func (MouseInput) isWindowEvent()     {}
func (KeyInput) isWindowEvent()       {}
func (Resized) isWindowEvent()        {}
func (CloseRequested) isWindowEvent() {}
func (RedrawRequested) isWindowEvent() {}
