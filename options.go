package winmux

import "github.com/gogpu/winmux/gpu"

// WindowOption configures a DrawingWindow during creation.
type WindowOption func(*windowOptions)

// windowOptions holds optional configuration for DrawingWindow creation.
type windowOptions struct {
	components  []Component
	builders    []ComponentBuilder
	spawner     Spawner
	presentMode gpu.PresentMode
}

func defaultWindowOptions() windowOptions {
	return windowOptions{
		presentMode: gpu.PresentModeAutoNoVsync,
	}
}

// WithComponents mounts components into the window. They share the
// surface as equal-width columns in the given order.
func WithComponents(comps ...Component) WindowOption {
	return func(o *windowOptions) {
		o.components = append(o.components, comps...)
	}
}

// ComponentBuilder constructs a component against the render context of
// the window it is mounted in. Use it when construction needs the
// context, typically to acquire the shared pipeline bundle.
type ComponentBuilder func(*Context) (Component, error)

// WithComponentBuilders mounts components built from the window's own
// render context, after any components given with WithComponents.
func WithComponentBuilders(builders ...ComponentBuilder) WindowOption {
	return func(o *windowOptions) {
		o.builders = append(o.builders, builders...)
	}
}

// WithSpawner installs the constructor used when the window requests a
// child (keys N and I). Without one, spawn requests are ignored.
func WithSpawner(s Spawner) WindowOption {
	return func(o *windowOptions) {
		o.spawner = s
	}
}

// WithPresentMode overrides the surface present mode. The default
// presents without vsync, pacing left to the frame limiter.
func WithPresentMode(m gpu.PresentMode) WindowOption {
	return func(o *windowOptions) {
		o.presentMode = m
	}
}

// MuxOption configures a Mux during creation.
type MuxOption func(*muxOptions)

// muxOptions holds optional configuration for Mux creation.
type muxOptions struct {
	fps uint
}

func defaultMuxOptions() muxOptions {
	return muxOptions{fps: DefaultFPS}
}

// WithFPS sets the frame limiter's target redraw rate. Zero is treated
// as the default.
func WithFPS(fps uint) MuxOption {
	return func(o *muxOptions) {
		if fps > 0 {
			o.fps = fps
		}
	}
}
