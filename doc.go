// Package winmux is the windowing and rendering-resource core of an
// interactive multi-window drawing application.
//
// The package owns three tightly coupled pieces:
//
//   - the window multiplexer (Mux), the single process-wide owner of all
//     live windows, which routes platform events to the right window and
//     reconciles window lifecycles once per tick;
//   - the pipeline registry (Registry), a weakly-cached mapping from
//     component kind to a shared bundle of compiled GPU pipelines, so
//     windows showing the same kind of component never compile the same
//     shaders twice;
//   - the viewport/clip geometry (Point, Size, Rect) used to partition a
//     window's drawable surface among its components.
//
// Platform windowing and the GPU device are external collaborators,
// abstracted behind the Platform interface and the gpu subpackage.
// Concrete implementations live under backend/: backend/wgpu drives real
// windows through GLFW and WebGPU, backend/headless is an in-memory
// double for tests. Drawable components live under components/.
//
// The core is single-threaded and cooperative: the platform loop
// delivers events and idle ticks one at a time, and nothing in this
// package spawns goroutines or takes locks on the hot path.
package winmux
