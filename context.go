package winmux

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/winmux/gpu"
)

// Context is a window's render resource holder: the shared device and
// queue, the window's surface pixel format, a per-window staging belt,
// and the process-wide pipeline registry. Every component receives the
// Context of the window it is mounted in.
type Context struct {
	Device gpu.Device
	Queue  gpu.Queue
	Format gputypes.TextureFormat
	Belt   *StagingBelt

	registry *Registry
}

// NewContext creates a Context for one window. The device, queue, and
// registry are shared with every other window; the staging belt and the
// surface format are this window's own.
func NewContext(device gpu.Device, queue gpu.Queue, format gputypes.TextureFormat, registry *Registry) *Context {
	return &Context{
		Device:   device,
		Queue:    queue,
		Format:   format,
		Belt:     NewStagingBelt(queue),
		registry: registry,
	}
}

// Pipelines returns the shared bundle for kind, compiling it only when
// no live bundle exists. Components call this once at construction and
// hold the result; holding is what keeps the bundle alive.
func (c *Context) Pipelines(kind Kind) (*Pipelines, error) {
	return c.registry.pipelines(kind, c)
}

// Registry exposes the shared pipeline registry, primarily so a parent
// window can hand it to a child's Context.
func (c *Context) Registry() *Registry {
	return c.registry
}
