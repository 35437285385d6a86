package winmux

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/gogpu/winmux/gpu"
)

// Kind identifies a component kind and knows how to build its compiled
// pipelines. Kinds with the same Name share one live Pipelines bundle
// across all windows on the same device, so Name must be unique per
// concrete component type.
type Kind interface {
	Name() string
	GeneratePipelines(ctx *Context) (*Pipelines, error)
}

// Pipelines is an immutable bundle of compiled GPU pipelines for one
// component kind. Construction is expensive (shader compilation); reuse
// is free. Components hold the bundle for as long as they need it; the
// underlying GPU objects are released when the last holder drops it and
// the bundle is collected.
type Pipelines struct {
	Render  []gpu.RenderPipeline
	Compute []gpu.ComputePipeline
}

// pipelineResources keeps the release path free of any reference back to
// the Pipelines value, as the cleanup argument must be.
type pipelineResources struct {
	render  []gpu.RenderPipeline
	compute []gpu.ComputePipeline
}

func (r pipelineResources) release() {
	for _, p := range r.render {
		p.Release()
	}
	for _, p := range r.compute {
		p.Release()
	}
}

// NewPipelines bundles freshly compiled pipelines and arranges for their
// GPU objects to be released when the bundle is garbage collected.
func NewPipelines(render []gpu.RenderPipeline, compute []gpu.ComputePipeline) *Pipelines {
	p := &Pipelines{Render: render, Compute: compute}
	res := pipelineResources{render: render, compute: compute}
	runtime.AddCleanup(p, func(r pipelineResources) { r.release() }, res)
	return p
}

// Registry maps component kinds to weakly-held Pipelines bundles. It is
// shared by every window created on the same device, so two windows
// showing the same kind of component observe the same bundle.
//
// The registry never keeps a bundle alive on its own: entries are weak,
// liveness belongs to the components holding strong references. A stale
// entry is simply overwritten on the next lookup. There is no eviction
// API; collection of the last strong holder is the eviction.
type Registry struct {
	mu      sync.Mutex
	entries map[string]weak.Pointer[Pipelines]
}

// NewRegistry creates an empty pipeline registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]weak.Pointer[Pipelines])}
}

// pipelines returns the live bundle for kind, building a fresh one when
// the entry is missing or its target has been collected.
func (r *Registry) pipelines(kind Kind, ctx *Context) (*Pipelines, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := kind.Name()
	if wp, ok := r.entries[name]; ok {
		if p := wp.Value(); p != nil {
			Logger().Debug("pipeline cache hit", "kind", name)
			return p, nil
		}
	}

	p, err := kind.GeneratePipelines(ctx)
	if err != nil {
		return nil, fmt.Errorf("winmux: generate pipelines for %q: %w", name, err)
	}
	r.entries[name] = weak.Make(p)
	Logger().Debug("pipeline cache miss, bundle built",
		"kind", name, "render", len(p.Render), "compute", len(p.Compute))
	return p, nil
}
