// Package backend selects the platform implementation driving winmux:
// native windows through GLFW and WebGPU (backend/wgpu) or an
// in-memory double for tests and CI (backend/headless).
//
// Backends register themselves from init() functions; importers pick
// one by name with Get or take the best available with Default.
package backend

import (
	"errors"

	"github.com/gogpu/winmux"
)

// Well-known backend names.
const (
	BackendWGPU     = "wgpu"
	BackendHeadless = "headless"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is
	// not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory creates a new platform instance.
type Factory func() winmux.Platform
