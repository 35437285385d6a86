// Package components provides the concrete drawables mounted into
// winmux windows: a freehand drawing canvas and an image viewer.
//
// Both acquire their compiled pipelines through the window's render
// context, so any number of windows showing the same component kind
// share one pipeline bundle.
package components
