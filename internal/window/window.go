// Package window defines the contract between the application handle and a
// windowing backend.
//
// A Backend is process scoped: it is initialized once, creates windows, pumps
// events and reports time. Events are delivered synchronously on the calling
// goroutine from inside PollEvents, WaitEvents and WaitEventsTimeout, through
// the Handlers bound to each window when it was created.
package window

import (
	"errors"
	"image"
)

// DontCare leaves a size limit unconstrained.
const DontCare = -1

// ErrNotInitialized is returned by CreateWindow before Init succeeded.
var ErrNotInitialized = errors.New("window: backend not initialized")

// Config describes a window to create.
type Config struct {
	Width  int
	Height int
	Title  string
}

// Handlers receive window events. Nil members are skipped.
// Codes follow GLFW numbering; see package input for actions and modifiers.
type Handlers struct {
	CursorPos   func(x, y float64)
	Key         func(key, scancode, action, mods int)
	MouseButton func(button, action, mods int)
	Maximize    func(maximized bool)
	Resize      func(width, height int)
}

// Backend is a windowing system.
type Backend interface {
	Name() string
	Init() error
	Terminate()
	CreateWindow(cfg Config, h Handlers) (Window, error)

	// PollEvents processes pending events and returns immediately.
	PollEvents()
	// WaitEvents blocks until at least one event was processed.
	WaitEvents()
	// WaitEventsTimeout blocks until an event was processed or seconds elapsed.
	WaitEventsTimeout(seconds float64)
	// Time is a monotonic clock in seconds.
	Time() float64
}

// Window is one native window owned by a single application handle.
type Window interface {
	FramebufferSize() (width, height int)
	ShouldClose() bool
	SetShouldClose(v bool)
	Iconified() bool
	SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int)
	SetCursorPos(x, y float64)
	// Present copies a finished frame to the window.
	Present(img *image.RGBA) error
	Destroy()
}

// SurfaceHinter is implemented by backends that prefer a drawing surface
// strategy ("resize" or "recreate").
type SurfaceHinter interface {
	PreferredStrategy() string
}

// Emit helpers keep nil checks out of backends.

func (h Handlers) EmitCursorPos(x, y float64) {
	if h.CursorPos != nil {
		h.CursorPos(x, y)
	}
}

func (h Handlers) EmitKey(key, scancode, action, mods int) {
	if h.Key != nil {
		h.Key(key, scancode, action, mods)
	}
}

func (h Handlers) EmitMouseButton(button, action, mods int) {
	if h.MouseButton != nil {
		h.MouseButton(button, action, mods)
	}
}

func (h Handlers) EmitMaximize(maximized bool) {
	if h.Maximize != nil {
		h.Maximize(maximized)
	}
}

func (h Handlers) EmitResize(width, height int) {
	if h.Resize != nil {
		h.Resize(width, height)
	}
}
