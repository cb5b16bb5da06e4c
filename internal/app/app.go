// Package app is the application handle: one native window, its drawing
// surface, its frame loop and the input state its callbacks update.
//
// A Runtime owns the process-wide windowing backend. Create handles from it,
// drive each handle from the goroutine that created the runtime, and tear
// everything down with Destroy. Nothing here exits the process; that choice
// belongs to the caller.
//
// A typical loop:
//
//	for !a.ShouldClose() {
//		a.BeginFrame()
//		// draw with a.Context()
//		a.EndFrame()
//		rt.WaitEvents()
//	}
//	a.Destroy()
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gg"

	"glfwcanvas/internal/color"
	"glfwcanvas/internal/frameloop"
	"glfwcanvas/internal/input"
	"glfwcanvas/internal/surface"
	"glfwcanvas/internal/window"
)

// DefaultBackground is the background of a new handle (mid gray).
const DefaultBackground = 0x323232

var (
	// ErrInit means the windowing backend could not start. It is fatal.
	ErrInit = errors.New("app: windowing backend initialization failed")
	// ErrWindow means the native window or its surface could not be created.
	ErrWindow = errors.New("app: window creation failed")
	// ErrTerminated is returned by a runtime that was terminated.
	ErrTerminated = errors.New("app: runtime terminated")
	// ErrMisuse is returned when Destroy gets a nil or destroyed handle.
	ErrMisuse = errors.New("app: invalid application handle")
)

// Option configures Create.
type Option func(*options)

type options struct {
	strategy surface.Strategy
}

// WithStrategy selects how the drawing surface follows framebuffer resizes.
// Without it the backend preference is used.
func WithStrategy(s surface.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// ResolveStrategy maps a strategy name to a surface.Strategy. "auto" and ""
// defer to the backend when it implements window.SurfaceHinter, and fall
// back to recreate otherwise.
func ResolveStrategy(name string, b window.Backend) (surface.Strategy, error) {
	if name == "" || name == "auto" {
		name = "recreate"
		if h, ok := b.(window.SurfaceHinter); ok {
			name = h.PreferredStrategy()
		}
	}
	return surface.StrategyByName(name)
}

// App is one application handle.
type App struct {
	rt  *Runtime
	log *slog.Logger

	win     window.Window
	surface *surface.Manager
	loop    *frameloop.Controller
	input   input.State

	title         string
	width, height int
	background    uint64
	destroyed     bool
}

// Title returns the title given at creation.
func (a *App) Title() string { return a.title }

// Size returns the current width and height: the framebuffer size after
// BeginFrame, the window size after a resize notification.
func (a *App) Size() (width, height int) { return a.width, a.height }

// Input returns a copy of the latest input state.
func (a *App) Input() input.State { return a.input.Snapshot() }

// Window returns the native window.
func (a *App) Window() window.Window { return a.win }

// Context returns the drawing context for the frame in progress.
func (a *App) Context() *gg.Context { return a.surface.Context() }

// Surface returns the surface manager.
func (a *App) Surface() *surface.Manager { return a.surface }

// State returns the frame loop state.
func (a *App) State() frameloop.State { return a.loop.State() }

// Background returns the packed background color.
func (a *App) Background() uint64 { return a.background }

// SetBackgroundColor sets the color BeginFrame floods each frame with.
// Values above 0xFFFFFFFF are logged and ignored.
func (a *App) SetBackgroundColor(c uint64) error {
	if _, err := color.Decode(c); err != nil {
		a.log.Warn("invalid color value", "value", fmt.Sprintf("%#x", c))
		return err
	}
	a.background = c
	return nil
}

// PollCloseState reads and clears the window close signal.
func (a *App) PollCloseState() bool { return a.loop.PollCloseState() }

// ShouldClose is the per-iteration loop check. It reads and clears the
// close signal, then blocks while the window is minimized.
func (a *App) ShouldClose() bool { return a.loop.ShouldClose() }

// RequestClose asks the loop to stop at its next check. Resources stay alive
// until Destroy.
func (a *App) RequestClose() { a.loop.RequestClose() }

// SetTargetFPS paces the loop to fps frames per second. Call it once per
// iteration. It returns the requested wait in seconds.
func (a *App) SetTargetFPS(fps int) float64 { return a.loop.SetTargetFPS(fps) }

// BeginFrame syncs the surface with the framebuffer and opens a frame
// painted with the background color.
func (a *App) BeginFrame() error {
	if a.destroyed {
		return ErrMisuse
	}
	if err := a.surface.BeginFrame(a.background); err != nil {
		return err
	}
	a.width, a.height = a.surface.Size()
	return nil
}

// EndFrame composites and presents the frame.
func (a *App) EndFrame() error {
	if a.destroyed {
		return ErrMisuse
	}
	return a.surface.EndFrame()
}

// Destroy releases the surface and the native window. The runtime is
// terminated with its last handle. The handle must not be used afterwards.
func (a *App) Destroy() error {
	if a == nil {
		return fmt.Errorf("%w: destroy called with nil handle", ErrMisuse)
	}
	if a.destroyed {
		a.log.Error("destroy called on a destroyed handle")
		return fmt.Errorf("%w: handle already destroyed", ErrMisuse)
	}
	a.destroyed = true
	a.loop.Terminate()

	err := a.surface.Close()
	a.win.Destroy()
	a.rt.release(a)
	a.log.Debug("destroyed")
	return err
}

func (a *App) handlers() window.Handlers {
	return window.Handlers{
		CursorPos:   a.input.OnCursorPos,
		Key:         a.input.OnKey,
		MouseButton: a.input.OnMouseButton,
		Maximize:    a.input.OnMaximize,
		Resize: func(width, height int) {
			a.input.OnResize(width, height)
			a.width, a.height = width, height
		},
	}
}
