// Package glfwwin is the GLFW windowing backend.
//
// GLFW must be driven from the main thread, so the package locks the main
// goroutine to it at init time. Windows are created without a client graphics
// API; finished frames are copied into the native window by a platform
// presenter.
package glfwwin

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"glfwcanvas/internal/window"
)

// Name is the backend name used in configuration.
const Name = "glfw"

func init() {
	runtime.LockOSThread()
}

// Backend wraps the process-wide GLFW state.
type Backend struct {
	log *slog.Logger
}

// New returns a GLFW backend. A nil logger discards output.
func New(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{log: log.With("backend", Name)}
}

var (
	_ window.Backend       = (*Backend)(nil)
	_ window.SurfaceHinter = (*Backend)(nil)
)

func (b *Backend) Name() string { return Name }

// PreferredStrategy implements window.SurfaceHinter. The X11 drawable follows
// the window, so the drawing surface is resized in place.
func (b *Backend) PreferredStrategy() string { return "resize" }

func (b *Backend) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	b.log.Debug("initialized", "version", glfw.GetVersionString())
	return nil
}

func (b *Backend) Terminate() {
	glfw.Terminate()
	b.log.Debug("terminated")
}

func (b *Backend) CreateWindow(cfg window.Config, h window.Handlers) (window.Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	gw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw create window: %w", err)
	}

	gw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		h.EmitCursorPos(x, y)
	})
	gw.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		h.EmitKey(int(key), scancode, int(action), int(mods))
	})
	gw.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		h.EmitMouseButton(int(button), int(action), int(mods))
	})
	gw.SetMaximizeCallback(func(_ *glfw.Window, maximized bool) {
		h.EmitMaximize(maximized)
	})
	gw.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		h.EmitResize(width, height)
	})

	return &Window{w: gw, log: b.log}, nil
}

func (b *Backend) PollEvents()                       { glfw.PollEvents() }
func (b *Backend) WaitEvents()                       { glfw.WaitEvents() }
func (b *Backend) WaitEventsTimeout(seconds float64) { glfw.WaitEventsTimeout(seconds) }
func (b *Backend) Time() float64                     { return glfw.GetTime() }

// Window is a GLFW window.
type Window struct {
	w         *glfw.Window
	log       *slog.Logger
	presenter presenter
}

// presenter copies frames into the native window.
type presenter interface {
	present(img *image.RGBA) error
	close()
}

var _ window.Window = (*Window)(nil)

func (w *Window) FramebufferSize() (int, int) { return w.w.GetFramebufferSize() }
func (w *Window) ShouldClose() bool           { return w.w.ShouldClose() }
func (w *Window) SetShouldClose(v bool)       { w.w.SetShouldClose(v) }
func (w *Window) Iconified() bool             { return w.w.GetAttrib(glfw.Iconified) == glfw.True }

func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	w.w.SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight)
}

func (w *Window) SetCursorPos(x, y float64) { w.w.SetCursorPos(x, y) }

func (w *Window) Present(img *image.RGBA) error {
	if w.presenter == nil {
		p, err := newPresenter(w.w)
		if err != nil {
			return fmt.Errorf("glfw present: %w", err)
		}
		w.presenter = p
	}
	return w.presenter.present(img)
}

func (w *Window) Destroy() {
	if w.presenter != nil {
		w.presenter.close()
		w.presenter = nil
	}
	w.w.Destroy()
}
