// Package headless is a windowing backend without a display.
//
// Time is simulated: it only moves through Advance and the wait calls, and
// events scheduled with After are delivered by the pump that reaches their
// due time. Every WaitEventsTimeout request is recorded. Windows keep a copy
// of the last presented frame.
package headless

import (
	"errors"
	"image"
	"sort"

	"glfwcanvas/internal/window"
)

// Name is the backend name used in configuration.
const Name = "headless"

type scheduled struct {
	at  float64
	seq int
	fn  func()
}

// Backend is a simulated windowing system. It is not safe for concurrent use.
type Backend struct {
	// InitErr, when set, is returned by Init.
	InitErr error
	// CreateErr, when set, is returned by CreateWindow.
	CreateErr error

	now          float64
	initialized  bool
	terminations int
	windows      []*Window
	pending      []scheduled
	seq          int
	waits        []float64
	polls        int
}

// New returns a backend whose clock starts at start seconds.
func New(start float64) *Backend {
	return &Backend{now: start}
}

var (
	_ window.Backend       = (*Backend)(nil)
	_ window.SurfaceHinter = (*Backend)(nil)
)

func (b *Backend) Name() string { return Name }

// PreferredStrategy implements window.SurfaceHinter.
func (b *Backend) PreferredStrategy() string { return "recreate" }

func (b *Backend) Init() error {
	if b.InitErr != nil {
		return b.InitErr
	}
	b.initialized = true
	return nil
}

// Terminate destroys remaining windows and drops pending events.
func (b *Backend) Terminate() {
	for _, w := range b.windows {
		w.destroyed = true
	}
	b.windows = nil
	b.pending = nil
	b.initialized = false
	b.terminations++
}

// Initialized reports whether Init succeeded and Terminate was not called since.
func (b *Backend) Initialized() bool { return b.initialized }

// Terminations counts Terminate calls.
func (b *Backend) Terminations() int { return b.terminations }

func (b *Backend) CreateWindow(cfg window.Config, h window.Handlers) (window.Window, error) {
	if !b.initialized {
		return nil, window.ErrNotInitialized
	}
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("headless: invalid window size")
	}
	w := &Window{
		b:      b,
		cfg:    cfg,
		h:      h,
		width:  cfg.Width,
		height: cfg.Height,
		minW:   window.DontCare,
		minH:   window.DontCare,
		maxW:   window.DontCare,
		maxH:   window.DontCare,
	}
	b.windows = append(b.windows, w)
	return w, nil
}

// Windows returns the live windows in creation order.
func (b *Backend) Windows() []*Window {
	out := make([]*Window, len(b.windows))
	copy(out, b.windows)
	return out
}

func (b *Backend) PollEvents() {
	b.polls++
	b.deliver()
}

// WaitEvents jumps the clock to the next scheduled event and delivers it.
// With nothing scheduled it returns immediately instead of blocking forever.
func (b *Backend) WaitEvents() {
	if len(b.pending) == 0 {
		return
	}
	if next := b.pending[0].at; next > b.now {
		b.now = next
	}
	b.deliver()
}

// WaitEventsTimeout delivers the next event if it is due within seconds,
// otherwise advances the clock by seconds.
func (b *Backend) WaitEventsTimeout(seconds float64) {
	b.waits = append(b.waits, seconds)
	deadline := b.now + seconds
	if len(b.pending) > 0 && b.pending[0].at <= deadline {
		if next := b.pending[0].at; next > b.now {
			b.now = next
		}
		b.deliver()
		return
	}
	b.now = deadline
}

func (b *Backend) Time() float64 { return b.now }

// Advance moves the clock forward without delivering events.
func (b *Backend) Advance(seconds float64) {
	b.now += seconds
}

// After schedules fn to run from the pump that reaches now+delay.
func (b *Backend) After(delay float64, fn func()) {
	b.seq++
	b.pending = append(b.pending, scheduled{at: b.now + delay, seq: b.seq, fn: fn})
	sort.Slice(b.pending, func(i, j int) bool {
		if b.pending[i].at != b.pending[j].at {
			return b.pending[i].at < b.pending[j].at
		}
		return b.pending[i].seq < b.pending[j].seq
	})
}

// Pending counts events not yet delivered.
func (b *Backend) Pending() int { return len(b.pending) }

// Waits returns the timeouts passed to WaitEventsTimeout.
func (b *Backend) Waits() []float64 {
	out := make([]float64, len(b.waits))
	copy(out, b.waits)
	return out
}

// Polls counts PollEvents calls.
func (b *Backend) Polls() int { return b.polls }

func (b *Backend) deliver() {
	for len(b.pending) > 0 && b.pending[0].at <= b.now {
		ev := b.pending[0]
		b.pending = b.pending[1:]
		ev.fn()
	}
}

func (b *Backend) remove(w *Window) {
	for i, x := range b.windows {
		if x == w {
			b.windows = append(b.windows[:i], b.windows[i+1:]...)
			return
		}
	}
}

// Window is a simulated window. Framebuffer and window sizes are equal.
type Window struct {
	b   *Backend
	cfg window.Config
	h   window.Handlers

	// PresentErr, when set, is returned by Present.
	PresentErr error

	width, height          int
	shouldClose            bool
	iconified              bool
	maximized              bool
	minW, minH, maxW, maxH int
	cursorX, cursorY       float64
	frames                 int
	last                   *image.RGBA
	destroyed              bool
}

var _ window.Window = (*Window)(nil)

func (w *Window) FramebufferSize() (int, int) { return w.width, w.height }
func (w *Window) ShouldClose() bool           { return w.shouldClose }
func (w *Window) SetShouldClose(v bool)       { w.shouldClose = v }
func (w *Window) Iconified() bool             { return w.iconified }

func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	w.minW, w.minH, w.maxW, w.maxH = minWidth, minHeight, maxWidth, maxHeight
}

func (w *Window) SetCursorPos(x, y float64) {
	w.cursorX, w.cursorY = x, y
}

func (w *Window) Present(img *image.RGBA) error {
	if w.PresentErr != nil {
		return w.PresentErr
	}
	cp := image.NewRGBA(img.Rect)
	copy(cp.Pix, img.Pix)
	w.last = cp
	w.frames++
	return nil
}

func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.b.remove(w)
}

// Title returns the title the window was created with.
func (w *Window) Title() string { return w.cfg.Title }

// SizeLimits returns the last limits set with SetSizeLimits.
func (w *Window) SizeLimits() (minWidth, minHeight, maxWidth, maxHeight int) {
	return w.minW, w.minH, w.maxW, w.maxH
}

// CursorPos returns the position set with SetCursorPos or MoveCursor.
func (w *Window) CursorPos() (x, y float64) { return w.cursorX, w.cursorY }

// Frames counts successful Present calls.
func (w *Window) Frames() int { return w.frames }

// LastFrame returns a copy of the last presented frame, or nil.
func (w *Window) LastFrame() *image.RGBA { return w.last }

// Destroyed reports whether Destroy or Terminate released the window.
func (w *Window) Destroyed() bool { return w.destroyed }

// The methods below act as the user or the window manager would. Call them
// from a function passed to Backend.After to have them delivered by a pump.

// Resize changes the framebuffer size and notifies the resize handler.
func (w *Window) Resize(width, height int) {
	w.width, w.height = width, height
	w.h.EmitResize(width, height)
}

// MoveCursor moves the pointer and notifies the cursor handler.
func (w *Window) MoveCursor(x, y float64) {
	w.cursorX, w.cursorY = x, y
	w.h.EmitCursorPos(x, y)
}

// Key notifies the key handler.
func (w *Window) Key(key, scancode, action, mods int) {
	w.h.EmitKey(key, scancode, action, mods)
}

// MouseButton notifies the mouse button handler.
func (w *Window) MouseButton(button, action, mods int) {
	w.h.EmitMouseButton(button, action, mods)
}

// SetMaximized toggles maximization and notifies the maximize handler.
func (w *Window) SetMaximized(v bool) {
	w.maximized = v
	w.h.EmitMaximize(v)
}

// SetIconified minimizes or restores the window.
func (w *Window) SetIconified(v bool) {
	w.iconified = v
}

// Close is the user pressing the close button.
func (w *Window) Close() {
	w.shouldClose = true
}
