// Package raylibwin is a windowing backend on raylib.
//
// raylib exposes input by polling rather than callbacks, so after every pump
// the backend compares the new input state with the previous one and calls
// the window handlers for what changed. raylib owns a single window.
//
// raylib has no timeout-bounded event wait: WaitEventsTimeout sleeps for the
// full timeout and then pumps, and WaitEvents pumps in short slices until an
// input event or a close request shows up.
//
// raylib latches the native close request: the first close of the window is
// reported once, and later closes of the same window are not reported.
package raylibwin

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"glfwcanvas/internal/input"
	"glfwcanvas/internal/window"
)

// Name is the backend name used in configuration.
const Name = "raylib"

// waitSlice is how long WaitEvents sleeps between pumps.
const waitSlice = 1.0 / 120

// ErrSingleWindow is returned when a second window is requested.
var ErrSingleWindow = errors.New("raylib: only one window is supported")

// Backend drives the raylib window.
type Backend struct {
	log         *slog.Logger
	initialized bool
	win         *Window
}

// New returns a raylib backend. A nil logger discards output.
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

// PreferredStrategy implements window.SurfaceHinter. Textures are fixed size,
// so the drawing surface is recreated along with them.
func (b *Backend) PreferredStrategy() string { return "recreate" }

func (b *Backend) Init() error {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowResizable)
	b.initialized = true
	return nil
}

func (b *Backend) Terminate() {
	if b.win != nil {
		b.win.Destroy()
	}
	b.initialized = false
}

func (b *Backend) CreateWindow(cfg window.Config, h window.Handlers) (window.Window, error) {
	if !b.initialized {
		return nil, window.ErrNotInitialized
	}
	if b.win != nil {
		return nil, ErrSingleWindow
	}
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)
	if !rl.IsWindowReady() {
		return nil, errors.New("raylib: window creation failed")
	}
	// Closing is the application's decision, not the escape key's.
	rl.SetExitKey(rl.KeyNull)
	b.log.Debug("window created", "width", cfg.Width, "height", cfg.Height, "title", cfg.Title)

	mp := rl.GetMousePosition()
	b.win = &Window{
		b:         b,
		h:         h,
		held:      make(map[int32]bool),
		lastX:     mp.X,
		lastY:     mp.Y,
		maximized: rl.IsWindowMaximized(),
	}
	return b.win, nil
}

func (b *Backend) PollEvents() {
	rl.PollInputEvents()
	b.dispatch()
}

func (b *Backend) WaitEvents() {
	for {
		rl.PollInputEvents()
		if b.dispatch() > 0 || b.win == nil || b.win.ShouldClose() {
			return
		}
		rl.WaitTime(waitSlice)
	}
}

func (b *Backend) WaitEventsTimeout(seconds float64) {
	if seconds > 0 {
		rl.WaitTime(seconds)
	}
	rl.PollInputEvents()
	b.dispatch()
}

func (b *Backend) Time() float64 { return rl.GetTime() }

// dispatch turns input state changes into handler calls and returns how many
// were made.
func (b *Backend) dispatch() int {
	w := b.win
	if w == nil {
		return 0
	}
	n := 0
	mods := currentMods()

	if mp := rl.GetMousePosition(); mp.X != w.lastX || mp.Y != w.lastY {
		w.lastX, w.lastY = mp.X, mp.Y
		w.h.EmitCursorPos(float64(mp.X), float64(mp.Y))
		n++
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		w.held[key] = true
		w.h.EmitKey(int(key), 0, input.ActionPress, mods)
		n++
	}
	for key := range w.held {
		switch {
		case rl.IsKeyReleased(key):
			delete(w.held, key)
			w.h.EmitKey(int(key), 0, input.ActionRelease, mods)
			n++
		case rl.IsKeyPressedRepeat(key):
			w.h.EmitKey(int(key), 0, input.ActionRepeat, mods)
			n++
		}
	}

	for button := rl.MouseButtonLeft; button <= rl.MouseButtonBack; button++ {
		if rl.IsMouseButtonPressed(button) {
			w.h.EmitMouseButton(int(button), input.ActionPress, mods)
			n++
		}
		if rl.IsMouseButtonReleased(button) {
			w.h.EmitMouseButton(int(button), input.ActionRelease, mods)
			n++
		}
	}

	if m := rl.IsWindowMaximized(); m != w.maximized {
		w.maximized = m
		w.h.EmitMaximize(m)
		n++
	}
	if rl.IsWindowResized() {
		w.h.EmitResize(rl.GetScreenWidth(), rl.GetScreenHeight())
		n++
	}
	return n
}

func currentMods() int {
	mods := 0
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		mods |= input.ModShift
	}
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		mods |= input.ModControl
	}
	if rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt) {
		mods |= input.ModAlt
	}
	if rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper) {
		mods |= input.ModSuper
	}
	return mods
}

// Window is the raylib window.
type Window struct {
	b *Backend
	h window.Handlers

	held         map[int32]bool
	lastX, lastY float32
	maximized    bool

	// raylib latches its native close flag; it is reported once and then
	// considered consumed.
	requested      bool
	nativePending  bool
	nativeConsumed bool

	tex    rl.Texture2D
	hasTex bool
	closed bool
}

var _ window.Window = (*Window)(nil)

func (w *Window) FramebufferSize() (int, int) {
	return rl.GetRenderWidth(), rl.GetRenderHeight()
}

func (w *Window) ShouldClose() bool {
	if !w.nativeConsumed && rl.WindowShouldClose() {
		w.nativePending = true
	}
	return w.requested || w.nativePending
}

func (w *Window) SetShouldClose(v bool) {
	w.requested = v
	if !v && w.nativePending {
		w.nativePending = false
		w.nativeConsumed = true
	}
}

func (w *Window) Iconified() bool { return rl.IsWindowMinimized() }

func (w *Window) SetSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) {
	if minWidth != window.DontCare && minHeight != window.DontCare {
		rl.SetWindowMinSize(minWidth, minHeight)
	}
	if maxWidth != window.DontCare && maxHeight != window.DontCare {
		rl.SetWindowMaxSize(maxWidth, maxHeight)
	}
}

func (w *Window) SetCursorPos(x, y float64) {
	rl.SetMousePosition(int(x), int(y))
	w.lastX, w.lastY = float32(x), float32(y)
}

// Present uploads the frame into a texture and draws it. The texture is
// reloaded when the frame size changes.
func (w *Window) Present(img *image.RGBA) error {
	width, height := int32(img.Rect.Dx()), int32(img.Rect.Dy())
	if !w.hasTex || w.tex.Width != width || w.tex.Height != height {
		if w.hasTex {
			rl.UnloadTexture(w.tex)
		}
		ri := rl.NewImageFromImage(img)
		w.tex = rl.LoadTextureFromImage(ri)
		rl.UnloadImage(ri)
		w.hasTex = true
	} else {
		rl.UpdateTexture(w.tex, pixels(img))
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Blank)
	rl.DrawTexture(w.tex, 0, 0, rl.White)
	rl.EndDrawing()

	// EndDrawing pumps raylib's input queue.
	w.b.dispatch()
	return nil
}

func (w *Window) Destroy() {
	if w.closed {
		return
	}
	w.closed = true
	if w.hasTex {
		rl.UnloadTexture(w.tex)
		w.hasTex = false
	}
	rl.CloseWindow()
	w.b.win = nil
}

// pixels views a tightly packed RGBA image as raylib colors.
func pixels(img *image.RGBA) []color.RGBA {
	n := img.Rect.Dx() * img.Rect.Dy()
	if n == 0 {
		return nil
	}
	if img.Stride != img.Rect.Dx()*4 {
		packed := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
		for y := 0; y < img.Rect.Dy(); y++ {
			copy(packed.Pix[y*packed.Stride:], img.Pix[y*img.Stride:y*img.Stride+packed.Stride])
		}
		img = packed
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), n)
}
