package app

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"glfwcanvas/internal/color"
	"glfwcanvas/internal/frameloop"
	"glfwcanvas/internal/input"
	"glfwcanvas/internal/surface"
	"glfwcanvas/internal/window"
	"glfwcanvas/internal/window/headless"
)

func newRuntime(t *testing.T) (*Runtime, *headless.Backend) {
	t.Helper()
	b := headless.New(1)
	rt, err := NewRuntime(b, nil)
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	return rt, b
}

func create(t *testing.T, rt *Runtime, w, h int, title string, opts ...Option) (*App, *headless.Window) {
	t.Helper()
	a, err := rt.Create(w, h, title, opts...)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return a, a.Window().(*headless.Window)
}

func TestCreateDefaults(t *testing.T) {
	rt, _ := newRuntime(t)
	a, win := create(t, rt, 800, 600, "T")

	if a.Background() != DefaultBackground {
		t.Errorf("Background() = %#x, want %#x", a.Background(), DefaultBackground)
	}
	if a.Title() != "T" || win.Title() != "T" {
		t.Errorf("titles = %q/%q, want T", a.Title(), win.Title())
	}
	if w, h := a.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}
	minW, minH, maxW, maxH := win.SizeLimits()
	if minW != 800 || minH != 600 || maxW != window.DontCare || maxH != window.DontCare {
		t.Errorf("SizeLimits() = %d,%d,%d,%d", minW, minH, maxW, maxH)
	}
	if x, y := win.CursorPos(); x != 400 || y != 300 {
		t.Errorf("cursor = %v,%v, want 400,300", x, y)
	}
	if a.State() != frameloop.Running {
		t.Errorf("State() = %v, want running", a.State())
	}
	if a.Surface().Strategy().Name() != "recreate" {
		t.Errorf("strategy = %q, want backend preference recreate", a.Surface().Strategy().Name())
	}
}

func TestSetBackgroundColorPaintsFrame(t *testing.T) {
	rt, _ := newRuntime(t)
	a, win := create(t, rt, 32, 32, "T")

	if err := a.SetBackgroundColor(0xEAEAEA); err != nil {
		t.Fatalf("SetBackgroundColor() error = %v", err)
	}
	if err := a.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	src := a.Surface().Source()
	if src.R != 0xEA/255.0 || src.G != 0xEA/255.0 || src.B != 0xEA/255.0 || src.A != 1 {
		t.Errorf("Source() = %+v", src)
	}
	if err := a.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
	c := win.LastFrame().RGBAAt(16, 16)
	if c.R < 0xE9 || c.R > 0xEB || c.A != 0xFF {
		t.Errorf("center pixel = %v, want 0xEA gray", c)
	}
}

func TestSetBackgroundColorRejectsOutOfRange(t *testing.T) {
	rt, _ := newRuntime(t)
	a, _ := create(t, rt, 32, 32, "T")

	if err := a.SetBackgroundColor(color.MaxRGBA + 1); !errors.Is(err, color.ErrInvalidColor) {
		t.Fatalf("SetBackgroundColor() error = %v, want ErrInvalidColor", err)
	}
	if a.Background() != DefaultBackground {
		t.Errorf("Background() = %#x, want unchanged", a.Background())
	}
	if err := a.SetBackgroundColor(color.MaxRGBA); err != nil {
		t.Errorf("SetBackgroundColor(MaxRGBA) error = %v", err)
	}
}

func TestCallbacksUpdateInput(t *testing.T) {
	rt, b := newRuntime(t)
	a, win := create(t, rt, 100, 100, "T")

	b.After(0, func() {
		win.MoveCursor(12.5, 40)
		win.Key(65, 38, input.ActionPress, input.ModShift)
		win.MouseButton(1, input.ActionRelease, 0)
		win.SetMaximized(true)
		win.Resize(300, 200)
	})
	rt.PollEvents()

	got := a.Input()
	want := input.State{
		CursorX:   12.5,
		CursorY:   40,
		Key:       input.Key{Code: 65, Scancode: 38, Action: input.ActionPress, Mods: input.ModShift},
		Mouse:     input.Mouse{Button: 1, Action: input.ActionRelease},
		Maximized: true,
		Width:     300,
		Height:    200,
	}
	if got != want {
		t.Errorf("Input() = %+v, want %+v", got, want)
	}
	if w, h := a.Size(); w != 300 || h != 200 {
		t.Errorf("Size() = %dx%d, want 300x200", w, h)
	}
}

func TestResizeRecreatesSurfaceOnNextFrame(t *testing.T) {
	rt, b := newRuntime(t)
	a, win := create(t, rt, 100, 100, "T")

	b.After(0, func() { win.Resize(150, 120) })
	rt.PollEvents()

	if err := a.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := a.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error = %v", err)
	}
	if a.Context().Width() != 150 || a.Context().Height() != 120 {
		t.Errorf("context = %dx%d, want 150x120", a.Context().Width(), a.Context().Height())
	}
	if a.Surface().Recreations() != 1 {
		t.Errorf("Recreations() = %d, want 1", a.Surface().Recreations())
	}
}

func TestWithStrategy(t *testing.T) {
	rt, _ := newRuntime(t)
	a, _ := create(t, rt, 10, 10, "T", WithStrategy(surface.Resize{}))
	if a.Surface().Strategy().Name() != "resize" {
		t.Errorf("strategy = %q, want resize", a.Surface().Strategy().Name())
	}
}

func TestRequestCloseThenPoll(t *testing.T) {
	rt, _ := newRuntime(t)
	a, _ := create(t, rt, 10, 10, "T")

	a.RequestClose()
	if !a.PollCloseState() {
		t.Fatal("PollCloseState() = false after RequestClose")
	}
	if a.PollCloseState() {
		t.Error("second PollCloseState() = true")
	}
	if rt.Terminated() {
		t.Error("RequestClose tore down the runtime")
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	rt, b := newRuntime(t)
	a, win := create(t, rt, 10, 10, "T")

	if err := a.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if !win.Destroyed() {
		t.Error("window not destroyed")
	}
	if !rt.Terminated() || b.Initialized() {
		t.Error("backend not terminated with the last handle")
	}
	if a.State() != frameloop.Terminated {
		t.Errorf("State() = %v, want terminated", a.State())
	}
	if err := a.Destroy(); !errors.Is(err, ErrMisuse) {
		t.Errorf("second Destroy() error = %v, want ErrMisuse", err)
	}
	if err := a.BeginFrame(); !errors.Is(err, ErrMisuse) {
		t.Errorf("BeginFrame() after Destroy error = %v, want ErrMisuse", err)
	}
	if _, err := rt.Create(10, 10, "again"); !errors.Is(err, ErrTerminated) {
		t.Errorf("Create() after terminate error = %v, want ErrTerminated", err)
	}
}

func TestDestroyNilHandle(t *testing.T) {
	var a *App
	if err := a.Destroy(); !errors.Is(err, ErrMisuse) {
		t.Errorf("Destroy() error = %v, want ErrMisuse", err)
	}
}

func TestHandlesOwnDistinctWindows(t *testing.T) {
	rt, b := newRuntime(t)
	a1, w1 := create(t, rt, 10, 10, "one")
	a2, w2 := create(t, rt, 20, 20, "two")

	if w1 == w2 {
		t.Fatal("two handles share a window")
	}
	if rt.Live() != 2 {
		t.Errorf("Live() = %d, want 2", rt.Live())
	}
	if err := a1.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if rt.Terminated() {
		t.Error("runtime terminated while a handle is alive")
	}
	if err := a2.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if b.Terminations() != 1 {
		t.Errorf("Terminations() = %d, want 1", b.Terminations())
	}
}

func TestInitFailure(t *testing.T) {
	b := headless.New(0)
	b.InitErr = errors.New("no display")
	if _, err := NewRuntime(b, nil); !errors.Is(err, ErrInit) {
		t.Errorf("NewRuntime() error = %v, want ErrInit", err)
	}
}

func TestWindowCreationFailureRollsBack(t *testing.T) {
	rt, b := newRuntime(t)
	b.CreateErr = errors.New("no visual")

	a, err := rt.Create(10, 10, "T")
	if !errors.Is(err, ErrWindow) {
		t.Fatalf("Create() error = %v, want ErrWindow", err)
	}
	if a != nil {
		t.Error("Create() returned a handle on failure")
	}
	if !rt.Terminated() || b.Initialized() {
		t.Error("backend not rolled back")
	}
}

func TestWindowCreationFailureKeepsOtherHandles(t *testing.T) {
	rt, b := newRuntime(t)
	a, _ := create(t, rt, 10, 10, "T")
	b.CreateErr = errors.New("no visual")

	if _, err := rt.Create(10, 10, "second"); !errors.Is(err, ErrWindow) {
		t.Fatalf("Create() error = %v, want ErrWindow", err)
	}
	if rt.Terminated() {
		t.Error("runtime terminated while a handle is alive")
	}
	if err := a.BeginFrame(); err != nil {
		t.Errorf("BeginFrame() error = %v", err)
	}
}

func TestResolveStrategy(t *testing.T) {
	b := headless.New(0)
	tests := []struct {
		name string
		want string
	}{
		{"", "recreate"},
		{"auto", "recreate"},
		{"resize", "resize"},
		{"recreate", "recreate"},
	}
	for _, tt := range tests {
		s, err := ResolveStrategy(tt.name, b)
		if err != nil {
			t.Fatalf("ResolveStrategy(%q) error = %v", tt.name, err)
		}
		if s.Name() != tt.want {
			t.Errorf("ResolveStrategy(%q) = %q, want %q", tt.name, s.Name(), tt.want)
		}
	}
	if _, err := ResolveStrategy("stretch", b); err == nil {
		t.Error("ResolveStrategy(stretch) error = nil")
	}
}

// zeroFramebuffer creates windows whose framebuffer reports 0x0, so no
// drawing surface can be allocated for them.
type zeroFramebuffer struct {
	*headless.Backend
}

type zeroWindow struct {
	window.Window
}

func (zeroWindow) FramebufferSize() (int, int) { return 0, 0 }

func (b zeroFramebuffer) CreateWindow(cfg window.Config, h window.Handlers) (window.Window, error) {
	w, err := b.Backend.CreateWindow(cfg, h)
	if err != nil {
		return nil, err
	}
	return zeroWindow{w}, nil
}

func TestSurfaceFailureRollsBack(t *testing.T) {
	b := headless.New(0)
	rt, err := NewRuntime(zeroFramebuffer{b}, nil)
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	a, err := rt.Create(800, 600, "T")
	if !errors.Is(err, ErrWindow) {
		t.Fatalf("Create() error = %v, want ErrWindow", err)
	}
	if a != nil {
		t.Error("Create() returned a handle on failure")
	}
	if !rt.Terminated() || b.Initialized() || b.Terminations() != 1 {
		t.Errorf("backend not rolled back: terminated=%v initialized=%v terminations=%d",
			rt.Terminated(), b.Initialized(), b.Terminations())
	}
	if n := len(b.Windows()); n != 0 {
		t.Errorf("%d windows left open", n)
	}
}

func TestDestroyTwiceIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	rt, err := NewRuntime(headless.New(0), log)
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	a, err := rt.Create(10, 10, "T")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := a.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	buf.Reset()

	if err := a.Destroy(); !errors.Is(err, ErrMisuse) {
		t.Fatalf("second Destroy() error = %v, want ErrMisuse", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "destroyed handle") {
		t.Errorf("log = %q, want an error record", out)
	}
}
