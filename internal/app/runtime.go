package app

import (
	"fmt"
	"log/slog"

	"glfwcanvas/internal/frameloop"
	"glfwcanvas/internal/surface"
	"glfwcanvas/internal/window"
)

// Runtime is the process-scoped windowing context.
type Runtime struct {
	backend    window.Backend
	log        *slog.Logger
	apps       map[*App]struct{}
	terminated bool
}

// NewRuntime initializes the backend. An error wraps ErrInit.
func NewRuntime(b window.Backend, log *slog.Logger) (*Runtime, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInit, b.Name(), err)
	}
	log.Debug("runtime started", "backend", b.Name())
	return &Runtime{backend: b, log: log, apps: make(map[*App]struct{})}, nil
}

// Backend returns the windowing backend.
func (r *Runtime) Backend() window.Backend { return r.backend }

// Terminated reports whether the backend was shut down.
func (r *Runtime) Terminated() bool { return r.terminated }

// Live counts handles not yet destroyed.
func (r *Runtime) Live() int { return len(r.apps) }

// PollEvents processes pending events for every window.
func (r *Runtime) PollEvents() {
	if !r.terminated {
		r.backend.PollEvents()
	}
}

// WaitEvents blocks until an event arrives.
func (r *Runtime) WaitEvents() {
	if !r.terminated {
		r.backend.WaitEvents()
	}
}

// WaitEventsTimeout blocks until an event arrives or seconds elapse.
func (r *Runtime) WaitEventsTimeout(seconds float64) {
	if !r.terminated {
		r.backend.WaitEventsTimeout(seconds)
	}
}

// Create opens a window of width x height with a drawing surface of the
// framebuffer size. The window cannot be made smaller than requested and
// the cursor starts at its center.
//
// When the window cannot be created and no other handle is alive, the
// backend is terminated and the runtime becomes unusable.
func (r *Runtime) Create(width, height int, title string, opts ...Option) (*App, error) {
	if r.terminated {
		return nil, ErrTerminated
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.strategy == nil {
		s, err := ResolveStrategy("auto", r.backend)
		if err != nil {
			return nil, err
		}
		o.strategy = s
	}

	a := &App{
		rt:         r,
		log:        r.log.With("window", title),
		title:      title,
		width:      width,
		height:     height,
		background: DefaultBackground,
	}

	win, err := r.backend.CreateWindow(window.Config{Width: width, Height: height, Title: title}, a.handlers())
	if err != nil {
		r.log.Error("window creation failed", "title", title, "err", err)
		if len(r.apps) == 0 {
			r.Terminate()
		}
		return nil, fmt.Errorf("%w: %v", ErrWindow, err)
	}
	for other := range r.apps {
		if other.win == win {
			r.log.Error("window creation failed", "title", title, "err", "backend returned a window already in use")
			return nil, fmt.Errorf("%w: backend returned a window already in use", ErrWindow)
		}
	}

	win.SetSizeLimits(width, height, window.DontCare, window.DontCare)
	win.SetCursorPos(float64(width/2), float64(height/2))

	sm, err := surface.New(win, o.strategy, a.log)
	if err != nil {
		win.Destroy()
		r.log.Error("surface creation failed", "title", title, "err", err)
		if len(r.apps) == 0 {
			r.Terminate()
		}
		return nil, fmt.Errorf("%w: %v", ErrWindow, err)
	}

	a.win = win
	a.surface = sm
	a.loop = frameloop.New(r.backend, win, a.log)
	r.apps[a] = struct{}{}
	a.log.Debug("created", "width", width, "height", height, "strategy", o.strategy.Name())
	return a, nil
}

// Terminate destroys remaining handles and shuts the backend down. It is
// safe to call more than once.
func (r *Runtime) Terminate() {
	if r.terminated {
		return
	}
	for a := range r.apps {
		a.destroyed = true
		a.loop.Terminate()
		_ = a.surface.Close()
		a.win.Destroy()
	}
	clear(r.apps)
	r.terminated = true
	r.backend.Terminate()
	r.log.Debug("runtime terminated", "backend", r.backend.Name())
}

func (r *Runtime) release(a *App) {
	delete(r.apps, a)
	if len(r.apps) == 0 {
		r.Terminate()
	}
}
