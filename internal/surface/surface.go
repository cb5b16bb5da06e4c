// Package surface owns the drawing context of a window and keeps it the size
// of the window framebuffer.
//
// Each frame is drawn into an isolated layer that BeginFrame opens and floods
// with the background color; EndFrame composites the layer onto the surface
// and presents the result, so a window never shows a partially drawn frame.
package surface

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gg"

	"glfwcanvas/internal/color"
)

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("surface: closed")
	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("surface: no frame in progress")
)

// Target is where frames go: the native window.
type Target interface {
	FramebufferSize() (width, height int)
	Present(img *image.RGBA) error
}

// Manager pairs one drawing context with one target.
type Manager struct {
	target   Target
	strategy Strategy
	log      *slog.Logger

	dc            *gg.Context
	width, height int
	source        gg.RGBA
	inFrame       bool
	recreations   int
}

// New creates a context sized to the target framebuffer.
func New(target Target, strategy Strategy, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w, h := target.FramebufferSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("surface: invalid framebuffer size %dx%d", w, h)
	}
	return &Manager{
		target:   target,
		strategy: strategy,
		log:      log,
		dc:       gg.NewContext(w, h),
		width:    w,
		height:   h,
		source:   gg.Black,
	}, nil
}

// Context returns the drawing context for the current frame. It changes
// identity when the strategy recreates it, so do not keep it across frames.
func (m *Manager) Context() *gg.Context { return m.dc }

// Size returns the recorded surface size.
func (m *Manager) Size() (width, height int) { return m.width, m.height }

// Strategy returns the resize strategy in use.
func (m *Manager) Strategy() Strategy { return m.strategy }

// Recreations counts how many times the context was replaced.
func (m *Manager) Recreations() int { return m.recreations }

// Source returns the active paint color.
func (m *Manager) Source() gg.RGBA { return m.source }

// SetColor decodes v and makes it the active paint color. On error the
// active color is unchanged.
func (m *Manager) SetColor(v uint64) error {
	if m.dc == nil {
		return ErrClosed
	}
	c, err := color.Apply(m.dc, v)
	if err != nil {
		return err
	}
	m.source = c
	return nil
}

// BeginFrame syncs the surface with the framebuffer size, opens the frame
// layer and paints it with background.
//
// A zero framebuffer (minimized window) keeps the previous surface.
func (m *Manager) BeginFrame(background uint64) error {
	if m.dc == nil {
		return ErrClosed
	}
	if m.inFrame {
		m.log.Debug("discarding unfinished frame")
		m.discardFrame()
	}

	w, h := m.target.FramebufferSize()
	if w > 0 && h > 0 && (w != m.width || h != m.height) {
		if err := m.adapt(w, h); err != nil {
			return err
		}
	}

	m.dc.PushLayer(gg.BlendNormal, 1)
	m.inFrame = true

	if err := m.SetColor(background); err != nil {
		m.log.Warn("invalid color value", "value", fmt.Sprintf("%#x", background), "err", err)
	}
	m.dc.ClearWithColor(m.source)
	return nil
}

func (m *Manager) adapt(w, h int) error {
	dc, err := m.strategy.Adapt(m.dc, w, h)
	if err != nil {
		return fmt.Errorf("surface: %s to %dx%d: %w", m.strategy.Name(), w, h, err)
	}
	if dc != m.dc {
		m.recreations++
		// A fresh context starts with its own default brush.
		dc.SetRGBA(m.source.R, m.source.G, m.source.B, m.source.A)
	}
	m.log.Debug("surface adapted", "strategy", m.strategy.Name(),
		"from", fmt.Sprintf("%dx%d", m.width, m.height), "to", fmt.Sprintf("%dx%d", w, h))
	m.dc = dc
	m.width, m.height = w, h
	return nil
}

// discardFrame closes the open frame layer without compositing its content.
func (m *Manager) discardFrame() {
	m.dc.Clear()
	m.dc.PopLayer()
	m.inFrame = false
}

// EndFrame composites the frame layer onto the surface, flushes pending
// drawing and presents the surface to the target.
func (m *Manager) EndFrame() error {
	if m.dc == nil {
		return ErrClosed
	}
	if !m.inFrame {
		return ErrNoFrame
	}
	m.dc.PopLayer()
	m.inFrame = false

	if err := m.dc.FlushGPU(); err != nil {
		return fmt.Errorf("surface: flush: %w", err)
	}
	pm := m.dc.ResizeTarget()
	img := &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
	if err := m.target.Present(img); err != nil {
		return fmt.Errorf("surface: present: %w", err)
	}
	return nil
}

// Close releases the drawing context. It is safe to call more than once.
func (m *Manager) Close() error {
	if m.dc == nil {
		return nil
	}
	if m.inFrame {
		m.discardFrame()
	}
	err := m.dc.Close()
	m.dc = nil
	return err
}
