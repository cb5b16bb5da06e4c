package debug

import (
	"fmt"
	"runtime"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"glfwcanvas/internal/input"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

var textColor = gg.RGBA{R: 0, G: 228.0 / 255, B: 48.0 / 255, A: 1}

// Overlay draws runtime diagnostics in the top-right corner of a frame. All
// lines are off by default.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowInput    bool

	face       text.Face
	frameCount uint32

	// FPS is measured over the frames between two text refreshes.
	windowStart  float64
	windowFrames int
	fps          float64

	lastFpsText   string
	lastMemText   string
	lastInputText string
	lastMemStats  runtime.MemStats
}

// New returns an overlay drawing with src at the overlay font size. A nil
// src leaves the overlay without a face; Draw then only updates Lines.
func New(src *text.FontSource) *Overlay {
	o := &Overlay{windowStart: -1}
	if src != nil {
		o.face = src.Face(fontSize)
	}
	return o
}

// SetShowFPS sets whether the frame rate line is drawn.
func (o *Overlay) SetShowFPS(show bool) { o.ShowFPS = show }

// SetShowMemAlloc sets whether the heap allocation line is drawn.
func (o *Overlay) SetShowMemAlloc(show bool) { o.ShowMemAlloc = show }

// SetShowInput sets whether the cursor and last key line is drawn.
func (o *Overlay) SetShowInput(show bool) { o.ShowInput = show }

// Enabled reports whether any line is shown.
func (o *Overlay) Enabled() bool { return o.ShowFPS || o.ShowMemAlloc || o.ShowInput }

// FPS returns the last measured frame rate.
func (o *Overlay) FPS() float64 { return o.fps }

// Lines returns the text of the enabled lines, top to bottom.
func (o *Overlay) Lines() []string {
	var out []string
	if o.ShowFPS && o.lastFpsText != "" {
		out = append(out, o.lastFpsText)
	}
	if o.ShowMemAlloc && o.lastMemText != "" {
		out = append(out, o.lastMemText)
	}
	if o.ShowInput && o.lastInputText != "" {
		out = append(out, o.lastInputText)
	}
	return out
}

// Draw counts a frame at time now (seconds, backend clock) and renders the
// enabled lines into dc. Call it after user drawing, before the frame ends.
// Text is only recomputed every updateInterval frames to limit allocations.
// The fill brush and font of dc are restored afterwards.
func (o *Overlay) Draw(dc *gg.Context, now float64, in input.State) {
	o.tick(now)

	update := o.frameCount%updateInterval == 0
	if o.ShowFPS && o.lastFpsText == "" ||
		o.ShowMemAlloc && o.lastMemText == "" ||
		o.ShowInput && o.lastInputText == "" {
		update = true
	}
	if update {
		o.refresh(in)
	}

	lines := o.Lines()
	if dc == nil || o.face == nil || len(lines) == 0 {
		return
	}

	prevBrush, prevFace := dc.FillBrush(), dc.Font()
	defer func() {
		dc.SetFillBrush(prevBrush)
		dc.SetFont(prevFace)
	}()

	dc.SetFont(o.face)
	dc.SetRGBA(textColor.R, textColor.G, textColor.B, textColor.A)
	screenW := float64(dc.Width())
	y := float64(padding)
	for _, line := range lines {
		w, _ := dc.MeasureString(line)
		dc.DrawString(line, screenW-w-padding, y+fontSize)
		y += lineHeight
	}
}

func (o *Overlay) tick(now float64) {
	o.frameCount++
	if o.windowStart < 0 {
		o.windowStart = now
		return
	}
	o.windowFrames++
	if o.frameCount%updateInterval == 0 {
		if elapsed := now - o.windowStart; elapsed > 0 {
			o.fps = float64(o.windowFrames) / elapsed
		}
		o.windowStart = now
		o.windowFrames = 0
	}
}

func (o *Overlay) refresh(in input.State) {
	if o.ShowFPS {
		o.lastFpsText = fmt.Sprintf("FPS: %.0f", o.fps)
	}
	if o.ShowMemAlloc {
		runtime.ReadMemStats(&o.lastMemStats)
		mb := float64(o.lastMemStats.Alloc) / (1024 * 1024)
		o.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
	}
	if o.ShowInput {
		o.lastInputText = fmt.Sprintf("Cursor: %.0f,%.0f Key: %d", in.CursorX, in.CursorY, in.Key.Code)
	}
}
