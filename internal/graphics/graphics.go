package graphics

import (
	"github.com/gogpu/gg"

	"glfwcanvas/internal/app"
	"glfwcanvas/internal/debug"
	"glfwcanvas/internal/input"
)

// Idle modes, used when TargetFPS is 0.
const (
	IdleWait = "wait" // block in WaitEvents between frames
	IdlePoll = "poll" // PollEvents and render continuously
)

// Options configures Run.
type Options struct {
	// TargetFPS caps the frame rate. 0 means no cap and Idle applies.
	TargetFPS int
	// Idle is IdleWait (block until the next event, the default) or IdlePoll
	// (render continuously).
	Idle string
	// Overlay, when set and enabled, is drawn on top of every frame.
	Overlay *debug.Overlay
	// MaxFrames stops the loop after that many frames. 0 means until close.
	MaxFrames int
}

// DrawFunc draws one frame into dc, which is already cleared to the
// background color.
type DrawFunc func(dc *gg.Context, in input.State)

// Run drives a until its window is asked to close: each iteration clears the
// frame, calls draw, draws the overlay, presents, then waits as opts says.
// It returns the number of presented frames. The handle stays alive; the
// caller destroys it.
func Run(rt *app.Runtime, a *app.App, draw DrawFunc, opts Options) (frames int, err error) {
	for !a.ShouldClose() {
		if err := a.BeginFrame(); err != nil {
			return frames, err
		}
		if draw != nil {
			draw(a.Context(), a.Input())
		}
		if opts.Overlay != nil && opts.Overlay.Enabled() {
			opts.Overlay.Draw(a.Context(), rt.Backend().Time(), a.Input())
		}
		if err := a.EndFrame(); err != nil {
			return frames, err
		}
		frames++
		if opts.MaxFrames > 0 && frames >= opts.MaxFrames {
			return frames, nil
		}

		switch {
		case opts.TargetFPS > 0:
			rt.PollEvents()
			a.SetTargetFPS(opts.TargetFPS)
		case opts.Idle == IdlePoll:
			rt.PollEvents()
		default:
			rt.WaitEvents()
		}
	}
	return frames, nil
}
