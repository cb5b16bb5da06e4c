// Package frameloop decides, once per loop iteration, whether the
// application keeps running, suspends while its window is minimized, and
// paces frames to a target rate.
//
// Pacing is leading edge: the frame timestamp is taken before the pacing
// wait, not after it. When work between two checks is slow the schedule
// drifts instead of catching up.
package frameloop

import (
	"log/slog"
)

// IconifiedPoll bounds each wait while the window is minimized, in seconds.
const IconifiedPoll = 0.5

// State is the loop state.
type State int

const (
	Running State = iota
	IconifiedWait
	CloseRequested
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case IconifiedWait:
		return "iconified-wait"
	case CloseRequested:
		return "close-requested"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Clock is the part of a windowing backend the controller waits on.
type Clock interface {
	WaitEventsTimeout(seconds float64)
	Time() float64
}

// Window is the part of a native window the controller reads.
type Window interface {
	ShouldClose() bool
	SetShouldClose(v bool)
	Iconified() bool
}

// Controller runs the loop state machine for one window.
type Controller struct {
	clock Clock
	win   Window
	log   *slog.Logger

	state        State
	closeFlag    bool
	previousTime float64
}

// New returns a controller in the Running state.
func New(clock Clock, win Window, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{clock: clock, win: win, log: log, state: Running}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// CloseFlag returns the value read by the last PollCloseState.
func (c *Controller) CloseFlag() bool { return c.closeFlag }

// PollCloseState moves the window close signal into the controller and
// clears it, so one close action is observed exactly once.
func (c *Controller) PollCloseState() bool {
	if c.state == Terminated {
		return true
	}
	c.closeFlag = c.win.ShouldClose()
	c.win.SetShouldClose(false)
	if c.closeFlag {
		c.state = CloseRequested
		c.log.Debug("close requested")
	} else {
		c.state = Running
	}
	return c.closeFlag
}

// ShouldClose is the per-iteration loop check: PollCloseState, then a
// blocking wait while the window is minimized. Callers stop looping when it
// returns true.
func (c *Controller) ShouldClose() bool {
	closing := c.PollCloseState()
	c.WaitWhileIconified()
	return closing
}

// WaitWhileIconified blocks in IconifiedPoll slices until the window is
// restored. Event delivery during the waits keeps it responsive.
func (c *Controller) WaitWhileIconified() {
	if c.state == Terminated || !c.win.Iconified() {
		return
	}
	prev := c.state
	c.state = IconifiedWait
	c.log.Debug("window iconified, suspending")
	for c.win.Iconified() {
		c.clock.WaitEventsTimeout(IconifiedPoll)
	}
	c.log.Debug("window restored")
	c.state = prev
}

// SetTargetFPS waits out the rest of the frame budget for fps frames per
// second and returns the requested wait in seconds. fps <= 0 disables the
// cap and only records the timestamp.
func (c *Controller) SetTargetFPS(fps int) float64 {
	now := c.clock.Time()
	var wait float64
	if fps > 0 {
		target := 1.0 / float64(fps)
		if elapsed := now - c.previousTime; elapsed < target {
			wait = target - elapsed
			c.clock.WaitEventsTimeout(wait)
		}
	}
	c.previousTime = now
	return wait
}

// RequestClose raises the window close signal. Resources stay alive until
// the owner tears them down.
func (c *Controller) RequestClose() {
	if c.state == Terminated {
		return
	}
	c.win.SetShouldClose(true)
}

// Terminate marks the loop finished. Further close checks report true.
func (c *Controller) Terminate() {
	c.state = Terminated
	c.closeFlag = true
}
