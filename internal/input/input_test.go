package input

import "testing"

func TestStateKeepsLatestPerCategory(t *testing.T) {
	var s State

	s.OnCursorPos(1, 2)
	s.OnCursorPos(3.5, 4.25)
	s.OnKey(65, 38, ActionPress, 0)
	s.OnKey(66, 56, ActionRelease, ModShift|ModControl)
	s.OnMouseButton(0, ActionPress, 0)
	s.OnMouseButton(1, ActionRelease, ModAlt)
	s.OnMaximize(true)
	s.OnResize(1024, 768)

	want := State{
		CursorX:   3.5,
		CursorY:   4.25,
		Key:       Key{Code: 66, Scancode: 56, Action: ActionRelease, Mods: ModShift | ModControl},
		Mouse:     Mouse{Button: 1, Action: ActionRelease, Mods: ModAlt},
		Maximized: true,
		Width:     1024,
		Height:    768,
	}
	if got := s.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestCategoriesAreIndependent(t *testing.T) {
	var s State
	s.OnKey(65, 38, ActionPress, 0)
	s.OnCursorPos(10, 20)

	if s.Key.Code != 65 {
		t.Errorf("Key.Code = %d, want 65 after cursor move", s.Key.Code)
	}
	if s.Mouse != (Mouse{}) {
		t.Errorf("Mouse = %+v, want zero value", s.Mouse)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	var s State
	s.OnResize(800, 600)
	snap := s.Snapshot()
	s.OnResize(640, 480)

	if snap.Width != 800 || snap.Height != 600 {
		t.Errorf("snapshot changed to %dx%d", snap.Width, snap.Height)
	}
}
