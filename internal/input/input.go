// Package input keeps the most recent input and window state reported by a
// windowing backend.
//
// State is not an event queue: each category keeps only its latest value, so
// several events of one kind delivered within a single poll collapse into the
// last one.
package input

// Actions, GLFW numbering.
const (
	ActionRelease = 0
	ActionPress   = 1
	ActionRepeat  = 2
)

// Modifier bits, GLFW numbering.
const (
	ModShift   = 0x0001
	ModControl = 0x0002
	ModAlt     = 0x0004
	ModSuper   = 0x0008
)

// Key is the last key event.
type Key struct {
	Code     int
	Scancode int
	Action   int
	Mods     int
}

// Mouse is the last mouse button event.
type Mouse struct {
	Button int
	Action int
	Mods   int
}

// State is the cached snapshot. The zero value is ready to use.
type State struct {
	CursorX, CursorY float64
	Key              Key
	Mouse            Mouse
	Maximized        bool
	// Width and Height are the window size from the last resize notification.
	Width, Height int
}

// OnCursorPos records the cursor position.
func (s *State) OnCursorPos(x, y float64) {
	s.CursorX = x
	s.CursorY = y
}

// OnKey records a key event.
func (s *State) OnKey(key, scancode, action, mods int) {
	s.Key = Key{Code: key, Scancode: scancode, Action: action, Mods: mods}
}

// OnMouseButton records a mouse button event.
func (s *State) OnMouseButton(button, action, mods int) {
	s.Mouse = Mouse{Button: button, Action: action, Mods: mods}
}

// OnMaximize records the maximize state.
func (s *State) OnMaximize(maximized bool) {
	s.Maximized = maximized
}

// OnResize records the window size.
func (s *State) OnResize(width, height int) {
	s.Width = width
	s.Height = height
}

// Snapshot returns a copy of s.
func (s *State) Snapshot() State {
	return *s
}
