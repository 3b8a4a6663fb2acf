package core

// Action is a player intent, independent of the key that produced it.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionConfirm // pop the group under the cursor
	ActionHint    // jump to the biggest group
	ActionBack
	ActionRestart
	ActionQuit
	ActionPause
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionConfirm: "Confirm",
	ActionHint:    "Hint",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// Pointer is a mouse event in screen coordinates.
type Pointer struct {
	X, Y  int
	Click bool // button press; false for plain motion
}

// InputFrame collects the input that arrived between two frames.
// The zero value is an empty frame.
type InputFrame struct {
	actions uint32 // bit per Action

	// Pointer is the frame's mouse event, nil when the mouse was idle.
	Pointer *Pointer
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks a as triggered. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a > ActionNone && int(a) < len(actionNames) {
		f.actions |= 1 << a
	}
}

// Has reports whether a was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return a > ActionNone && f.actions&(1<<a) != 0
}

// Point records a mouse event. Motion never replaces a click from the
// same frame.
func (f *InputFrame) Point(x, y int, click bool) {
	if f.Pointer != nil && f.Pointer.Click && !click {
		return
	}
	f.Pointer = &Pointer{X: x, Y: y, Click: click}
}

// Empty reports whether nothing happened this frame.
func (f InputFrame) Empty() bool {
	return f.actions == 0 && f.Pointer == nil
}

// Clear readies the frame for reuse.
func (f *InputFrame) Clear() {
	*f = InputFrame{}
}
