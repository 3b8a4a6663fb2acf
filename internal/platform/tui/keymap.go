package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-balls/internal/core"
)

// gameKeys binds key names, as tea.KeyMsg.String reports them, to board actions.
// Arrows, vim keys and WASD all steer the cursor.
var gameKeys = map[string]core.Action{
	"up": core.ActionUp, "k": core.ActionUp, "w": core.ActionUp,
	"down": core.ActionDown, "j": core.ActionDown, "s": core.ActionDown,
	"left": core.ActionLeft, "h": core.ActionLeft, "a": core.ActionLeft,
	"right": core.ActionRight, "l": core.ActionRight, "d": core.ActionRight,
	"enter": core.ActionConfirm, " ": core.ActionConfirm,
	"?":   core.ActionHint,
	"esc": core.ActionBack, "b": core.ActionBack,
	"p": core.ActionPause,
	"r": core.ActionRestart,
	"q": core.ActionQuit, "ctrl+c": core.ActionQuit,
}

var menuKeys = map[string]MenuAction{
	"up": MenuActionUp, "k": MenuActionUp, "w": MenuActionUp,
	"down": MenuActionDown, "j": MenuActionDown, "s": MenuActionDown,
	"enter": MenuActionSelect, " ": MenuActionSelect,
	"esc": MenuActionBack, "b": MenuActionBack,
	"tab": MenuActionScoreboard,
	"q":   MenuActionQuit, "ctrl+c": MenuActionQuit,
}

// KeyMapper turns terminal input into actions and input frames.
type KeyMapper struct {
	game map[string]core.Action
	menu map[string]MenuAction
}

// NewKeyMapper returns a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{game: gameKeys, menu: menuKeys}
}

// MapKey returns the board action for a key, and whether it quits.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action, ok := km.game[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return action, action == core.ActionQuit
}

// MapKeyToFrame sets the key's action in frame and reports a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapMouseToFrame records a mouse event in the frame. Left presses are
// clicks; motion only moves the pointer. Other events are ignored.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		frame.Point(msg.X, msg.Y, true)
	case msg.Action == tea.MouseActionMotion:
		frame.Point(msg.X, msg.Y, false)
	}
}

// MenuAction is what a key does on the board picker.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction returns the picker action for a key.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return km.menu[msg.String()]
}
