package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-balls/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runeKey("k"), core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{runeKey("j"), core.ActionDown, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runeKey("h"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{runeKey("l"), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionConfirm, false},
		{runeKey("?"), core.ActionHint, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey("p"), core.ActionPause, false},
		{runeKey("r"), core.ActionRestart, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %s, %v, expected %s, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapMouseToFrame(t *testing.T) {
	km := NewKeyMapper()

	frame := core.NewInputFrame()
	km.MapMouseToFrame(tea.MouseMsg{X: 4, Y: 5, Action: tea.MouseActionMotion}, &frame)
	if frame.Pointer == nil || frame.Pointer.Click {
		t.Fatalf("motion pointer = %+v, expected a move without click", frame.Pointer)
	}

	km.MapMouseToFrame(tea.MouseMsg{X: 6, Y: 7, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, &frame)
	if p := frame.Pointer; p == nil || !p.Click || p.X != 6 || p.Y != 7 {
		t.Errorf("press pointer = %+v, expected click at (6, 7)", p)
	}

	frame.Clear()
	km.MapMouseToFrame(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame)
	if frame.Pointer != nil {
		t.Errorf("release and right click should be ignored, got %+v", frame.Pointer)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.action {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tt.msg.String(), got, tt.action)
		}
	}
}

func TestEveryBoardActionHasAKey(t *testing.T) {
	bound := make(map[core.Action]bool)
	for _, a := range gameKeys {
		bound[a] = true
	}
	for _, a := range []core.Action{
		core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight,
		core.ActionConfirm, core.ActionHint, core.ActionBack, core.ActionPause,
		core.ActionRestart, core.ActionQuit,
	} {
		if !bound[a] {
			t.Errorf("%s has no key", a)
		}
	}
}
