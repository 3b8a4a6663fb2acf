// Package core provides the platform-neutral screen, input and geometry types.
// It has no external dependencies (especially no Bubble Tea) so game adapters
// stay pure and testable.
package core

// Rect is a box of screen cells. Right and Bottom are exclusive.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// CenteredRow returns a w by h box centered horizontally on a screen of
// width screenW, with its top at row y.
func CenteredRow(screenW, y, w, h int) Rect {
	return Rect{X: (screenW - w) / 2, Y: y, W: w, H: h}
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Local translates a screen cell into r's own coordinates.
// ok is false when the cell is outside r.
func (r Rect) Local(x, y int) (lx, ly int, ok bool) {
	if !r.Contains(x, y) {
		return 0, 0, false
	}
	return x - r.X, y - r.Y, true
}

// Center returns the middle cell, rounding toward the top-left.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// CenterBox returns a w by h box sharing r's center.
func (r Rect) CenterBox(w, h int) Rect {
	cx, cy := r.Center()
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}
