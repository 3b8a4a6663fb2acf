package balls

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-balls/internal/core"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
)

const (
	cellWidth    = 2 // ball plus gap
	hudHeight    = 3 // title, score line, preview line
	footerHeight = 1
	hudWidth     = 36 // room for the score and best columns

	ballRune   = '●'
	hoverRune  = '◉'
	cursorRune = '◎'
)

const helpLine = "arrows/hjkl move  enter pop  ? hint  p pause  r new  q quit"

// boardFrame returns the box drawn around the board, sized for the
// starting grid and centered horizontally.
func (g *Game) boardFrame() core.Rect {
	return core.CenteredRow(g.screenW, hudHeight, g.width*cellWidth+3, g.height+2)
}

// cellArea is the part of the frame holding balls. Rows only shrink, so
// every live cell stays inside it.
func (g *Game) cellArea() core.Rect {
	frame := g.boardFrame()
	return core.NewRect(frame.X+2, frame.Y+1, g.width*cellWidth, g.height)
}

// hudRect returns the area above the board used by the HUD.
func (g *Game) hudRect() core.Rect {
	return core.CenteredRow(g.screenW, 0, max(g.boardFrame().W, hudWidth), hudHeight)
}

// cellOrigin returns the screen position of grid cell (x, y).
func (g *Game) cellOrigin(x, y int) (int, int) {
	area := g.cellArea()
	return area.X + x*cellWidth, area.Y + y
}

// CellAt maps a screen position to the live grid cell under it.
// The gap after a ball belongs to that ball.
func (g *Game) CellAt(screenX, screenY int) (bcore.Coord, bool) {
	if g.engine == nil || g.tooSmall {
		return bcore.Coord{}, false
	}
	dx, dy, ok := g.cellArea().Local(screenX, screenY)
	if !ok {
		return bcore.Coord{}, false
	}
	c := bcore.C(dx/cellWidth, dy)
	if !g.engine.InBounds(c.X, c.Y) {
		return bcore.Coord{}, false
	}
	return c, true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	frame := g.boardFrame()
	g.renderHUD(dst, g.hudRect())
	g.renderBoard(dst, frame)
	dst.DrawTextCentered(frame.Bottom(), helpLine)
	g.renderOverlays(dst, frame)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	frame := g.boardFrame()
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", frame.W, frame.Bottom()+footerHeight))
}

// renderHUD draws title, score, best and the preview of the hovered cluster.
func (g *Game) renderHUD(dst *core.Screen, hud core.Rect) {
	title := g.Title()
	dst.DrawText(hud.X+(hud.W-utf8.RuneCountInString(title))/2, hud.Y, title)

	dst.DrawText(hud.X, hud.Y+1, fmt.Sprintf("Score: %d", g.engine.Score()))
	best := fmt.Sprintf("Best: %d", g.displayBest())
	dst.DrawTextColored(hud.Right()-len(best), hud.Y+1, best, core.ColorBrightYellow)

	dst.DrawText(hud.X, hud.Y+2, fmt.Sprintf("Possible: %d", g.Possible()))
	tiles := fmt.Sprintf("Tiles: %d", g.engine.Tiles())
	dst.DrawText(hud.Right()-len(tiles), hud.Y+2, tiles)
}

// displayBest never shows a best below the running score.
func (g *Game) displayBest() int {
	return max(g.best, g.engine.Score())
}

// renderBoard draws the frame and every live ball.
func (g *Game) renderBoard(dst *core.Screen, frame core.Rect) {
	dst.DrawBox(frame, core.ColorGray)

	showCursor := !g.engine.Ended() && !g.paused
	for y := 0; y < g.engine.Rows(); y++ {
		for x := 0; x < g.engine.RowLen(y); x++ {
			color, _ := g.engine.ColorAt(x, y)
			sx, sy := g.cellOrigin(x, y)
			c := bcore.C(x, y)

			switch {
			case showCursor && g.hover.Contains(c):
				dst.SetColored(sx, sy, hoverRune, g.colorOf(color).Bright())
			case showCursor && c == g.cursor:
				dst.SetColored(sx, sy, cursorRune, g.colorOf(color).Bright())
			default:
				dst.SetColored(sx, sy, ballRune, g.colorOf(color))
			}
		}
	}
}

func (g *Game) colorOf(c bcore.Color) core.Color {
	if int(c) < len(g.palette) {
		return g.palette[c]
	}
	return core.ColorWhite
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, frame core.Rect) {
	score := fmt.Sprintf("Score: %d", g.engine.Score())

	switch {
	case g.paused:
		g.drawOverlay(dst, frame, "PAUSED", "Press P to resume")
	case g.engine.State() == bcore.StateWon:
		g.drawOverlay(dst, frame, "YOU WIN", score, "Press R to restart")
	case g.engine.State() == bcore.StateLost:
		g.drawOverlay(dst, frame, "GAME OVER", score, "Press R to restart")
	}
}

// drawOverlay draws a boxed message over the middle of frame.
func (g *Game) drawOverlay(dst *core.Screen, frame core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := frame.CenterBox(maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		x := box.X + (box.W-utf8.RuneCountInString(line))/2
		dst.DrawTextColored(x, box.Y+1+i, line, core.ColorBrightWhite)
	}
}
