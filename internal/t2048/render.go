package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 3 // Height of each cell (including top border)

	boardW    = Size*cellWidth + 1
	boardH    = Size*cellHeight + 1
	hudHeight = 3

	minScreenW = boardW + 2
	minScreenH = hudHeight + 1 + boardH + 2
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderGridLines(dst, boardX, boardY)
	if g.animating {
		g.renderAnimatedTiles(dst, boardX, boardY)
	} else {
		g.renderTiles(dst, boardX, boardY)
	}
	g.renderOverlays(dst, boardX, boardY)

	dst.DrawTextCentered(boardY+boardH+1, g.Controls())
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws the title, score and best score.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := "2048"
	dst.DrawText(boardX+(boardW-len(title))/2, 0, title)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.state.Score()))

	best := fmt.Sprintf("Best: %d", g.Best())
	dst.DrawText(boardX+boardW-len(best), 1, best)

	maxStr := fmt.Sprintf("Max tile: %d", g.state.Grid().MaxTile())
	dst.DrawText(boardX+(boardW-len(maxStr))/2, 2, maxStr)
}

// renderGridLines draws the 4x4 grid borders.
func (g *Game) renderGridLines(dst *core.Screen, boardX, boardY int) {
	for y := range Size + 1 {
		for x := range Size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == Size:
				corner = '┐'
			case y == Size && x == 0:
				corner = '└'
			case y == Size && x == Size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == Size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == Size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < Size {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < Size {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}
}

// renderTiles draws every cell of the committed grid, empty cells included.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	grid := g.state.Grid()
	for r := range Size {
		for c := range Size {
			x := boardX + c*cellWidth + 1
			y := boardY + r*cellHeight + 1
			g.drawTile(dst, x, y, grid[r][c])
		}
	}
}

// renderAnimatedTiles draws empty cells, then tiles at their interpolated positions.
func (g *Game) renderAnimatedTiles(dst *core.Screen, boardX, boardY int) {
	if g.animationPhase == PhasePop {
		g.renderTiles(dst, boardX, boardY)
		for _, a := range g.animations {
			x := boardX + a.To.Col*cellWidth + 1
			y := boardY + a.To.Row*cellHeight + 1
			if a.Progress < 0.5 {
				// Grow from a small tile.
				g.drawTile(dst, x, y, 0)
				dst.FillRect(core.Rect{X: x + 2, Y: y, W: 2, H: 1}, g.theme.TileColor(a.Value))
			}
		}
		return
	}

	for r := range Size {
		for c := range Size {
			g.drawTile(dst, boardX+c*cellWidth+1, boardY+r*cellHeight+1, 0)
		}
	}
	for i := range g.animations {
		a := &g.animations[i]
		row, col := a.interpolatePosition()
		x := boardX + 1 + int(math.Round(col*cellWidth))
		y := boardY + 1 + int(math.Round(row*cellHeight))
		g.drawTile(dst, x, y, a.Value)
	}
}

// drawTile paints one tile's interior with the x,y top-left corner.
func (g *Game) drawTile(dst *core.Screen, x, y, value int) {
	bg := g.theme.TileColor(value)
	dst.FillRect(core.Rect{X: x, Y: y, W: cellWidth - 1, H: cellHeight - 1}, bg)
	if value == 0 {
		return
	}

	valStr := strconv.Itoa(value)
	padLeft := max((cellWidth-1-len(valStr))/2, 0)
	dst.DrawTextColor(x+padLeft, y+(cellHeight-2)/2, valStr, g.theme.Text, bg)
}

// renderOverlays draws the notification or the game-over box.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	if len(g.message) > 0 {
		drawOverlay(dst, centerX, centerY, g.message...)
		return
	}

	if g.state.Over() {
		lines := append(gameOverLines(g.state.Score()), "R: restart  ^L: load")
		drawOverlay(dst, centerX, centerY, lines...)
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2
	box := core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH}

	dst.FillRect(box, core.ColorDefault)
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, boxY+1+i, line)
	}
}
