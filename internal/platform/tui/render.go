package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type colorPair struct {
	fg, bg core.Color
}

// styleCache holds one lipgloss style per foreground/background pair.
type styleCache map[colorPair]lipgloss.Style

func (c styleCache) style(fg, bg core.Color) lipgloss.Style {
	key := colorPair{fg, bg}
	if s, ok := c[key]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if code, ok := fg.Code(); ok {
		s = s.Foreground(lipgloss.Color(strconv.Itoa(int(code))))
	}
	if code, ok := bg.Code(); ok {
		s = s.Background(lipgloss.Color(strconv.Itoa(int(code))))
	}
	c[key] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	return renderScreen(s, make(styleCache))
}

func renderScreen(s *core.Screen, styles styleCache) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.FG != start.FG || cell.BG != start.BG {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start.FG == core.ColorDefault && start.BG == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styles.style(start.FG, start.BG).Render(run.String()))
		}
	}
	return sb.String()
}
