package t2048

import "github.com/vovakirdan/tui-2048/internal/core"

// Theme maps tile values to 256-color palette codes.
// Values without an entry use Overflow.
type Theme struct {
	Tiles    map[int]core.Color
	Overflow core.Color
	Text     core.Color // Foreground for tile digits
}

// DefaultTheme returns a green-to-red ramp for 0..2048.
func DefaultTheme() Theme {
	return Theme{
		Tiles: map[int]core.Color{
			0:    core.ANSI(28),
			2:    core.ANSI(46),
			4:    core.ANSI(41),
			8:    core.ANSI(36),
			16:   core.ANSI(31),
			32:   core.ANSI(26),
			64:   core.ANSI(21),
			128:  core.ANSI(56),
			256:  core.ANSI(91),
			512:  core.ANSI(126),
			1024: core.ANSI(161),
			2048: core.ANSI(196),
		},
		Overflow: core.ANSI(201),
		Text:     core.ColorBrightWhite,
	}
}

// TileColor returns the background color for a tile value.
func (t Theme) TileColor(value int) core.Color {
	if c, ok := t.Tiles[value]; ok {
		return c
	}
	return t.Overflow
}
