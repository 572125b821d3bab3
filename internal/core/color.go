package core

// Color represents a terminal color for a screen cell.
// The zero value is the terminal default; every other value wraps an
// ANSI 256-color palette code.
type Color uint16

// Predefined colors for the 16 base palette entries.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// ANSI returns the color for a 256-color palette code.
func ANSI(code uint8) Color {
	return Color(code) + 1
}

// Code returns the 256-color palette code.
// The second result is false for ColorDefault.
func (c Color) Code() (uint8, bool) {
	if c == ColorDefault {
		return 0, false
	}
	return uint8(c - 1), true
}
