// Package t2048 implements the 2048 game-state engine: the 4x4 grid, the
// move/merge transform, random tile spawning, game-over detection and the
// save record, plus the tick-driven adapter the terminal platform runs.
package t2048

import "fmt"

// Size is the grid dimension.
const Size = 4

// Line is one row or column of the grid.
type Line [Size]int

// Grid is a 4x4 matrix of tile values; 0 marks an empty cell.
// Grid is a value type: assigning it copies every cell.
type Grid [Size]Line

// Cell addresses one grid position.
type Cell struct {
	Row int
	Col int
}

// Get returns the value at (row, col).
// Out-of-range coordinates panic like any array index.
func (g *Grid) Get(row, col int) int {
	return g[row][col]
}

// Set stores a value at (row, col).
// Out-of-range coordinates panic like any array index.
func (g *Grid) Set(row, col, value int) {
	g[row][col] = value
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func (g Grid) EmptyCells() []Cell {
	var cells []Cell
	for r := range Size {
		for c := range Size {
			if g[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func (g Grid) HasEmptyCell() bool {
	for r := range Size {
		for c := range Size {
			if g[r][c] == 0 {
				return true
			}
		}
	}
	return false
}

// MaxTile returns the maximum tile value on the grid.
func (g Grid) MaxTile() int {
	maxVal := 0
	for r := range Size {
		for c := range Size {
			if g[r][c] > maxVal {
				maxVal = g[r][c]
			}
		}
	}
	return maxVal
}

// Count returns the number of occupied cells.
func (g Grid) Count() int {
	n := 0
	for r := range Size {
		for c := range Size {
			if g[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

// Row returns row r.
func (g Grid) Row(r int) Line {
	return g[r]
}

// Col returns column c read top to bottom.
func (g Grid) Col(c int) Line {
	var line Line
	for r := range Size {
		line[r] = g[r][c]
	}
	return line
}

// setCol writes column c top to bottom.
func (g *Grid) setCol(c int, line Line) {
	for r := range Size {
		g[r][c] = line[r]
	}
}

// Rows returns the grid as nested slices, the shape used by save records.
func (g Grid) Rows() [][]int {
	rows := make([][]int, Size)
	for r := range Size {
		rows[r] = append([]int(nil), g[r][:]...)
	}
	return rows
}

// GridFromRows builds a grid from nested slices.
// It fails unless rows is exactly Size rows of exactly Size values.
func GridFromRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, fmt.Errorf("grid has %d rows, want %d", len(rows), Size)
	}
	for r, row := range rows {
		if len(row) != Size {
			return g, fmt.Errorf("grid row %d has %d cells, want %d", r, len(row), Size)
		}
		copy(g[r][:], row)
	}
	return g, nil
}

// isTileValue reports whether v may appear in a grid: 0 or a power of two >= 2.
func isTileValue(v int) bool {
	return v == 0 || (v >= 2 && v&(v-1) == 0)
}
