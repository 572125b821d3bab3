package t2048

// Direction represents a move direction.
// The numeric values are part of the save/wire surface and must not change.
type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirRight
	DirLeft
)

// Directions lists every direction in trial order.
var Directions = [...]Direction{DirDown, DirUp, DirRight, DirLeft}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "down":
		return DirDown, true
	case "up":
		return DirUp, true
	case "right":
		return DirRight, true
	case "left":
		return DirLeft, true
	}
	return 0, false
}

// vertical reports whether the direction collapses columns.
func (d Direction) vertical() bool {
	return d == DirDown || d == DirUp
}

// towardIndex0 reports whether tiles collapse toward index 0 of each line.
func (d Direction) towardIndex0() bool {
	return d == DirUp || d == DirLeft
}

// TileMove records where a tile travelled during a move. Used for animation.
type TileMove struct {
	From   Cell
	To     Cell
	Value  int  // Value before the move
	Merged bool // Whether this tile merged with another
}

// MoveResult is the outcome of collapsing the whole grid in one direction.
type MoveResult struct {
	Grid       Grid
	ScoreDelta int
	Changed    bool
	Moves      []TileMove
}

// lineMove is a TileMove along one line, in line indices.
type lineMove struct {
	from, to int
	value    int
	merged   bool
}

// ComputeLine collapses a single line.
// When towardIndex0 is false the line is worked right to left.
// Returns the new line and the score gained from merges.
func ComputeLine(line Line, towardIndex0 bool) (Line, int) {
	out, score, _ := collapse(line, towardIndex0)
	return out, score
}

// collapse compacts the line toward its target end, then merges adjacent
// equal pairs once each in a single pass.
func collapse(line Line, towardIndex0 bool) (Line, int, []lineMove) {
	if !towardIndex0 {
		line = reverseLine(line)
	}

	// Compaction
	var packed Line
	var origin [Size]int
	n := 0
	for i, v := range line {
		if v != 0 {
			packed[n] = v
			origin[n] = i
			n++
		}
	}

	// Merge pass
	var out Line
	var moves []lineMove
	score := 0
	w := 0
	for i := 0; i < n; i++ {
		if i+1 < n && packed[i] == packed[i+1] {
			out[w] = packed[i] + packed[i+1]
			score += out[w]
			moves = append(moves,
				lineMove{from: origin[i], to: w, value: packed[i], merged: true},
				lineMove{from: origin[i+1], to: w, value: packed[i+1], merged: true},
			)
			i++ // right-hand neighbour is consumed
		} else {
			out[w] = packed[i]
			moves = append(moves, lineMove{from: origin[i], to: w, value: packed[i]})
		}
		w++
	}

	if !towardIndex0 {
		out = reverseLine(out)
		for i := range moves {
			moves[i].from = Size - 1 - moves[i].from
			moves[i].to = Size - 1 - moves[i].to
		}
	}
	return out, score, moves
}

// reverseLine reverses a line.
func reverseLine(line Line) Line {
	var result Line
	for i := range Size {
		result[i] = line[Size-1-i]
	}
	return result
}

// ComputeGridMove collapses every row (left/right) or column (up/down) of g.
// g is passed by value and never modified.
func ComputeGridMove(g Grid, dir Direction) MoveResult {
	res := MoveResult{Grid: g}
	toward0 := dir.towardIndex0()

	for i := range Size {
		var line Line
		if dir.vertical() {
			line = g.Col(i)
		} else {
			line = g.Row(i)
		}

		newLine, score, moves := collapse(line, toward0)
		res.ScoreDelta += score
		if newLine != line {
			res.Changed = true
		}

		if dir.vertical() {
			res.Grid.setCol(i, newLine)
		} else {
			res.Grid[i] = newLine
		}

		for _, m := range moves {
			tm := TileMove{Value: m.value, Merged: m.merged}
			if dir.vertical() {
				tm.From = Cell{Row: m.from, Col: i}
				tm.To = Cell{Row: m.to, Col: i}
			} else {
				tm.From = Cell{Row: i, Col: m.from}
				tm.To = Cell{Row: i, Col: m.to}
			}
			res.Moves = append(res.Moves, tm)
		}
	}

	return res
}

// CanMove returns true if at least one direction changes the grid.
// Trial moves are pure; the grid is never touched.
func CanMove(g Grid) bool {
	for _, dir := range Directions {
		if ComputeGridMove(g, dir).Changed {
			return true
		}
	}
	return false
}

// IsGameOver returns true if the grid is full and no direction changes it.
func IsGameOver(g Grid) bool {
	if g.HasEmptyCell() {
		return false
	}
	return !CanMove(g)
}
