package t2048

import (
	"context"
	"errors"
)

// MoveOutcome describes a committed move.
type MoveOutcome struct {
	MoveResult

	// Spawned is the cell filled after a changed move; SpawnValue is 0 when nothing spawned.
	Spawned    Cell
	SpawnValue int
}

// State owns one grid, the score and the over flag.
// It is not safe for concurrent use; callers serialize access.
type State struct {
	grid    Grid
	score   int
	over    bool
	spawner *Spawner
}

// NewState creates a zero-filled game. Call Restart to place the starting tiles.
func NewState(spawner *Spawner) *State {
	return &State{spawner: spawner}
}

// Grid returns a copy of the current grid.
func (s *State) Grid() Grid { return s.grid }

// Score returns the current score.
func (s *State) Score() int { return s.score }

// Over reports the stored game-over flag.
func (s *State) Over() bool { return s.over }

// IsOver recomputes game-over from the grid using trial moves.
func (s *State) IsOver() bool {
	return IsGameOver(s.grid)
}

// Move commits a move. An unchanged move leaves the state untouched and spawns nothing.
func (s *State) Move(dir Direction) MoveOutcome {
	res := ComputeGridMove(s.grid, dir)
	out := MoveOutcome{MoveResult: res}
	if !res.Changed {
		return out
	}

	s.grid = res.Grid
	s.score += res.ScoreDelta
	out.Spawned, out.SpawnValue = s.mustSpawn()
	s.over = s.IsOver()
	return out
}

// ApplyMove commits a move and reports whether the grid changed and the score gained.
func (s *State) ApplyMove(dir Direction) (bool, int) {
	out := s.Move(dir)
	return out.Changed, out.ScoreDelta
}

// OnDirection is the input entry point for UIs. Input is ignored while the game is over.
func (s *State) OnDirection(dir Direction) (MoveOutcome, bool) {
	if s.over {
		return MoveOutcome{}, false
	}
	return s.Move(dir), true
}

// Restart clears the grid and score and places two starting tiles.
func (s *State) Restart() {
	s.grid = Grid{}
	s.score = 0
	s.over = false
	s.mustSpawn()
	s.mustSpawn()
}

// mustSpawn panics on an engine error: a changed move or a fresh grid always has room.
func (s *State) mustSpawn() (Cell, int) {
	cell, value, err := s.spawner.Spawn(&s.grid)
	if err != nil {
		panic(err)
	}
	return cell, value
}

// Save returns a snapshot record of the game, failing with *SaveError if it is over.
func (s *State) Save() (SaveRecord, error) {
	if s.over {
		return SaveRecord{}, &SaveError{Err: ErrGameFinished}
	}
	return SaveRecord{Score: s.score, Grid: s.grid.Rows()}, nil
}

// Load replaces grid and score from rec and recomputes the over flag.
// On failure the state is left unchanged and a *LoadError is returned.
func (s *State) Load(rec SaveRecord) error {
	if err := rec.Validate(); err != nil {
		return &LoadError{Err: err}
	}
	g, err := GridFromRows(rec.Grid)
	if err != nil {
		return &LoadError{Err: err}
	}
	s.grid = g
	s.score = rec.Score
	s.over = IsGameOver(g)
	return nil
}

// SaveTo saves the game into store.
func (s *State) SaveTo(ctx context.Context, store RecordStore) error {
	rec, err := s.Save()
	if err != nil {
		return err
	}
	if err := store.Put(ctx, rec); err != nil {
		return &SaveError{Err: err}
	}
	return nil
}

// LoadFrom loads the game stored in store.
func (s *State) LoadFrom(ctx context.Context, store RecordStore) error {
	rec, err := store.Get(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return err
		}
		return &LoadError{Err: err}
	}
	return s.Load(rec)
}
