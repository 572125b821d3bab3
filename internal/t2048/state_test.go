package t2048

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestState(seed int64) *State {
	return NewState(NewSeededSpawner(seed, DefaultSpawn4Probability))
}

func TestRestart(t *testing.T) {
	for seed := range int64(50) {
		s := newTestState(seed)
		s.grid = overGrid
		s.score = 1234
		s.over = true

		s.Restart()

		if n := s.Grid().Count(); n != 2 {
			t.Fatalf("seed %d: restart left %d tiles, want 2", seed, n)
		}
		if s.Score() != 0 || s.Over() {
			t.Fatalf("seed %d: score=%d over=%v after restart", seed, s.Score(), s.Over())
		}
	}
}

func TestApplyMoveSpawnsOnce(t *testing.T) {
	s := newTestState(1)
	s.grid = Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	changed, delta := s.ApplyMove(DirLeft)

	if !changed || delta != 4 {
		t.Fatalf("ApplyMove = %v, %d; want true, 4", changed, delta)
	}
	if s.Score() != 4 {
		t.Errorf("score = %d, want 4", s.Score())
	}
	if n := s.Grid().Count(); n != 2 {
		t.Errorf("tiles after move = %d, want merged tile plus one spawn", n)
	}
	if s.Grid()[0][0] != 4 {
		t.Errorf("merged tile = %d, want 4", s.Grid()[0][0])
	}
}

func TestApplyMoveNoChangeNoSpawn(t *testing.T) {
	s := newTestState(1)
	s.grid = Grid{
		{2, 4, 0, 0},
		{8, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	s.score = 10
	before := s.Grid()

	changed, delta := s.ApplyMove(DirLeft)

	if changed || delta != 0 {
		t.Fatalf("ApplyMove = %v, %d; want false, 0", changed, delta)
	}
	if s.Grid() != before {
		t.Errorf("grid changed on no-op move:\n%v", s.Grid())
	}
	if s.Score() != 10 {
		t.Errorf("score = %d, want 10", s.Score())
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	s := newTestState(9)
	s.Restart()

	last := 0
	for i := range 2000 {
		if s.Over() {
			break
		}
		s.ApplyMove(Directions[i%len(Directions)])
		if s.Score() < last {
			t.Fatalf("score dropped from %d to %d", last, s.Score())
		}
		last = s.Score()
		if s.Over() != s.IsOver() {
			t.Fatal("stored over flag disagrees with IsOver")
		}
	}
}

func TestOnDirectionIgnoredWhenOver(t *testing.T) {
	s := newTestState(1)
	s.grid = overGrid
	s.over = true

	if _, accepted := s.OnDirection(DirLeft); accepted {
		t.Error("input should be ignored while over")
	}
	if s.Grid() != overGrid {
		t.Error("grid changed while over")
	}
}

func TestMoveIntoGameOver(t *testing.T) {
	// Only the bottom-right cell is free; moving right fills it.
	s := NewState(NewSeededSpawner(1, 0))
	s.grid = Grid{
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{16, 8, 4, 0},
	}

	out := s.Move(DirRight)

	if !out.Changed {
		t.Fatal("move should change the grid")
	}
	if out.SpawnValue != 2 || out.Spawned != (Cell{Row: 3, Col: 0}) {
		t.Fatalf("spawn = %d at %v, want 2 at (3,0)", out.SpawnValue, out.Spawned)
	}
	// Row 3 becomes 2,16,8,4 which has no neighbours to merge.
	if !s.Over() {
		t.Errorf("game should be over:\n%v", s.Grid())
	}
}

func TestSaveWhenOver(t *testing.T) {
	s := newTestState(1)
	s.grid = overGrid
	s.score = 300
	s.over = true

	_, err := s.Save()

	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("Save error = %v, want *SaveError", err)
	}
	if !errors.Is(err, ErrGameFinished) {
		t.Errorf("error should wrap ErrGameFinished: %v", err)
	}
	if !strings.Contains(err.Error(), "cannot save a finished game") {
		t.Errorf("error message = %q", err.Error())
	}
	if s.Grid() != overGrid || s.Score() != 300 || !s.Over() {
		t.Error("state changed by failed save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestState(5)
	s.Restart()
	s.ApplyMove(DirLeft)
	s.ApplyMove(DirUp)

	rec, err := s.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := newTestState(6)
	other.Restart()
	if err := other.Load(rec); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if other.Grid() != s.Grid() || other.Score() != s.Score() {
		t.Errorf("loaded %v/%d, want %v/%d", other.Grid(), other.Score(), s.Grid(), s.Score())
	}

	// The record is a snapshot, not a view.
	rec.Grid[0][0] = 4096
	if other.Grid()[0][0] == 4096 {
		t.Error("loaded grid aliases the record")
	}
}

func TestLoadMalformedLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		rec  SaveRecord
	}{
		{"three rows", SaveRecord{Score: 4, Grid: [][]int{{0, 0, 0, 0}, {0, 0, 0, 0}, {2, 0, 0, 0}}}},
		{"short row", SaveRecord{Grid: [][]int{{0, 0, 0, 0}, {0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}}},
		{"long row", SaveRecord{Grid: [][]int{{0, 0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}}},
		{"no grid", SaveRecord{Score: 8}},
		{"negative score", SaveRecord{Score: -1, Grid: Grid{}.Rows()}},
		{"odd tile", SaveRecord{Grid: Grid{{3}}.Rows()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(2)
			s.Restart()
			s.ApplyMove(DirDown)
			beforeGrid, beforeScore, beforeOver := s.Grid(), s.Score(), s.Over()

			err := s.Load(tt.rec)

			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Load error = %v, want *LoadError", err)
			}
			if !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("error should wrap ErrMalformedRecord: %v", err)
			}
			if s.Grid() != beforeGrid || s.Score() != beforeScore || s.Over() != beforeOver {
				t.Error("state changed by failed load")
			}
		})
	}
}

func TestLoadRecomputesOver(t *testing.T) {
	s := newTestState(1)
	s.Restart()

	if err := s.Load(SaveRecord{Score: 50, Grid: overGrid.Rows()}); err != nil {
		t.Fatal(err)
	}
	if !s.Over() {
		t.Error("loading a finished grid should set over")
	}

	playable := overGrid
	playable[0][0] = 4
	if err := s.Load(SaveRecord{Score: 60, Grid: playable.Rows()}); err != nil {
		t.Fatal(err)
	}
	if s.Over() {
		t.Error("loading a playable grid should clear over")
	}
}

func TestSaveToLoadFrom(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	s := newTestState(4)
	s.Restart()
	if err := s.LoadFrom(ctx, store); !errors.Is(err, ErrNoSavedGame) {
		t.Fatalf("LoadFrom empty store = %v, want ErrNoSavedGame", err)
	}

	if err := s.SaveTo(ctx, store); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	saved := s.Grid()
	s.ApplyMove(DirRight)
	s.ApplyMove(DirDown)

	if err := s.LoadFrom(ctx, store); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if s.Grid() != saved {
		t.Errorf("LoadFrom grid = %v, want %v", s.Grid(), saved)
	}

	store.putErr = errDiskFull
	err := s.SaveTo(ctx, store)
	var saveErr *SaveError
	if !errors.As(err, &saveErr) || !errors.Is(err, errDiskFull) {
		t.Errorf("SaveTo failure = %v, want *SaveError wrapping the cause", err)
	}

	s.over = true
	store.putErr = nil
	if err := s.SaveTo(ctx, store); !errors.Is(err, ErrGameFinished) {
		t.Errorf("SaveTo while over = %v", err)
	}
	if store.puts != 1 {
		t.Errorf("store written %d times, want 1", store.puts)
	}
}

func TestStateSnapshot(t *testing.T) {
	s := newTestState(1)
	s.grid = Grid{{2, 0, 0, 1024}}
	s.score = 88

	snap := s.Snapshot()
	if snap.Score != 88 || snap.MaxTile != 1024 || snap.Status != StatusPlaying || snap.Over {
		t.Errorf("snapshot = %+v", snap)
	}

	s.over = true
	if s.Snapshot().Status != StatusGameOver {
		t.Error("snapshot should report game over")
	}
}
