package t2048

// Status is the coarse state reported to UIs.
type Status string

const (
	StatusPlaying     Status = "playing"
	StatusGameOver    Status = "game_over"
	StatusPausedSmall Status = "paused_small_window"
)

// Snapshot is an immutable view of a game for UIs, transports and tests.
type Snapshot struct {
	Tick    uint64 `json:"tick,omitempty"`
	Score   int    `json:"score"`
	Best    int    `json:"best,omitempty"`
	Grid    Grid   `json:"grid"`
	MaxTile int    `json:"max_tile"`
	Over    bool   `json:"over"`
	Status  Status `json:"status"`
}

// Snapshot returns the state view.
func (s *State) Snapshot() Snapshot {
	status := StatusPlaying
	if s.over {
		status = StatusGameOver
	}
	return Snapshot{
		Score:   s.score,
		Grid:    s.grid,
		MaxTile: s.grid.MaxTile(),
		Over:    s.over,
		Status:  status,
	}
}

// Snapshot returns the state view plus tick and best score.
func (g *Game) Snapshot() Snapshot {
	snap := g.state.Snapshot()
	snap.Tick = g.tick
	snap.Best = g.Best()
	if g.tooSmall {
		snap.Status = StatusPausedSmall
	}
	return snap
}
