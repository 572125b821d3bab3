package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents what the platform needs to know about a running game.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Window too small to play
}

// Event is something that happened during a tick that the platform may act on.
type Event int

const (
	EventNone Event = iota
	EventSaved
	EventSaveFailed
	EventLoaded
	EventLoadFailed
	EventGameOver // Game just ended; record the score
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventSaved:
		return "saved"
	case EventSaveFailed:
		return "save_failed"
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load_failed"
	case EventGameOver:
		return "game_over"
	default:
		return "none"
	}
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State  GameState
	Events []Event
	Err    error // Cause of a failed save or load this tick
}

// Has reports whether e happened this tick.
func (r StepResult) Has(e Event) bool {
	for _, ev := range r.Events {
		if ev == e {
			return true
		}
	}
	return false
}
