package t2048

import "math/rand"

// DefaultSpawn4Probability is the chance a spawned tile is a 4 instead of a 2.
const DefaultSpawn4Probability = 0.1

// Spawner places new tiles on uniformly random empty cells.
type Spawner struct {
	rng        *rand.Rand
	spawn4Prob float64
}

// NewSpawner creates a spawner drawing from rng.
// A probability outside [0,1] falls back to DefaultSpawn4Probability.
func NewSpawner(rng *rand.Rand, spawn4Prob float64) *Spawner {
	if spawn4Prob < 0 || spawn4Prob > 1 {
		spawn4Prob = DefaultSpawn4Probability
	}
	return &Spawner{rng: rng, spawn4Prob: spawn4Prob}
}

// NewSeededSpawner creates a spawner with its own source seeded with seed.
func NewSeededSpawner(seed int64, spawn4Prob float64) *Spawner {
	return NewSpawner(rand.New(rand.NewSource(seed)), spawn4Prob)
}

// Spawn writes a 2 or a 4 into a random empty cell of g.
// It returns the chosen cell and value, or an *EngineError if g is full.
func (s *Spawner) Spawn(g *Grid) (Cell, int, error) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, 0, &EngineError{Op: "spawn", Err: ErrNoEmptyCells}
	}

	cell := empty[s.rng.Intn(len(empty))]

	value := 2
	if s.rng.Float64() < s.spawn4Prob {
		value = 4
	}

	g.Set(cell.Row, cell.Col, value)
	return cell, value, nil
}
