package t2048

// Animation constants
const (
	slideAnimationDuration = 8 // ~133ms at 60fps
	popAnimationDuration   = 6 // ~100ms at 60fps
)

// TileAnimation represents an animated tile.
type TileAnimation struct {
	Value    int     // Tile value
	From     Cell    // Start position
	To       Cell    // End position
	Progress float64 // 0.0 → 1.0
	Merged   bool    // Result of a merge (for visual effect)
	IsNew    bool    // New tile (for pop effect)
}

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// pendingTile stores a spawned tile to pop after the slide.
type pendingTile struct {
	cell  Cell
	value int
}

// startSlideAnimation initializes slide animations from move tracking.
func (g *Game) startSlideAnimation(moves []TileMove) {
	g.animations = nil
	for _, m := range moves {
		g.animations = append(g.animations, TileAnimation{
			Value:  m.Value,
			From:   m.From,
			To:     m.To,
			Merged: m.Merged,
		})
	}
	g.animating = true
	g.animationPhase = PhaseSlide
	g.animationTicks = 0
}

// startPopAnimation initializes pop animation for a new tile.
func (g *Game) startPopAnimation(cell Cell, value int) {
	g.animations = []TileAnimation{{
		Value: value,
		From:  cell,
		To:    cell,
		IsNew: true,
	}}
	g.animating = true
	g.animationPhase = PhasePop
	g.animationTicks = 0
}

// updateAnimation advances the animation state.
// Returns true if animation is still in progress.
func (g *Game) updateAnimation() bool {
	if !g.animating {
		return false
	}

	g.animationTicks++

	var duration int
	switch g.animationPhase {
	case PhaseSlide:
		duration = slideAnimationDuration
	case PhasePop:
		duration = popAnimationDuration
	default:
		g.animating = false
		return false
	}

	progress := float64(g.animationTicks) / float64(duration)
	if progress > 1.0 {
		progress = 1.0
	}
	for i := range g.animations {
		g.animations[i].Progress = progress
	}

	if g.animationTicks >= duration {
		g.finishAnimation()
		return g.animating
	}
	return true
}

// finishAnimation completes the current animation phase.
func (g *Game) finishAnimation() {
	if g.animationPhase == PhaseSlide && g.pending != nil {
		g.startPopAnimation(g.pending.cell, g.pending.value)
		g.pending = nil
		return
	}

	g.animating = false
	g.animationPhase = PhaseNone
	g.animations = nil
}

// Animating reports whether a slide or pop is in progress.
func (g *Game) Animating() bool { return g.animating }

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// interpolatePosition returns the current fractional (row, col) during animation.
func (a *TileAnimation) interpolatePosition() (row, col float64) {
	t := easeOutQuad(a.Progress)
	row = float64(a.From.Row) + (float64(a.To.Row)-float64(a.From.Row))*t
	col = float64(a.From.Col) + (float64(a.To.Col)-float64(a.From.Col))*t
	return row, col
}
