package t2048

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// storeTimeout bounds a single save or load against a record store.
const storeTimeout = 5 * time.Second

// messageSeconds is how long a notification stays on screen.
const messageSeconds = 2

// errNoStore is reported when saving or loading without a record store.
var errNoStore = errors.New("no record store configured")

// Options configures a Game.
type Options struct {
	Store      RecordStore // Save slot; nil disables save/load
	Spawn4Prob float64     // Chance of spawning a 4; 0 means DefaultSpawn4Probability
	Theme      *Theme      // Tile colors; nil means DefaultTheme
	Best       int         // Best score known before this session
}

// Game drives a State from platform ticks: it maps actions to engine calls,
// animates moves and shows notifications.
type Game struct {
	state      *State
	store      RecordStore
	theme      Theme
	spawn4Prob float64
	tickRate   int
	tick       uint64
	best       int

	screenW  int
	screenH  int
	tooSmall bool

	message      []string
	messageTicks int
	overNotified bool // Score already reported for the current finished game

	animating      bool
	animationPhase AnimationPhase
	animationTicks int
	animations     []TileAnimation
	pending        *pendingTile
}

// NewGame creates a game. Call Reset before the first Step.
func NewGame(opts Options) *Game {
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	spawn4 := opts.Spawn4Prob
	if spawn4 == 0 {
		spawn4 = DefaultSpawn4Probability
	}
	return &Game{
		store:      opts.Store,
		theme:      theme,
		spawn4Prob: spawn4,
		best:       opts.Best,
	}
}

// Reset starts a fresh game seeded from cfg.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.state = NewState(NewSeededSpawner(cfg.Seed, g.spawn4Prob))
	g.state.Restart()
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.tick = 0
	g.overNotified = false
	g.clearMessage()
	g.stopAnimation()
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts to a new screen size without touching the game state.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minScreenW || h < minScreenH
}

// Engine returns the underlying game state.
func (g *Game) Engine() *State { return g.state }

// Best returns the best score seen, including the current one.
func (g *Game) Best() int {
	if g.state != nil && g.state.Score() > g.best {
		return g.state.Score()
	}
	return g.best
}

// Message returns the notification currently shown, if any.
func (g *Game) Message() []string { return g.message }

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	var res core.StepResult

	if g.tooSmall {
		res.State = g.State()
		return res
	}

	g.updateAnimation()
	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = nil
		}
	}

	switch {
	case in.Has(core.ActionRestart):
		g.restart()
	case in.Has(core.ActionSave):
		if err := g.save(); err != nil {
			res.Events = append(res.Events, core.EventSaveFailed)
			res.Err = err
		} else {
			res.Events = append(res.Events, core.EventSaved)
		}
	case in.Has(core.ActionLoad):
		if err := g.load(); err != nil {
			res.Events = append(res.Events, core.EventLoadFailed)
			res.Err = err
		} else {
			res.Events = append(res.Events, core.EventLoaded)
		}
	default:
		if dir, ok := directionFor(in); ok {
			g.move(dir)
		}
	}

	if g.state.Over() && !g.overNotified {
		g.overNotified = true
		res.Events = append(res.Events, core.EventGameOver)
	}

	res.State = g.State()
	return res
}

// directionFor returns the first direction action present in the frame.
func directionFor(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// move forwards a direction to the engine and animates the result.
func (g *Game) move(dir Direction) {
	out, accepted := g.state.OnDirection(dir)
	if !accepted || !out.Changed {
		return
	}

	// A new move snaps any running animation to its end.
	g.stopAnimation()
	g.startSlideAnimation(out.Moves)
	if out.SpawnValue != 0 {
		g.pending = &pendingTile{cell: out.Spawned, value: out.SpawnValue}
	}
	if s := g.state.Score(); s > g.best {
		g.best = s
	}
}

func (g *Game) restart() {
	if s := g.state.Score(); s > g.best {
		g.best = s
	}
	g.state.Restart()
	g.overNotified = false
	g.stopAnimation()
	g.clearMessage()
}

// save writes the game to the store and sets the matching notification.
func (g *Game) save() error {
	if g.store == nil {
		g.showMessage("Error saving the game :(")
		return &SaveError{Err: errNoStore}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := g.state.SaveTo(ctx, g.store)
	switch {
	case err == nil:
		g.showMessage("Saved Successfully!")
	case errors.Is(err, ErrGameFinished):
		g.showMessage("You cannot save a game", "that is already over!")
	default:
		g.showMessage("Error saving the game :(")
	}
	return err
}

// load replaces the game from the store; on failure the current game stays.
func (g *Game) load() error {
	if g.store == nil {
		g.showMessage("Error loading saved game :(")
		return &LoadError{Err: errNoStore}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := g.state.LoadFrom(ctx, g.store); err != nil {
		g.showMessage("Error loading saved game :(")
		return err
	}

	g.stopAnimation()
	g.overNotified = g.state.Over()
	g.showMessage("Loaded successfully!")
	return nil
}

func (g *Game) showMessage(lines ...string) {
	g.message = lines
	g.messageTicks = messageSeconds * g.tickRate
}

func (g *Game) clearMessage() {
	g.message = nil
	g.messageTicks = 0
}

func (g *Game) stopAnimation() {
	g.animating = false
	g.animationPhase = PhaseNone
	g.animationTicks = 0
	g.animations = nil
	g.pending = nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.state.Score(),
		GameOver: g.state.Over(),
		Paused:   g.tooSmall,
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/drag: Move | R: Restart | ^S: Save | ^L: Load | Esc: Menu | Q: Quit"
}

// gameOverLines is the text of the game-over notification.
func gameOverLines(score int) []string {
	return []string{"Game Over", fmt.Sprintf("Score: %d", score)}
}
