package t2048

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestDeterministicReset(t *testing.T) {
	g1 := NewGame(Options{})
	g1.Reset(testConfig(12345))

	g2 := NewGame(Options{})
	g2.Reset(testConfig(12345))

	if g1.Engine().Grid() != g2.Engine().Grid() {
		t.Errorf("same seed should produce same initial grid:\n%v\nvs\n%v",
			g1.Engine().Grid(), g2.Engine().Grid())
	}
	if g1.Engine().Grid().Count() != 2 {
		t.Errorf("initial tiles = %d, want 2", g1.Engine().Grid().Count())
	}
}

func TestStepMove(t *testing.T) {
	g := NewGame(Options{})
	g.Reset(testConfig(42))
	g.Engine().grid = Grid{{2, 2, 0, 0}}

	res := g.Step(frame(core.ActionLeft))

	if res.State.Score != 4 {
		t.Errorf("score = %d, want 4", res.State.Score)
	}
	if !g.Animating() {
		t.Error("changed move should start an animation")
	}
	if g.Best() != 4 {
		t.Errorf("best = %d, want 4", g.Best())
	}

	// Slide then pop.
	for range slideAnimationDuration + popAnimationDuration {
		g.Step(frame())
	}
	if g.Animating() {
		t.Error("animation should have finished")
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := &memStore{}
	g := NewGame(Options{Store: store})
	g.Reset(testConfig(7))
	saved := g.Engine().Grid()

	res := g.Step(frame(core.ActionSave))
	if !res.Has(core.EventSaved) {
		t.Fatalf("events = %v, want saved", res.Events)
	}
	if msg := g.Message(); len(msg) != 1 || msg[0] != "Saved Successfully!" {
		t.Errorf("message = %v", msg)
	}

	g.Step(frame(core.ActionRight))
	g.Step(frame(core.ActionDown))

	res = g.Step(frame(core.ActionLoad))
	if !res.Has(core.EventLoaded) {
		t.Fatalf("events = %v, want loaded", res.Events)
	}
	if g.Engine().Grid() != saved {
		t.Errorf("loaded grid = %v, want %v", g.Engine().Grid(), saved)
	}
	if msg := g.Message(); len(msg) != 1 || msg[0] != "Loaded successfully!" {
		t.Errorf("message = %v", msg)
	}
}

func TestSaveWhileOver(t *testing.T) {
	store := &memStore{}
	g := NewGame(Options{Store: store})
	g.Reset(testConfig(7))
	g.Engine().grid = overGrid
	g.Engine().over = true

	res := g.Step(frame(core.ActionSave))

	if !res.Has(core.EventSaveFailed) {
		t.Fatalf("events = %v, want save_failed", res.Events)
	}
	if !errors.Is(res.Err, ErrGameFinished) {
		t.Errorf("err = %v, want ErrGameFinished", res.Err)
	}
	if msg := g.Message(); len(msg) != 2 || msg[0] != "You cannot save a game" {
		t.Errorf("message = %v", msg)
	}
	if store.puts != 0 {
		t.Error("finished game should not reach the store")
	}
}

func TestLoadFailureKeepsGame(t *testing.T) {
	g := NewGame(Options{Store: &memStore{}})
	g.Reset(testConfig(3))
	before := g.Engine().Grid()

	res := g.Step(frame(core.ActionLoad))

	if !res.Has(core.EventLoadFailed) {
		t.Fatalf("events = %v, want load_failed", res.Events)
	}
	var loadErr *LoadError
	if !errors.As(res.Err, &loadErr) || !errors.Is(res.Err, ErrNoSavedGame) {
		t.Errorf("err = %v, want *LoadError wrapping ErrNoSavedGame", res.Err)
	}
	if g.Engine().Grid() != before {
		t.Error("failed load changed the grid")
	}
	if msg := g.Message(); len(msg) != 1 || msg[0] != "Error loading saved game :(" {
		t.Errorf("message = %v", msg)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	g := NewGame(Options{})
	g.Reset(testConfig(3))

	res := g.Step(frame(core.ActionSave))

	var saveErr *SaveError
	if !errors.As(res.Err, &saveErr) {
		t.Errorf("err = %v, want *SaveError", res.Err)
	}
}

func TestMessageExpires(t *testing.T) {
	g := NewGame(Options{Store: &memStore{}})
	g.Reset(testConfig(3))

	g.Step(frame(core.ActionSave))
	for range messageSeconds * 60 {
		g.Step(frame())
	}
	if g.Message() != nil {
		t.Errorf("message should have expired, got %v", g.Message())
	}
}

func TestGameOverEventOnce(t *testing.T) {
	g := NewGame(Options{})
	g.Reset(testConfig(3))
	g.Engine().grid = overGrid
	g.Engine().score = 512
	g.Engine().over = true

	res := g.Step(frame(core.ActionLeft))
	if !res.Has(core.EventGameOver) || !res.State.GameOver {
		t.Fatalf("first step after game over: %+v", res)
	}
	if g.Engine().Grid() != overGrid {
		t.Error("input should be ignored while over")
	}

	res = g.Step(frame())
	if res.Has(core.EventGameOver) {
		t.Error("game over reported twice")
	}

	res = g.Step(frame(core.ActionRestart))
	if res.State.GameOver || res.State.Score != 0 {
		t.Errorf("restart state = %+v", res.State)
	}
	if g.Best() != 512 {
		t.Errorf("best = %d, want 512", g.Best())
	}
}

func TestRender(t *testing.T) {
	g := NewGame(Options{})
	g.Reset(testConfig(1))
	g.Engine().grid = Grid{{2048, 0, 0, 0}, {0, 4, 0, 0}}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"Score: ", "Best: ", "2048", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	// Tile backgrounds come from the theme.
	found := false
	for y := range scr.Height() {
		for x := range scr.Width() {
			if scr.GetCell(x, y).BG == g.theme.TileColor(2048) {
				found = true
			}
		}
	}
	if !found {
		t.Error("2048 tile color not rendered")
	}
}

func TestRenderGameOver(t *testing.T) {
	g := NewGame(Options{})
	g.Reset(testConfig(1))
	g.Engine().grid = overGrid
	g.Engine().score = 96
	g.Engine().over = true

	scr := core.NewScreen(80, 24)
	g.Render(scr)

	out := scr.String()
	if !strings.Contains(out, "Game Over") || !strings.Contains(out, "Score: 96") {
		t.Errorf("game over overlay missing:\n%s", out)
	}
}

func TestTooSmall(t *testing.T) {
	g := NewGame(Options{})
	g.Reset(testConfig(1))
	before := g.Engine().Grid()

	g.Resize(20, 10)
	res := g.Step(frame(core.ActionLeft, core.ActionUp))
	if !res.State.Paused {
		t.Error("small window should pause")
	}
	if g.Snapshot().Status != StatusPausedSmall {
		t.Errorf("status = %s", g.Snapshot().Status)
	}

	scr := core.NewScreen(20, 10)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Error("expected too-small message")
	}

	// Resizing keeps the game.
	g.Resize(80, 24)
	if g.Engine().Grid() != before {
		t.Error("resize should not reset the game")
	}
}

func TestGameSnapshot(t *testing.T) {
	g := NewGame(Options{Best: 1000})
	g.Reset(testConfig(42))
	g.Step(frame())

	snap := g.Snapshot()
	if snap.Tick != 1 {
		t.Errorf("tick = %d, want 1", snap.Tick)
	}
	if snap.Best != 1000 {
		t.Errorf("best = %d, want 1000", snap.Best)
	}
	if snap.Status != StatusPlaying {
		t.Errorf("status = %s, want playing", snap.Status)
	}
}

func TestTheme(t *testing.T) {
	th := DefaultTheme()
	for _, v := range []int{0, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048} {
		if _, ok := th.Tiles[v]; !ok {
			t.Errorf("no color for %d", v)
		}
	}
	if th.TileColor(4096) != th.Overflow {
		t.Error("values above 2048 should use the overflow color")
	}
}
