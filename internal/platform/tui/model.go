package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// ScoreRecorder stores finished games.
type ScoreRecorder interface {
	SaveScore(player string, score, maxTile int) (int64, error)
}

// GameOptions configures a GameModel.
type GameOptions struct {
	Game           *t2048.Game
	Scores         ScoreRecorder // nil disables high scores
	Player         string
	Config         core.RuntimeConfig
	SwipeThreshold int
	Logger         *log.Logger
}

// GameModel runs one 2048 game: it feeds keys and mouse swipes into the
// engine on every tick and records the score when the game ends.
type GameModel struct {
	game       *t2048.Game
	screen     *core.Screen
	scores     ScoreRecorder
	player     string
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	swipe      *core.SwipeDetector
	styles     styleCache
	logger     *log.Logger
	ticking    bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model and resets the game.
func NewGameModel(opts GameOptions) GameModel {
	cfg := opts.Config
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	player := opts.Player
	if player == "" {
		player = "player"
	}

	opts.Game.Reset(cfg)

	return GameModel{
		game:       opts.Game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		scores:     opts.Scores,
		player:     player,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		gameState:  opts.Game.State(),
		keyMapper:  NewKeyMapper(),
		swipe:      core.NewSwipeDetector(opts.SwipeThreshold),
		styles:     make(styleCache),
		logger:     logger,
		ticking:    true,
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Resume clears the back-to-menu flag and restarts the tick loop unless
// the previous one is still running.
func (m GameModel) Resume() (GameModel, tea.Cmd) {
	m.backToMenu = false
	m.inputFrame.Clear()
	m.swipe.Cancel()
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionBack) {
		m.backToMenu = true
	}
	return m, nil
}

// handleMouse turns a left-button drag into a swipe.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.swipe.Press(msg.X, msg.Y)
	case tea.MouseActionRelease:
		if action, ok := m.swipe.Release(msg.X, msg.Y); ok {
			m.inputFrame.Set(action)
		}
	}
	return m, nil
}

// handleResize keeps the game; only the layout changes.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.game.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		// The loop stops while the menu is shown.
		m.ticking = false
		return m, nil
	}
	m.ticking = true

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if result.Err != nil {
		m.logger.Warn("game command failed", "player", m.player, "error", result.Err)
	}
	if result.Has(core.EventGameOver) {
		m.recordScore()
	}

	return m, tickCmd(m.config.TickRate)
}

func (m GameModel) recordScore() {
	score := m.gameState.Score
	if m.scores == nil || score <= 0 {
		return
	}
	maxTile := m.game.Engine().Grid().MaxTile()
	if _, err := m.scores.SaveScore(m.player, score, maxTile); err != nil {
		m.logger.Error("cannot record score", "player", m.player, "score", score, "error", err)
		return
	}
	m.logger.Info("game over", "player", m.player, "score", score, "max_tile", maxTile)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return renderScreen(m.screen, m.styles)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Best returns the best score seen by this game.
func (m GameModel) Best() int {
	return m.game.Best()
}
