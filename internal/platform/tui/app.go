package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// AppOptions configures an AppModel.
type AppOptions struct {
	Scores         *storage.Store    // High scores; nil disables them
	Slot           t2048.RecordStore // Save slot; nil disables save/load
	Player         string
	Config         core.RuntimeConfig
	SwipeThreshold int
	Spawn4Prob     float64
	Theme          *t2048.Theme
	Logger         *log.Logger
}

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// AppModel manages the session flow: menu -> game or scoreboard -> menu.
// The game survives trips to the menu and is resumed from there.
type AppModel struct {
	opts       AppOptions
	config     core.RuntimeConfig
	screen     screen
	menu       MenuModel
	game       *GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewAppModel creates the top-level model.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	m := AppModel{
		opts:   opts,
		config: opts.Config,
	}
	m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH, m.best(), false)
	return m
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
		// The game keeps its layout current even while hidden.
		if m.game != nil && m.screen != screenGame {
			updated, _ := m.game.Update(msg)
			g := updated.(GameModel)
			m.game = &g
		}
	}

	// Ticks always reach the game so its loop can wind down.
	if _, ok := msg.(TickMsg); ok && m.game != nil && m.screen != screenGame {
		updated, _ := m.game.Update(msg)
		g := updated.(GameModel)
		m.game = &g
		return m, nil
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.menu.Update(msg)
	m.menu = updated.(MenuModel)

	switch m.menu.Choice() {
	case MenuChoiceQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuChoicePlay:
		m.screen = screenGame
		if m.game == nil {
			g := m.newGame()
			m.game = &g
			return m, g.Init()
		}
		g, resume := m.game.Resume()
		m.game = &g
		return m, resume

	case MenuChoiceScores:
		m.screen = screenScores
		m.scoreboard = NewScoreboardModel(m.scoreSource(), m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.game.Update(msg)
	g := updated.(GameModel)
	m.game = &g

	if g.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if g.BackToMenu() {
		m.showMenu()
	}
	return m, cmd
}

func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.scoreboard.Update(msg)
	m.scoreboard = updated.(ScoreboardModel)

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.showMenu()
	}
	return m, cmd
}

func (m *AppModel) showMenu() {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH, m.best(), m.game != nil)
}

func (m AppModel) newGame() GameModel {
	game := t2048.NewGame(t2048.Options{
		Store:      m.opts.Slot,
		Spawn4Prob: m.opts.Spawn4Prob,
		Theme:      m.opts.Theme,
		Best:       m.best(),
	})
	return NewGameModel(GameOptions{
		Game:           game,
		Scores:         m.scoreRecorder(),
		Player:         m.opts.Player,
		Config:         m.config,
		SwipeThreshold: m.opts.SwipeThreshold,
		Logger:         m.opts.Logger,
	})
}

// best is the highest known score, from the running game or the database.
func (m AppModel) best() int {
	best := 0
	if m.opts.Scores != nil {
		hs, err := m.opts.Scores.HighScore()
		if err != nil {
			m.opts.Logger.Warn("cannot read high score", "error", err)
		}
		best = hs
	}
	if m.game != nil && m.game.Best() > best {
		best = m.game.Best()
	}
	return best
}

func (m AppModel) scoreSource() ScoreSource {
	if m.opts.Scores == nil {
		return nil
	}
	return m.opts.Scores
}

func (m AppModel) scoreRecorder() ScoreRecorder {
	if m.opts.Scores == nil {
		return nil
	}
	return m.opts.Scores
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts AppOptions) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
