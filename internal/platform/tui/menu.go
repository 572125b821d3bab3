package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuChoice is what the user picked in the menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceScores
	MenuChoiceQuit
)

// MenuItem is one selectable menu entry.
type MenuItem struct {
	Title  string
	Choice MenuChoice
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	menuItemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	best      int
	keyMapper *KeyMapper
	choice    MenuChoice
}

// NewMenuModel creates a new menu. resume switches the first entry from
// "Start" to "Resume".
func NewMenuModel(width, height, best int, resume bool) MenuModel {
	play := "Start"
	if resume {
		play = "Resume"
	}
	return MenuModel{
		items: []MenuItem{
			{Title: play, Choice: MenuChoicePlay},
			{Title: "High Scores", Choice: MenuChoiceScores},
			{Title: "Quit", Choice: MenuChoiceQuit},
		},
		width:     width,
		height:    height,
		best:      best,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.choice = MenuChoiceQuit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choice = m.items[m.cursor].Choice
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	lines := []string{
		menuTitleStyle.Render("2 0 4 8"),
		"",
	}
	if m.best > 0 {
		lines = append(lines, menuHelpStyle.Render("Best: "+strconv.Itoa(m.best)), "")
	}
	for i, item := range m.items {
		if i == m.cursor {
			lines = append(lines, menuCursor.Render("> "+item.Title))
			continue
		}
		lines = append(lines, menuItemStyle.Render("  "+item.Title))
	}
	lines = append(lines, "", menuHelpStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"))

	top := (m.height - len(lines)) / 2
	if top > 0 {
		b.WriteString(strings.Repeat("\n", top))
	}
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// Choice returns the user's pick, or MenuChoiceNone while still choosing.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
