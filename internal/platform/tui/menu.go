package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/core"
	"github.com/vovakirdan/tui-balls/internal/games/balls"
	"github.com/vovakirdan/tui-balls/internal/registry"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

// Rows above the first menu item: blank, title, palette, blank, prompt, blank.
const menuItemsTop = 6

// MenuItem is one board in the picker.
type MenuItem struct {
	GameID string
	Title  string
	Size   string // "20x15", empty when the preset is missing
	Colors int
	Best   int
}

// MenuModel is the Bubble Tea model for the board picker.
type MenuModel struct {
	items          []MenuItem
	palette        []core.Color
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel lists every registered board with its size and best score.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	active := config.Active()
	games := registry.List()
	items := make([]MenuItem, 0, len(games))

	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if v, ok := balls.VariantByID(g.ID); ok {
			if p, err := active.Preset(v.Preset); err == nil {
				item.Size = fmt.Sprintf("%dx%d", p.Width, p.Height)
				item.Colors = active.ColorsFor(p)
			}
		}
		if store != nil {
			if best, _, err := store.ReadBest(g.ID); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		palette:   active.ScreenColors(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
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

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// 1-9 pick a board directly.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(m.items) && n < 9 {
			m.cursor = n
			return m.choose()
		}
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.move(-1)
	case MenuActionDown:
		m.move(1)
	case MenuActionSelect:
		return m.choose()
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

// handleMouse hovers items on motion and picks one on a left click.
func (m MenuModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	i := msg.Y - menuItemsTop
	if i < 0 || i >= len(m.items) {
		return m, nil
	}
	m.cursor = i
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return m.choose()
	}
	return m, nil
}

// move steps the cursor, wrapping at both ends.
func (m *MenuModel) move(delta int) {
	if n := len(m.items); n > 0 {
		m.cursor = (m.cursor + delta + n) % n
	}
}

func (m MenuModel) choose() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	selected := m.items[m.cursor]
	m.selected = &selected
	return m, tea.Quit
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle, "  B A L L S  ", m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.paletteStrip(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a board", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := m.itemLine(i, item)
		if i == m.cursor {
			b.WriteString(centerStyled(menuCursorStyle, line, m.width))
		} else {
			b.WriteString(centerText(line, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down or 1-9: Choose  |  Enter/Click: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerStyled(menuHelpStyle, controls, m.width))
	b.WriteString("\n")
	return b.String()
}

func (m MenuModel) itemLine(i int, item MenuItem) string {
	marker := " "
	if i == m.cursor {
		marker = ">"
	}
	shape := item.Size
	if shape != "" {
		shape = fmt.Sprintf("%s, %d colors", item.Size, item.Colors)
	}
	return fmt.Sprintf("%s %d. %-14s %-16s best %5d", marker, i+1, item.Title, shape, item.Best)
}

// paletteStrip shows one ball per palette color.
func (m MenuModel) paletteStrip() string {
	balls := make([]string, len(m.palette))
	for i, c := range m.palette {
		balls[i] = colorStyles[c].Render("●")
	}
	return strings.Join(balls, " ")
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// centerStyled centers text, then styles it without the padding.
func centerStyled(style lipgloss.Style, text string, width int) string {
	return centerText(style.Render(text), width)
}

// MenuResult is what the user chose in RunMenu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the board picker with mouse support.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
