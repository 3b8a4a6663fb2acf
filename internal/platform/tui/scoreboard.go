package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-balls/internal/registry"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

const (
	maxScores  = 100
	maxRecords = 50
	chromeRows = 9 // title, summary, tabs, borders and help
)

// boardView selects what the scoreboard table lists.
type boardView int

const (
	viewScores boardView = iota
	viewRecords
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Toggle    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextBoard, k.PrevBoard, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Toggle, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextBoard: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next board")),
		PrevBoard: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev board")),
		Toggle:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "scores/records")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the best scores and recorded games per board.
type ScoreboardModel struct {
	boards    []registry.GameInfo
	cursor    int
	view      boardView
	store     *storage.Store
	scores    []storage.ScoreEntry
	records   []storage.GameRecord
	best      int
	stats     *storage.GameStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard opened on the first board.
// A nil store shows empty tables.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		boards: registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

// current is the ID of the selected board.
func (m ScoreboardModel) current() string {
	if len(m.boards) == 0 {
		return ""
	}
	return m.boards[m.cursor].ID
}

// reload fetches the selected board's data and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.scores, m.records, m.best, m.stats = nil, nil, 0, nil
	id := m.current()
	if m.store != nil && id != "" {
		if best, _, err := m.store.ReadBest(id); err == nil {
			m.best = best
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
		if scores, err := m.store.TopScores(id, maxScores); err == nil {
			m.scores = scores
		}
		if records, err := m.store.RecentGameRecords(id, maxRecords); err == nil {
			m.records = records
		}
	}
	m.table = m.buildTable()
}

func (m ScoreboardModel) buildTable() table.Model {
	var columns []table.Column
	var rows []table.Row

	switch m.view {
	case viewRecords:
		columns = []table.Column{
			{Title: "Record", Width: 7},
			{Title: "Result", Width: 7},
			{Title: "Score", Width: 8},
			{Title: "Moves", Width: 6},
			{Title: "Time", Width: 6},
			{Title: "Date", Width: 13},
		}
		for _, r := range m.records {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.ID),
				r.Outcome,
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", len(r.Moves)),
				fmt.Sprintf("%ds", r.Duration),
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	default:
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 16},
		}
		for i, s := range m.scores {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				fmt.Sprintf("%d", s.Score),
				s.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeRows, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextBoard):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + 1) % len(m.boards)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevBoard):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + len(m.boards) - 1) % len(m.boards)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if m.view == viewScores {
				m.view = viewRecords
			} else {
				m.view = viewScores
			}
			m.table = m.buildTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.buildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	title := "HIGH SCORES"
	if m.view == viewRecords {
		title = "RECENT GAMES"
	}
	if len(m.boards) > 0 {
		title += " - " + m.boards[m.cursor].Title
	}

	var b strings.Builder
	b.WriteString(centerStyled(titleStyle, title, m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.summary(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.tableContent())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// summary is the one-line best and stats header.
func (m ScoreboardModel) summary() string {
	line := fmt.Sprintf("Best %d", m.best)
	if m.stats != nil && m.stats.GamesCount > 0 {
		line += fmt.Sprintf("  |  Games %d  |  Average %.0f", m.stats.GamesCount, m.stats.AvgScore)
	}
	if m.stats != nil && m.stats.Wins+m.stats.Losses > 0 {
		line += fmt.Sprintf("  |  Cleared %d/%d", m.stats.Wins, m.stats.Wins+m.stats.Losses)
	}
	return line
}

// tabs renders one tab per board, collapsing to arrows when they don't fit.
func (m ScoreboardModel) tabs() string {
	if len(m.boards) == 0 {
		return ""
	}
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeStyle := tabStyle.Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	tabs := make([]string, len(m.boards))
	for i, g := range m.boards {
		if i == m.cursor {
			tabs[i] = activeStyle.Render(g.Title)
		} else {
			tabs[i] = tabStyle.Render(g.Title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(line) > m.width-4 {
		return fmt.Sprintf("< %s >", m.boards[m.cursor].Title)
	}
	return line
}

func (m ScoreboardModel) tableContent() string {
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 4)
	switch {
	case m.view == viewScores && len(m.scores) == 0:
		return empty.Render("No scores recorded yet.\nClear a board to set a high score!")
	case m.view == viewRecords && len(m.records) == 0:
		return empty.Render("No finished games recorded yet.")
	case m.view == viewRecords:
		return m.table.View() + "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
			Render("balls replay <record> replays a game")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
