package help

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/reel/internal/tui/styles"
)

// Context is the pane the help overlay was opened from
type Context int

const (
	GlobalContext Context = iota
	ListContext
	FilterContext
	DetailsContext
)

func (c Context) String() string {
	switch c {
	case ListContext:
		return "Movie List"
	case FilterContext:
		return "Genre Filter"
	case DetailsContext:
		return "Movie Details"
	default:
		return ""
	}
}

// Shortcut is one key binding row
type Shortcut struct {
	Key         string
	Description string
	Contexts    []Context
}

var shortcuts = []Shortcut{
	{Key: "↑/↓ or j/k", Description: "Move up/down", Contexts: []Context{GlobalContext}},
	{Key: "tab", Description: "Switch between filter and list", Contexts: []Context{GlobalContext}},
	{Key: "f", Description: "Show/hide genre filter", Contexts: []Context{GlobalContext}},
	{Key: "r", Description: "Refresh, or retry after an error", Contexts: []Context{GlobalContext}},
	{Key: "?", Description: "Show/hide this help", Contexts: []Context{GlobalContext}},
	{Key: "q", Description: "Quit", Contexts: []Context{GlobalContext}},

	{Key: "enter / i", Description: "Show movie details", Contexts: []Context{ListContext}},
	{Key: "/", Description: "Filter loaded titles", Contexts: []Context{ListContext}},
	{Key: "esc", Description: "Lock or clear the title filter", Contexts: []Context{ListContext}},
	{Key: "L", Description: "Load the next page", Contexts: []Context{ListContext}},
	{Key: "g/G", Description: "Jump to top/bottom", Contexts: []Context{ListContext, FilterContext}},
	{Key: "y", Description: "Copy poster URL", Contexts: []Context{ListContext, DetailsContext}},
	{Key: "o", Description: "Open in browser", Contexts: []Context{ListContext, DetailsContext}},

	{Key: "space / x", Description: "Toggle genre", Contexts: []Context{FilterContext}},
	{Key: "enter", Description: "Search selected genres", Contexts: []Context{FilterContext}},
	{Key: "c", Description: "Clear genres, back to popular", Contexts: []Context{FilterContext}},

	{Key: "↑/↓", Description: "Scroll overview", Contexts: []Context{DetailsContext}},
	{Key: "esc / i", Description: "Close details", Contexts: []Context{DetailsContext}},
}

// Model is the help overlay
type Model struct {
	context      Context
	width        int
	height       int
	visible      bool
	scrollOffset int
}

func New() Model {
	return Model{context: ListContext}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the overlay with less-style keys while it is visible
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			m.scrollOffset--
		case "down", "j":
			m.scrollOffset++
		case "ctrl+u", "u":
			m.scrollOffset -= 10
		case "ctrl+d", "d":
			m.scrollOffset += 10
		case "home", "g":
			m.scrollOffset = 0
		case "end", "G":
			m.scrollOffset = len(m.lines())
		}
		m.scrollOffset = max(min(m.scrollOffset, m.maxScroll()), 0)
	}
	return m, nil
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetContext(ctx Context) { m.context = ctx }

func (m *Model) Show() {
	m.visible = true
	m.scrollOffset = 0
}

func (m *Model) Hide() {
	m.visible = false
	m.scrollOffset = 0
}

func (m *Model) Toggle() {
	if m.visible {
		m.Hide()
	} else {
		m.Show()
	}
}

func (m Model) IsVisible() bool { return m.visible }

// forContext returns the non-global shortcuts bound in ctx
func forContext(ctx Context) []Shortcut {
	var out []Shortcut
	for _, sc := range shortcuts {
		if slices.Contains(sc.Contexts, ctx) {
			out = append(out, sc)
		}
	}
	return out
}

func (m Model) lines() []string {
	var lines []string
	lines = append(lines, styles.HeaderStyle.Render("General"))
	for _, sc := range forContext(GlobalContext) {
		lines = append(lines, renderShortcut(sc))
	}

	if m.context != GlobalContext {
		lines = append(lines, "", styles.HeaderStyle.Render(m.context.String()))
		for _, sc := range forContext(m.context) {
			lines = append(lines, renderShortcut(sc))
		}
	}
	return lines
}

func (m Model) availableHeight() int {
	return max(m.height-8, 6)
}

func (m Model) maxScroll() int {
	return max(len(m.lines())-m.availableHeight(), 0)
}

func renderShortcut(sc Shortcut) string {
	key := lipgloss.NewStyle().Foreground(styles.OxocarbonPurple).Bold(true).Width(16).Render(sc.Key)
	return "  " + key + lipgloss.NewStyle().Foreground(styles.OxocarbonBase05).Render(sc.Description)
}

// View renders the overlay centered in the terminal, empty when hidden or
// before the first resize
func (m Model) View() string {
	if !m.visible || m.width == 0 || m.height == 0 {
		return ""
	}

	lines := m.lines()
	offset := max(min(m.scrollOffset, m.maxScroll()), 0)
	end := min(offset+m.availableHeight(), len(lines))

	title := "KEYBOARD SHORTCUTS"
	if len(lines) > m.availableHeight() {
		title += fmt.Sprintf(" (%d-%d/%d)", offset+1, end, len(lines))
	}

	boxWidth := min(60, max(m.width-4, 36))
	titleBar := lipgloss.NewStyle().
		Foreground(styles.OxocarbonWhite).
		Background(styles.OxocarbonPurple).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render(title)

	body := strings.Join(lines[offset:end], "\n")
	footer := styles.HelpStyle.Render("j/k scroll • esc/? close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OxocarbonPurple).
		Padding(0, 2).
		Width(boxWidth).
		Render(titleBar + "\n\n" + body + "\n\n" + footer)

	if lipgloss.Height(box) >= m.height {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
