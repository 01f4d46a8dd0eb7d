package filter

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/reel/internal/genre"
	"github.com/justchokingaround/reel/internal/tui/common"
	"github.com/justchokingaround/reel/internal/tui/styles"
	"github.com/justchokingaround/reel/internal/tui/utils"
)

// Width is the outer width of the sidebar, borders included
const Width = 28

// Model is the genre sidebar. Toggling chips only changes the pending
// selection; it becomes the applied one when submitted.
type Model struct {
	genres  []genre.Genre
	cursor  int
	pending genre.Selection
	applied genre.Selection
	focused bool
	height  int
}

func New(dir *genre.Directory) Model {
	return Model{genres: dir.All()}
}

// SetApplied records the selection the result list is using and resets the
// pending chips to match it
func (m *Model) SetApplied(sel genre.Selection) {
	m.applied = sel
	m.pending = sel
}

func (m Model) Pending() genre.Selection { return m.pending }

func (m Model) Applied() genre.Selection { return m.applied }

func (m *Model) SetFocused(focused bool) { m.focused = focused }

func (m *Model) SetHeight(height int) { m.height = height }

// CanSubmit reports whether the search button is enabled
func (m Model) CanSubmit() bool {
	return !m.pending.Empty()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.genres)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.genres) - 1
	case " ", "x":
		if len(m.genres) > 0 {
			m.pending = m.pending.Toggle(m.genres[m.cursor].ID)
		}
	case "enter":
		if !m.CanSubmit() {
			return m, nil
		}
		sel := m.pending
		return m, func() tea.Msg { return common.ApplyGenresMsg{Selection: sel} }
	case "c":
		m.pending = genre.Selection{}
		return m, func() tea.Msg { return common.ClearGenresMsg{} }
	}

	return m, nil
}

// View renders the sidebar box
func (m Model) View() string {
	inner := Width - 4

	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Genres") + "\n")
	if n := m.pending.Len(); n > 0 {
		b.WriteString(styles.MetadataStyle.Render(fmt.Sprintf("%d selected", n)) + "\n\n")
	} else {
		b.WriteString(styles.HelpStyle.Render("none selected") + "\n\n")
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		g := m.genres[i]

		marker := "  "
		if m.focused && i == m.cursor {
			marker = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple).Render("› ")
		}

		name := utils.TruncateWithWidth(g.Name, inner-4)
		chip := styles.ChipStyle.Render(name)
		if m.pending.Has(g.ID) {
			chip = styles.ChipSelectedStyle.Render(name)
		}

		applied := ""
		if m.applied.Has(g.ID) {
			applied = lipgloss.NewStyle().Foreground(styles.OxocarbonGreen).Render(" ✓")
		}
		b.WriteString(marker + chip + applied + "\n")
	}

	b.WriteString("\n")
	if m.CanSubmit() {
		b.WriteString(styles.ButtonStyle.Render("Search"))
	} else {
		b.WriteString(styles.ButtonDisabledStyle.Render("Search"))
	}
	b.WriteString("\n" + styles.HelpStyle.Render("space toggle • c clear"))

	box := styles.SidebarStyle
	if m.focused {
		box = styles.SidebarFocusedStyle
	}
	return box.Width(Width - 2).Render(b.String())
}

// visibleRange returns the genre rows that fit in the available height
func (m Model) visibleRange() (int, int) {
	total := len(m.genres)
	if m.height <= 0 {
		return 0, total
	}

	// borders, header, count, blanks, button, help
	visible := max(m.height-8, 3)
	if total <= visible {
		return 0, total
	}

	start := max(m.cursor-visible/2, 0)
	end := start + visible
	if end > total {
		end = total
		start = end - visible
	}
	return start, end
}
