package movies

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/rating"
	"github.com/justchokingaround/reel/internal/tui/common"
	"github.com/justchokingaround/reel/internal/tui/styles"
	"github.com/justchokingaround/reel/internal/tui/utils"
)

const (
	meterCells   = 10
	linesPerItem = 5 // title, meta, two overview lines, blank separator
)

// Model is the scrollable movie list
type Model struct {
	items          []catalog.Movie
	currentIndex   int
	width          int
	height         int
	threshold      int
	focused        bool
	fuzzySearch    *common.FuzzySearch
	showInfoDialog bool
	dialogScroll   int
}

// New creates an empty list. threshold is how many rows from the bottom the
// cursor must be before a NearEndMsg is sent.
func New(threshold int) Model {
	return Model{
		threshold:   max(threshold, 1),
		focused:     true,
		fuzzySearch: common.NewFuzzySearch(),
	}
}

// SetItems replaces the displayed movies. reset moves the cursor back to the
// top, used when the result set itself changed rather than grew.
func (m *Model) SetItems(items []catalog.Movie, reset bool) {
	m.items = items
	if reset {
		m.currentIndex = 0
		m.showInfoDialog = false
		m.fuzzySearch.Deactivate()
	}
	if n := len(m.getFilteredIndices()); m.currentIndex >= n {
		m.currentIndex = max(n-1, 0)
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.fuzzySearch.SetWidth(width)
}

func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Typing reports whether keys are going to the filter input, in which case
// global shortcuts must not fire
func (m Model) Typing() bool {
	return m.fuzzySearch.Editing()
}

// DialogOpen reports whether the details dialog is shown
func (m Model) DialogOpen() bool { return m.showInfoDialog }

func (m Model) Len() int { return len(m.items) }

func (m Model) Cursor() int { return m.currentIndex }

// Selected returns the movie under the cursor
func (m Model) Selected() (catalog.Movie, bool) {
	filtered := m.getFilteredIndices()
	if m.currentIndex < 0 || m.currentIndex >= len(filtered) {
		return catalog.Movie{}, false
	}
	return m.items[filtered[m.currentIndex]], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.showInfoDialog {
		switch keyMsg.String() {
		case "esc", "i", "enter":
			m.showInfoDialog = false
			m.dialogScroll = 0
		case "up", "k":
			if m.dialogScroll > 0 {
				m.dialogScroll--
			}
		case "down", "j":
			if mv, ok := m.Selected(); ok && m.dialogScroll < m.dialogMaxScroll(mv) {
				m.dialogScroll++
			}
		case "y":
			return m, m.selectedCmd(func(mv catalog.Movie) tea.Msg { return common.CopyPosterMsg{Movie: mv} })
		case "o":
			return m, m.selectedCmd(func(mv catalog.Movie) tea.Msg { return common.OpenMovieMsg{Movie: mv} })
		}
		return m, nil
	}

	if m.fuzzySearch.Editing() {
		switch keyMsg.String() {
		case "esc", "enter":
			m.fuzzySearch.Lock()
			return m, nil
		case "up", "down":
			return m.move(keyMsg.String())
		default:
			cmd := m.fuzzySearch.Update(keyMsg)
			m.currentIndex = 0
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "esc":
		if m.fuzzySearch.IsActive() {
			m.fuzzySearch.Deactivate()
			m.currentIndex = 0
		}
		return m, nil
	case "/":
		if m.fuzzySearch.IsActive() {
			return m, m.fuzzySearch.Unlock()
		}
		cmd := m.fuzzySearch.Activate()
		m.currentIndex = 0
		return m, cmd
	case "i", "enter":
		mv, ok := m.Selected()
		if !ok {
			return m, nil
		}
		m.showInfoDialog = true
		m.dialogScroll = 0
		return m, func() tea.Msg { return common.MovieViewedMsg{Movie: mv} }
	case "y":
		return m, m.selectedCmd(func(mv catalog.Movie) tea.Msg { return common.CopyPosterMsg{Movie: mv} })
	case "o":
		return m, m.selectedCmd(func(mv catalog.Movie) tea.Msg { return common.OpenMovieMsg{Movie: mv} })
	default:
		return m.move(keyMsg.String())
	}
}

func (m Model) move(key string) (Model, tea.Cmd) {
	last := len(m.getFilteredIndices()) - 1
	if last < 0 {
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.currentIndex > 0 {
			m.currentIndex--
		}
		return m, nil
	case "down", "j":
		if m.currentIndex < last {
			m.currentIndex++
		}
	case "pgdown", "ctrl+d":
		m.currentIndex = min(m.currentIndex+m.pageSize(), last)
	case "pgup", "ctrl+u":
		m.currentIndex = max(m.currentIndex-m.pageSize(), 0)
		return m, nil
	case "g", "home":
		m.currentIndex = 0
		return m, nil
	case "G", "end":
		m.currentIndex = last
	default:
		return m, nil
	}

	return m, m.nearEndCmd()
}

// nearEndCmd asks for the next page once the cursor is within threshold rows
// of the end. A narrowed filter only sees a subset, so it never pages.
func (m Model) nearEndCmd() tea.Cmd {
	if m.fuzzySearch.IsActive() && m.fuzzySearch.Query() != "" {
		return nil
	}
	if len(m.items)-1-m.currentIndex >= m.threshold {
		return nil
	}
	return func() tea.Msg { return common.NearEndMsg{} }
}

func (m Model) selectedCmd(build func(catalog.Movie) tea.Msg) tea.Cmd {
	mv, ok := m.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg { return build(mv) }
}

func (m Model) pageSize() int {
	_, visible := m.getVisibleRange(len(m.items))
	return max(visible, 1)
}

func (m Model) getFilteredIndices() []int {
	titles := make([]string, len(m.items))
	for i, mv := range m.items {
		titles[i] = mv.Title
	}
	return m.fuzzySearch.Filter(titles)
}

// getVisibleRange keeps the cursor centered in the window of rows that fit
func (m Model) getVisibleRange(total int) (int, int) {
	maxVisible := 3
	if m.height > 0 {
		overhead := 3 // count line, blank, filter line
		if m.fuzzySearch.IsActive() {
			overhead += 2
		}
		maxVisible = max((m.height-overhead)/linesPerItem, 1)
	}

	if total <= maxVisible {
		return 0, total
	}

	start := max(m.currentIndex-maxVisible/2, 0)
	end := start + maxVisible
	if end > total {
		end = total
		start = max(end-maxVisible, 0)
	}
	return start, end
}

// View renders the list, or the details dialog when it is open
func (m Model) View() string {
	if m.showInfoDialog {
		if mv, ok := m.Selected(); ok {
			return lipgloss.Place(m.width, m.height,
				lipgloss.Center, lipgloss.Center,
				m.renderInfoDialog(mv),
				lipgloss.WithWhitespaceChars(" "),
				lipgloss.WithWhitespaceForeground(styles.OxocarbonBlack))
		}
	}

	var content strings.Builder

	filtered := m.getFilteredIndices()
	count := styles.SubtitleStyle.Render(fmt.Sprintf("  %d loaded", len(m.items)))
	if m.fuzzySearch.IsActive() && m.fuzzySearch.Query() != "" {
		count += styles.MetadataStyle.Render(fmt.Sprintf(" (%d match)", len(filtered)))
	}
	content.WriteString(count + "\n")

	if m.fuzzySearch.IsActive() {
		content.WriteString("\n  " + m.fuzzySearch.View() + "\n")
	}
	content.WriteString("\n")

	start, end := m.getVisibleRange(len(filtered))
	for i := start; i < end; i++ {
		content.WriteString(m.renderMovieItem(m.items[filtered[i]], m.focused && i == m.currentIndex) + "\n\n")
	}

	return strings.TrimRight(content.String(), "\n")
}

func (m Model) contentWidth() int {
	return min(max(m.width-8, 30), 100)
}

func (m Model) renderMovieItem(mv catalog.Movie, selected bool) string {
	boxStyle := styles.ItemStyle
	titleStyle := styles.ItemTitleStyle
	metaStyle := styles.MetadataStyle
	if selected {
		boxStyle = styles.ItemSelectedStyle
		titleStyle = titleStyle.Foreground(styles.OxocarbonPurple)
		metaStyle = metaStyle.Foreground(styles.OxocarbonMauve)
	}

	width := m.contentWidth()
	lines := []string{titleStyle.Render(utils.TruncateWithWidth(mv.Title, width))}

	badge := rating.For(mv.VoteAverage)
	meta := []string{
		styles.BadgeStyle(badge).Render(fmt.Sprintf("%d%%", badge.Percent)) + " " + renderMeter(badge),
		metaStyle.Render(utils.FormatReleaseDate(mv.ReleaseDate, "Unknown date")),
	}
	if mv.VoteCount > 0 {
		meta = append(meta, metaStyle.Render(humanize.Comma(int64(mv.VoteCount))+" votes"))
	}
	lines = append(lines, strings.Join(meta, metaStyle.Render(" • ")))

	overview := mv.Overview
	if overview == "" {
		overview = "No overview available."
	}
	overviewLines := strings.Split(utils.TruncateToLines(overview, 2, width), "\n")
	for len(overviewLines) < 2 {
		overviewLines = append(overviewLines, " ")
	}
	lines = append(lines, styles.SynopsisStyle.Render(strings.Join(overviewLines, "\n")))

	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderMeter draws the badge ring as a horizontal bar
func renderMeter(b rating.Badge) string {
	filledStyle, trackStyle := styles.BarStyle(b)
	filled := (b.Percent*meterCells + 50) / 100
	return filledStyle.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", meterCells-filled))
}

func (m Model) dialogWidth() int {
	if m.width > 0 && m.width < 90 {
		return max(m.width-4, 40)
	}
	return 80
}

// dialogOverviewLines is how many overview lines the details dialog shows at once
func (m Model) dialogOverviewLines() int {
	if m.height > 0 {
		return min(max(m.height-20, 4), 20)
	}
	return 10
}

// dialogMaxScroll is the furthest the dialog overview can scroll for mv
func (m Model) dialogMaxScroll(mv catalog.Movie) int {
	if mv.Overview == "" {
		return 0
	}
	wrapped := utils.WrapText(mv.Overview, m.dialogWidth()-6)
	return max(len(wrapped)-m.dialogOverviewLines(), 0)
}

func (m Model) renderInfoDialog(mv catalog.Movie) string {
	dialogWidth := m.dialogWidth()
	contentWidth := dialogWidth - 6
	maxOverviewLines := m.dialogOverviewLines()

	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Movie Details") + "\n\n")
	b.WriteString(styles.ItemTitleStyle.Render(mv.Title) + "\n\n")

	badge := rating.For(mv.VoteAverage)
	b.WriteString(styles.MetadataStyle.Render("User score: ") +
		styles.BadgeStyle(badge).Render(fmt.Sprintf("%d%%", badge.Percent)) + " " + renderMeter(badge) + "\n")
	b.WriteString(styles.MetadataStyle.Render(fmt.Sprintf("Votes: %s (%.1f/10)", humanize.Comma(int64(mv.VoteCount)), mv.VoteAverage)) + "\n")
	b.WriteString(styles.MetadataStyle.Render("Released: "+utils.FormatReleaseDate(mv.ReleaseDate, "Unknown")) + "\n")
	if mv.PosterPath != "" {
		b.WriteString(styles.MetadataStyle.Render("Poster: ") + styles.URLStyle.Render(utils.TruncateWithWidth(mv.PosterPath, contentWidth-8)) + "\n")
	}
	b.WriteString("\n")

	if mv.Overview != "" {
		wrapped := utils.WrapText(mv.Overview, contentWidth)
		maxScroll := m.dialogMaxScroll(mv)
		offset := min(m.dialogScroll, maxScroll)

		if offset > 0 {
			b.WriteString(styles.MetadataStyle.Render("  ▲ scroll up") + "\n")
		} else {
			b.WriteString("\n")
		}
		end := min(offset+maxOverviewLines, len(wrapped))
		for _, line := range wrapped[offset:end] {
			b.WriteString(styles.SynopsisStyle.Render(line) + "\n")
		}
		if offset < maxScroll {
			b.WriteString(styles.MetadataStyle.Render("  ▼ scroll down") + "\n")
		} else {
			b.WriteString("\n")
		}
	}

	b.WriteString(styles.HelpStyle.Render("↑/↓ scroll • y copy poster • o open • esc close"))

	return styles.PopupStyle.Width(dialogWidth).Render(b.String())
}
