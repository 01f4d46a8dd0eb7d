package common

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/justchokingaround/reel/internal/tui/styles"
)

// FuzzySearch is an inline filter for list views. While editing it takes all
// keys; once locked the query stays applied and the list gets its keys back.
type FuzzySearch struct {
	input  textinput.Model
	active bool
	locked bool
}

// NewFuzzySearch creates an inactive filter
func NewFuzzySearch() *FuzzySearch {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = ""
	ti.CharLimit = 100
	ti.TextStyle = styles.MetadataStyle
	ti.PlaceholderStyle = styles.HelpStyle

	return &FuzzySearch{input: ti}
}

// Activate starts editing an empty query
func (f *FuzzySearch) Activate() tea.Cmd {
	f.active = true
	f.locked = false
	f.input.SetValue("")
	f.input.Focus()
	return textinput.Blink
}

// Deactivate clears the query and hides the filter
func (f *FuzzySearch) Deactivate() {
	f.active = false
	f.locked = false
	f.input.SetValue("")
	f.input.Blur()
}

// Lock stops editing but keeps the query applied
func (f *FuzzySearch) Lock() {
	if f.active {
		f.locked = true
		f.input.Blur()
	}
}

// Unlock resumes editing
func (f *FuzzySearch) Unlock() tea.Cmd {
	if !f.active {
		return nil
	}
	f.locked = false
	f.input.Focus()
	return textinput.Blink
}

func (f *FuzzySearch) IsActive() bool { return f.active }
func (f *FuzzySearch) IsLocked() bool { return f.locked }

// Editing reports whether key presses go to the query input
func (f *FuzzySearch) Editing() bool { return f.active && !f.locked }

// Query returns the current query
func (f *FuzzySearch) Query() string { return f.input.Value() }

// SetQuery replaces the query, used by tests and restores
func (f *FuzzySearch) SetQuery(q string) {
	f.input.SetValue(q)
}

// Update feeds a message to the query input while editing
func (f *FuzzySearch) Update(msg tea.Msg) tea.Cmd {
	if !f.Editing() {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the filter line, empty when inactive
func (f *FuzzySearch) View() string {
	if !f.active {
		return ""
	}

	label := styles.MetadataStyle.Render("Filter: ")
	bar := styles.ItemTitleStyle.Render("┃")
	if f.locked {
		return label + bar + " " + styles.ItemTitleStyle.Render(f.Query()) +
			styles.HelpStyle.Render(" (/ edit • esc clear)")
	}
	return label + bar + " " + f.input.View() + styles.HelpStyle.Render(" (esc lock)")
}

// SetWidth sizes the input to the available width
func (f *FuzzySearch) SetWidth(width int) {
	f.input.Width = max(width-30, 10)
}

// Filter returns the indices of targets matching the query, best match
// first. Without a query every index is returned in order.
func (f *FuzzySearch) Filter(targets []string) []int {
	if !f.active || f.Query() == "" {
		indices := make([]int, len(targets))
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	matches := fuzzy.Find(f.Query(), targets)
	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	return indices
}
