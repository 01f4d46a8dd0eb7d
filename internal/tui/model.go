package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/reel/internal/browse"
	"github.com/justchokingaround/reel/internal/genre"
	"github.com/justchokingaround/reel/internal/tui/common"
	"github.com/justchokingaround/reel/internal/tui/components/filter"
	"github.com/justchokingaround/reel/internal/tui/components/help"
	"github.com/justchokingaround/reel/internal/tui/components/movies"
	"github.com/justchokingaround/reel/internal/tui/styles"
	"github.com/justchokingaround/reel/internal/tui/utils"
)

type focusArea int

const (
	focusList focusArea = iota
	focusFilter
)

const (
	headerHeight  = 2
	footerHeight  = 2
	statusTimeout = 2500 * time.Millisecond
)

// App is the root bubbletea model. It owns the result set controller and
// performs the page fetches it asks for.
type App struct {
	opts       Options
	logger     *slog.Logger
	controller *browse.Controller

	movies  movies.Model
	filter  filter.Model
	help    help.Model
	spinner spinner.Model

	width        int
	height       int
	focus        focusArea
	filterHidden bool
	shownQuery   browse.Query

	statusMsg   string
	statusError bool

	cancel context.CancelFunc
}

// NewApp builds the root model without starting any fetch
func NewApp(opts Options) (*App, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	a := &App{
		opts:   opts,
		logger: opts.Logger,
		controller: browse.NewController(
			browse.WithSelection(opts.Initial),
			browse.WithLogger(opts.Logger),
		),
		movies:  movies.New(opts.Config.UI.ScrollThreshold),
		filter:  filter.New(opts.Genres),
		help:    help.New(),
		spinner: s,
	}
	a.filter.SetApplied(opts.Initial)
	a.setFocus(focusList)

	return a, nil
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.fetch(a.controller.Start()))
}

// fetch runs req in the background. Any request still running is cancelled
// since the controller would discard its response anyway.
func (a *App) fetch(req *browse.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	a.cancelInFlight()

	ctx, cancel := context.WithTimeout(context.Background(), a.opts.Config.TMDB.Timeout)
	a.cancel = cancel

	client := a.opts.Catalog
	r := *req
	a.logger.Debug("fetching page", "seq", r.Seq, "query", r.Query, "page", r.Page, "refresh", r.Refresh)

	return func() tea.Msg {
		defer cancel()
		return common.PageLoadedMsg{Response: browse.Fetch(ctx, client, r)}
	}
}

func (a *App) cancelInFlight() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// syncItems pushes the controller's items into the list. The cursor goes
// back to the top only when the query changed.
func (a *App) syncItems() {
	q := a.controller.Query()
	reset := !q.Equal(a.shownQuery)
	a.shownQuery = q
	a.movies.SetItems(a.controller.View().Items, reset)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case common.PageLoadedMsg:
		if !a.controller.Resolve(msg.Response) {
			return a, nil
		}
		a.syncItems()
		return a, nil

	case common.NearEndMsg:
		return a, a.fetch(a.controller.RequestNextPage())

	case common.ApplyGenresMsg:
		return a, a.applySelection(msg.Selection)

	case common.ClearGenresMsg:
		return a, a.applySelection(genre.Selection{})

	case common.MovieViewedMsg:
		a.recordView(msg)
		return a, nil

	case common.CopyPosterMsg:
		return a, a.copyPoster(msg.Movie)

	case common.OpenMovieMsg:
		return a, a.openMovie(msg.Movie)

	case common.StatusMsg:
		a.statusMsg = msg.Text
		a.statusError = msg.Error
		return a, tea.Tick(statusTimeout, func(time.Time) tea.Msg { return common.ClearStatusMsg{} })

	case common.ClearStatusMsg:
		a.statusMsg = ""
		a.statusError = false
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.help.IsVisible() {
		switch msg.String() {
		case "?", "esc", "q":
			a.help.Hide()
			return a, nil
		}
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	// the filter input and the details dialog take every key
	if a.focus == focusList && (a.movies.Typing() || a.movies.DialogOpen()) {
		return a.updateMovies(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.updateHelpContext()
		a.help.Show()
		return a, nil
	case "tab", "shift+tab":
		if a.filterHidden {
			return a, nil
		}
		if a.focus == focusList {
			a.setFocus(focusFilter)
		} else {
			a.setFocus(focusList)
		}
		return a, nil
	case "f":
		a.filterHidden = !a.filterHidden
		if a.filterHidden {
			a.setFocus(focusList)
		}
		a.layout()
		return a, nil
	case "r":
		return a, a.refresh()
	case "L":
		return a, a.fetch(a.controller.LoadMore())
	}

	if a.focus == focusFilter {
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		return a, cmd
	}
	return a.updateMovies(msg)
}

func (a *App) updateMovies(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.movies, cmd = a.movies.Update(msg)
	return a, cmd
}

// refresh retries a failed page, or re-fetches the current one
func (a *App) refresh() tea.Cmd {
	if req := a.controller.Retry(); req != nil {
		return a.fetch(req)
	}
	if a.controller.View().Loading {
		return nil
	}
	sel := a.controller.Query().Genres
	if sel.Empty() {
		return a.fetch(a.controller.ClearGenreSelection())
	}
	return a.fetch(a.controller.SetGenreSelection(sel))
}

// applySelection switches the result set to sel, or to the popular feed
// when sel is empty
func (a *App) applySelection(sel genre.Selection) tea.Cmd {
	var req *browse.Request
	if sel.Empty() {
		req = a.controller.ClearGenreSelection()
	} else {
		req = a.controller.SetGenreSelection(sel)
	}
	a.filter.SetApplied(sel)
	a.rememberSelection(sel)
	a.syncItems()
	return a.fetch(req)
}

func (a *App) setFocus(f focusArea) {
	a.focus = f
	a.movies.SetFocused(f == focusList)
	a.filter.SetFocused(f == focusFilter)
}

func (a *App) updateHelpContext() {
	switch {
	case a.movies.DialogOpen():
		a.help.SetContext(help.DetailsContext)
	case a.focus == focusFilter:
		a.help.SetContext(help.FilterContext)
	default:
		a.help.SetContext(help.ListContext)
	}
}

func (a *App) layout() {
	bodyHeight := max(a.height-headerHeight-footerHeight, 1)
	listWidth := a.width
	if !a.filterHidden {
		listWidth = max(a.width-filter.Width-1, 20)
	}
	a.movies.SetSize(listWidth, bodyHeight)
	a.filter.SetHeight(bodyHeight)
	a.help.SetSize(a.width, a.height)
}

func (a *App) View() string {
	if a.help.IsVisible() {
		return a.help.View()
	}

	v := a.controller.View()
	body := a.renderBody(v)
	if !a.filterHidden {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.filter.View(), " ", body)
	}

	header := a.renderHeader(v)
	footer := a.renderFooter(v)

	if a.height > 0 {
		used := lipgloss.Height(header) + lipgloss.Height(body) + lipgloss.Height(footer)
		if gap := a.height - used; gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}
	return header + "\n" + body + "\n" + footer
}

func (a *App) renderHeader(v browse.View) string {
	title := styles.TitleStyle.Render("  reel  ")

	label := "POPULAR"
	color := styles.OxocarbonBlue
	if v.Source == browse.SourceGenres {
		label = strings.ToUpper(strings.Join(a.opts.Genres.Names(v.Selection), " + "))
		color = styles.OxocarbonPink
	}
	if a.width > 0 {
		label = utils.TruncateWithWidth(label, max(a.width-30, 10))
	}
	source := lipgloss.NewStyle().
		Foreground(styles.OxocarbonBase00).
		Background(color).
		Padding(0, 1).
		Bold(true).
		Render(label)

	page := lipgloss.NewStyle().
		Foreground(styles.OxocarbonBase05).
		Background(styles.OxocarbonBase02).
		Padding(0, 1).
		Render(fmt.Sprintf("page %d", v.CurrentPage))

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", source, " ", page) + "\n"
}

func (a *App) renderBody(v browse.View) string {
	switch {
	case len(v.Items) == 0 && v.Loading:
		return "\n  " + a.spinner.View() + styles.SubtitleStyle.Render(" Loading movies...")
	case len(v.Items) == 0 && v.Err != nil:
		return "\n" + styles.SubtitleStyle.Render("  Could not load movies.")
	case v.Empty:
		return "\n" + styles.SubtitleStyle.Render("  No movies found") + "\n\n" +
			styles.HelpStyle.Render("  Try a different combination of genres.")
	}
	return a.movies.View()
}

func (a *App) renderFooter(v browse.View) string {
	var status string
	switch {
	case v.Err != nil:
		status = styles.ErrorStyle.Render(utils.TruncateWithWidth("Error: "+v.Err.Error(), max(a.width-20, 20))) +
			styles.HelpStyle.Render(" r retry")
	case v.Loading && len(v.Items) > 0:
		status = a.spinner.View() + styles.MetadataStyle.Render("Loading...")
	case a.statusMsg != "" && a.statusError:
		status = styles.ErrorStyle.Render(a.statusMsg)
	case a.statusMsg != "":
		status = styles.FooterStyle.Render(a.statusMsg)
	case v.LastPage && len(v.Items) > 0:
		status = styles.MetadataStyle.Render("End of results")
	case v.CurrentPage == 1 && v.State == browse.StateLoadedHasMore:
		status = styles.HelpStyle.Render("L load more")
	}

	keys := "↑/↓ nav • i details • / filter • tab genres • f sidebar • r refresh • ? help • q quit"
	if a.focus == focusFilter {
		keys = "↑/↓ nav • space toggle • enter search • c clear • tab list • ? help • q quit"
	}
	if a.movies.Typing() {
		keys = "type to filter • ↑/↓ nav • esc lock"
	}

	return status + "\n" + styles.HelpStyle.Render("  "+keys)
}
