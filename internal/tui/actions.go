package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/genre"
	"github.com/justchokingaround/reel/internal/tui/common"
)

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return common.StatusMsg{Text: text, Error: isErr} }
}

// recordView adds the movie to the recently viewed list
func (a *App) recordView(msg common.MovieViewedMsg) {
	if a.opts.History == nil {
		return
	}
	if err := a.opts.History.Record(msg.Movie); err != nil {
		a.logger.Warn("failed to record viewed movie", "movie_id", msg.Movie.ID, "error", err)
	}
}

// rememberSelection persists the applied genres for the next launch
func (a *App) rememberSelection(sel genre.Selection) {
	if a.opts.History == nil || !a.opts.Config.UI.RememberGenres {
		return
	}
	if err := a.opts.History.SaveSelection(sel); err != nil {
		a.logger.Warn("failed to save genre selection", "genres", sel.String(), "error", err)
	}
}

// copyPoster copies the poster URL and reports the outcome in the footer
func (a *App) copyPoster(m catalog.Movie) tea.Cmd {
	if m.PosterPath == "" {
		return statusCmd("No poster for "+m.Title, true)
	}
	if a.opts.Clipboard == nil {
		return statusCmd("Clipboard is not available", true)
	}

	copier := a.opts.Clipboard
	logger := a.logger
	return func() tea.Msg {
		if err := copier.Copy(m.PosterPath); err != nil {
			logger.Warn("failed to copy poster url", "movie_id", m.ID, "error", err)
			return common.StatusMsg{Text: "Copy failed: " + err.Error(), Error: true}
		}
		return common.StatusMsg{Text: "📋 Poster URL copied"}
	}
}

// openMovie opens the movie's page in the browser
func (a *App) openMovie(m catalog.Movie) tea.Cmd {
	url := fmt.Sprintf(a.opts.Config.UI.MovieURL, m.ID)
	open := a.opts.OpenURL
	logger := a.logger
	return func() tea.Msg {
		if err := open(url); err != nil {
			logger.Warn("failed to open browser", "url", url, "error", err)
			return common.StatusMsg{Text: "Could not open browser", Error: true}
		}
		return common.StatusMsg{Text: "Opened " + url}
	}
}
