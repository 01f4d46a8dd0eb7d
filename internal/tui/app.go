package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/config"
	"github.com/justchokingaround/reel/internal/genre"
	"github.com/justchokingaround/reel/internal/history"
)

// Copier puts text on the system clipboard
type Copier interface {
	Copy(text string) error
}

// Options are the services the TUI runs against. Catalog, Genres and Config
// are required; History and Clipboard may be nil.
type Options struct {
	Catalog   catalog.Client
	Genres    *genre.Directory
	History   *history.Service
	Clipboard Copier
	Config    *config.Config
	Logger    *slog.Logger

	// Initial is the genre selection to start with, empty for the popular feed
	Initial genre.Selection

	// OpenURL opens a link in the user's browser, browser.OpenURL when nil
	OpenURL func(url string) error
}

// Start runs the TUI until the user quits
func Start(opts Options) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.cancelInFlight()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func (o *Options) validate() error {
	switch {
	case o.Catalog == nil:
		return fmt.Errorf("tui: catalog client is required")
	case o.Genres == nil:
		return fmt.Errorf("tui: genre directory is required")
	case o.Config == nil:
		return fmt.Errorf("tui: config is required")
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.OpenURL == nil {
		o.OpenURL = browser.OpenURL
	}
	return nil
}
