package common

import (
	"github.com/justchokingaround/reel/internal/browse"
	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/genre"
)

// Custom tea.Msg types passed between components and the app model.

// PageLoadedMsg carries the outcome of a page fetch
type PageLoadedMsg struct {
	Response browse.Response
}

// ApplyGenresMsg asks the app to filter by the given selection
type ApplyGenresMsg struct {
	Selection genre.Selection
}

// ClearGenresMsg asks the app to go back to the popular feed
type ClearGenresMsg struct{}

// NearEndMsg is sent when the list cursor gets close to the last loaded item
type NearEndMsg struct{}

// MovieViewedMsg is sent when the details of a movie are opened
type MovieViewedMsg struct {
	Movie catalog.Movie
}

// CopyPosterMsg asks the app to copy a poster URL to the clipboard
type CopyPosterMsg struct {
	Movie catalog.Movie
}

// OpenMovieMsg asks the app to open the movie's page in a browser
type OpenMovieMsg struct {
	Movie catalog.Movie
}

// StatusMsg shows a transient message in the footer
type StatusMsg struct {
	Text  string
	Error bool
}

// ClearStatusMsg removes the footer message
type ClearStatusMsg struct{}
