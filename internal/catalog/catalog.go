// Package catalog fetches movie listings from TMDB.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/justchokingaround/reel/internal/genre"
)

// Movie is a single result row of a catalog listing
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"` // absolute URL, empty when the movie has no poster
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	ReleaseDate string  `json:"release_date"` // YYYY-MM-DD, may be empty
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
}

// Client fetches one page of movies at a time. An empty slice with a nil
// error means the listing has no more pages.
type Client interface {
	FetchPopular(ctx context.Context, page int) ([]Movie, error)
	FetchByGenres(ctx context.Context, genres genre.Selection, page int) ([]Movie, error)
}

var (
	// ErrInvalidPage is returned for page numbers below 1
	ErrInvalidPage = errors.New("page must be at least 1")
	// ErrNoGenres is returned when FetchByGenres is called with an empty selection
	ErrNoGenres = errors.New("at least one genre is required")
)

// HTTPError reports a non-success response from the catalog
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

func validatePage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	return nil
}
