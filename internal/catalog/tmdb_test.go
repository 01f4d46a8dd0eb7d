package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/reel/internal/config"
	"github.com/justchokingaround/reel/internal/genre"
)

const pageJSON = `{
	"page": 1,
	"total_pages": 42,
	"total_results": 840,
	"results": [
		{
			"id": 550,
			"title": "Fight Club",
			"poster_path": "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
			"vote_average": 8.4,
			"vote_count": 27000,
			"release_date": "1999-10-15",
			"overview": "A ticking-time-bomb insomniac...",
			"genre_ids": [18]
		},
		{
			"id": 12,
			"title": "No Poster",
			"poster_path": null,
			"vote_average": 0,
			"release_date": "",
			"overview": ""
		}
	]
}`

func testConfig(baseURL string) config.TMDBConfig {
	return config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		ImageBaseURL: "https://image.tmdb.org/t/p/w500",
		Language:     "en-US",
		Timeout:      5 * time.Second,
	}
}

func TestTMDB_FetchPopular(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "en-US", q.Get("language"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Empty(t, q.Get("with_genres"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageJSON))
	}))
	defer server.Close()

	client := NewTMDB(testConfig(server.URL), false, nil)
	movies, err := client.FetchPopular(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, Movie{
		ID:          550,
		Title:       "Fight Club",
		PosterPath:  "https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
		VoteAverage: 8.4,
		VoteCount:   27000,
		ReleaseDate: "1999-10-15",
		Overview:    "A ticking-time-bomb insomniac...",
		GenreIDs:    []int{18},
	}, movies[0])

	t.Run("null poster becomes empty", func(t *testing.T) {
		assert.Equal(t, "", movies[1].PosterPath)
	})
}

func TestTMDB_FetchByGenres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "28,35", q.Get("with_genres"))
		assert.Equal(t, "popularity.desc", q.Get("sort_by"))
		assert.Equal(t, "2", q.Get("page"))
		_, _ = w.Write([]byte(`{"page":2,"results":[]}`))
	}))
	defer server.Close()

	client := NewTMDB(testConfig(server.URL), false, nil)
	movies, err := client.FetchByGenres(context.Background(), genre.NewSelection(35, 28), 2)

	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestTMDB_Validation(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewTMDB(testConfig(server.URL), false, nil)

	_, err := client.FetchPopular(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = client.FetchByGenres(context.Background(), genre.NewSelection(28), -1)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = client.FetchByGenres(context.Background(), genre.Selection{}, 1)
	assert.ErrorIs(t, err, ErrNoGenres)

	assert.Zero(t, calls)
}

func TestTMDB_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewTMDB(testConfig(server.URL), false, nil)
	_, err := client.FetchPopular(context.Background(), 1)

	require.Error(t, err)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "HTTP error! status: 404", httpErr.Error())
}

func TestTMDB_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer server.Close()

	client := NewTMDB(testConfig(server.URL), false, nil)
	_, err := client.FetchPopular(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestTMDB_AccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer v4-token", r.Header.Get("Authorization"))
		assert.False(t, r.URL.Query().Has("api_key"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.AccessToken = "v4-token"

	_, err := NewTMDB(cfg, false, nil).FetchPopular(context.Background(), 1)
	require.NoError(t, err)
}
