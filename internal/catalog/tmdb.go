package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/justchokingaround/reel/internal/config"
	"github.com/justchokingaround/reel/internal/genre"
	providerhttp "github.com/justchokingaround/reel/internal/providers/http"
)

// TMDB is a Client backed by the TMDB v3 REST API
type TMDB struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	httpClient   *providerhttp.Client
	logger       *slog.Logger
}

// NewTMDB creates a TMDB client. When an access token is configured it is
// sent as a bearer token and the api_key parameter is omitted.
func NewTMDB(cfg config.TMDBConfig, debug bool, logger *slog.Logger) *TMDB {
	if logger == nil {
		logger = slog.Default()
	}

	httpCfg := providerhttp.DefaultClientConfig()
	httpCfg.Timeout = cfg.Timeout
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.Debug = debug
	httpCfg.Logger = logger

	apiKey := cfg.APIKey
	if cfg.AccessToken != "" {
		httpCfg.HTTPClient = bearerClient(cfg.AccessToken)
		apiKey = ""
	}

	return &TMDB{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:       apiKey,
		language:     cfg.Language,
		httpClient:   providerhttp.NewClient(httpCfg),
		logger:       logger,
	}
}

func bearerClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(context.Background(), src)
}

// FetchPopular returns a page of /movie/popular
func (t *TMDB) FetchPopular(ctx context.Context, page int) ([]Movie, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	movies, err := t.list(ctx, "/movie/popular", t.params(page))
	if err != nil {
		return nil, fmt.Errorf("fetch popular page %d: %w", page, err)
	}
	return movies, nil
}

// FetchByGenres returns a page of /discover/movie filtered to movies having all selected genres
func (t *TMDB) FetchByGenres(ctx context.Context, genres genre.Selection, page int) ([]Movie, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if genres.Empty() {
		return nil, ErrNoGenres
	}

	params := t.params(page)
	params["with_genres"] = genres.String()
	params["sort_by"] = "popularity.desc"

	movies, err := t.list(ctx, "/discover/movie", params)
	if err != nil {
		return nil, fmt.Errorf("fetch genres %s page %d: %w", genres, page, err)
	}
	return movies, nil
}

func (t *TMDB) params(page int) map[string]string {
	params := map[string]string{
		"page": strconv.Itoa(page),
	}
	if t.apiKey != "" {
		params["api_key"] = t.apiKey
	}
	if t.language != "" {
		params["language"] = t.language
	}
	return params
}

// listResponse is the paged envelope shared by TMDB list endpoints
type listResponse struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []movieResult `json:"results"`
}

type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids"`
}

func (t *TMDB) list(ctx context.Context, endpoint string, params map[string]string) ([]Movie, error) {
	resp, err := t.httpClient.Get(ctx, t.baseURL+endpoint, params, nil)
	if err != nil {
		var statusErr *providerhttp.StatusError
		if errors.As(err, &statusErr) {
			return nil, &HTTPError{Status: statusErr.Status}
		}
		return nil, err
	}

	var body listResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	t.logger.Debug("catalog page fetched",
		"endpoint", endpoint,
		"page", body.Page,
		"total_pages", body.TotalPages,
		"results", len(body.Results),
	)

	movies := make([]Movie, 0, len(body.Results))
	for _, r := range body.Results {
		movies = append(movies, Movie{
			ID:          r.ID,
			Title:       r.Title,
			PosterPath:  t.posterURL(r.PosterPath),
			VoteAverage: r.VoteAverage,
			VoteCount:   r.VoteCount,
			ReleaseDate: r.ReleaseDate,
			Overview:    r.Overview,
			GenreIDs:    r.GenreIDs,
		})
	}
	return movies, nil
}

func (t *TMDB) posterURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return t.imageBaseURL + "/" + strings.TrimLeft(*path, "/")
}
