// Package browse holds the paged result-set controller behind the movie list.
//
// The controller is a synchronous state machine. Commands return the Request
// the caller should execute (or nil when there is nothing to do) and the
// caller hands the outcome back through Resolve. Every request carries a
// sequence number and only the response to the newest request is applied, so
// a slow response for a superseded query can never overwrite current results.
package browse

import (
	"log/slog"
	"slices"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/genre"
)

// Source identifies which catalog listing a query reads from
type Source int

const (
	SourcePopular Source = iota
	SourceGenres
)

func (s Source) String() string {
	if s == SourceGenres {
		return "genres"
	}
	return "popular"
}

// Query is the active data source. Genres is non-empty exactly when Source is SourceGenres.
type Query struct {
	Source Source
	Genres genre.Selection
}

// QueryFor returns the discover query for a non-empty selection and the popular query otherwise
func QueryFor(sel genre.Selection) Query {
	if sel.Empty() {
		return Query{Source: SourcePopular}
	}
	return Query{Source: SourceGenres, Genres: sel}
}

// Equal reports whether both queries read the same listing
func (q Query) Equal(other Query) bool {
	return q.Source == other.Source && q.Genres.Equal(other.Genres)
}

func (q Query) String() string {
	if q.Source == SourceGenres {
		return "genres:" + q.Genres.String()
	}
	return "popular"
}

// State is the controller's lifecycle state
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoadedHasMore
	StateLoadedEnd
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoadedHasMore:
		return "loaded"
	case StateLoadedEnd:
		return "end"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Page is the result of one successful fetch
type Page struct {
	Number int
	Items  []catalog.Movie
}

// Request describes a single page fetch the caller must perform
type Request struct {
	Seq     uint64
	Query   Query
	Page    int
	Refresh bool // re-fetch of a page already requested, bypasses response caches
}

// Response is the outcome of executing a Request
type Response struct {
	Seq   uint64
	Query Query
	Page  int
	Items []catalog.Movie
	Err   error
}

// View is a read-only snapshot for rendering
type View struct {
	Items       []catalog.Movie
	Loading     bool
	LastPage    bool
	Empty       bool
	State       State
	Err         error
	CurrentPage int
	Selection   genre.Selection
	Source      Source
}

// Controller tracks pagination for the active query. It is not safe for
// concurrent use and performs no I/O.
type Controller struct {
	query       Query
	currentPage int
	pages       []Page // ascending by Number, unique
	lastPage    bool
	state       State
	err         error

	seq      uint64
	inflight *Request
	failed   *Request

	logger *slog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithSelection starts the controller on a genre selection instead of the popular feed
func WithSelection(sel genre.Selection) Option {
	return func(c *Controller) {
		c.query = QueryFor(sel)
	}
}

// WithLogger sets the logger used for state transitions
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates an idle controller on page 1
func NewController(opts ...Option) *Controller {
	c := &Controller{
		query:       Query{Source: SourcePopular},
		currentPage: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start schedules the first page of the initial query
func (c *Controller) Start() *Request {
	c.reset(c.query)
	return c.schedule(1, false)
}

// SetGenreSelection applies a genre filter. An empty selection is ignored,
// a different one resets to page 1 and an identical one refreshes the current page.
func (c *Controller) SetGenreSelection(sel genre.Selection) *Request {
	if sel.Empty() {
		return nil
	}
	return c.apply(QueryFor(sel))
}

// ClearGenreSelection switches back to the popular feed
func (c *Controller) ClearGenreSelection() *Request {
	return c.apply(Query{Source: SourcePopular})
}

func (c *Controller) apply(q Query) *Request {
	if q.Equal(c.query) {
		return c.schedule(c.currentPage, true)
	}
	c.logger.Debug("query changed, resetting", "from", c.query, "to", q)
	c.reset(q)
	return c.schedule(1, false)
}

// RequestNextPage advances to the next page when the list is scrolled to its
// end. It does nothing while loading, after the last page, or on page 1.
func (c *Controller) RequestNextPage() *Request {
	if c.state == StateLoading || c.lastPage || c.currentPage == 1 {
		return nil
	}
	return c.advance()
}

// LoadMore advances like RequestNextPage but is also allowed on page 1
func (c *Controller) LoadMore() *Request {
	if c.state == StateLoading || c.lastPage {
		return nil
	}
	return c.advance()
}

// advance fetches the page after the current one, or the current page again
// when its fetch never succeeded
func (c *Controller) advance() *Request {
	if !c.hasPage(c.currentPage) {
		return c.schedule(c.currentPage, true)
	}
	c.currentPage++
	return c.schedule(c.currentPage, false)
}

// Retry re-issues the request that failed last
func (c *Controller) Retry() *Request {
	if c.state != StateFailed || c.failed == nil {
		return nil
	}
	return c.schedule(c.failed.Page, true)
}

// Resolve applies a response and reports whether it was accepted. Responses
// that do not belong to the in-flight request leave the state untouched.
func (c *Controller) Resolve(resp Response) bool {
	if c.inflight == nil || resp.Seq != c.inflight.Seq {
		c.logger.Debug("discarding stale response", "seq", resp.Seq, "query", resp.Query, "page", resp.Page)
		return false
	}
	req := *c.inflight
	c.inflight = nil

	if resp.Err != nil {
		c.state = StateFailed
		c.err = resp.Err
		c.failed = &req
		c.logger.Warn("page fetch failed", "query", req.Query, "page", req.Page, "error", resp.Err)
		return true
	}

	c.err = nil
	c.failed = nil

	if len(resp.Items) == 0 {
		c.lastPage = true
		c.state = StateLoadedEnd
		c.logger.Debug("reached last page", "query", req.Query, "page", req.Page)
		return true
	}

	page := Page{Number: req.Page, Items: resp.Items}
	if req.Page == 1 {
		c.pages = []Page{page}
	} else {
		c.putPage(page)
	}
	c.lastPage = false
	c.state = StateLoadedHasMore
	return true
}

// View returns the current snapshot
func (c *Controller) View() View {
	items := make([]catalog.Movie, 0, c.itemCount())
	for _, p := range c.pages {
		items = append(items, p.Items...)
	}

	v := View{
		Items:       items,
		Loading:     c.state == StateLoading,
		LastPage:    c.lastPage,
		State:       c.state,
		CurrentPage: c.currentPage,
		Selection:   c.query.Genres,
		Source:      c.query.Source,
	}
	if c.state == StateFailed {
		v.Err = c.err
	}
	v.Empty = len(items) == 0 && (c.state == StateLoadedHasMore || c.state == StateLoadedEnd)
	return v
}

// Query returns the active query
func (c *Controller) Query() Query {
	return c.query
}

func (c *Controller) reset(q Query) {
	c.query = q
	c.currentPage = 1
	c.pages = nil
	c.lastPage = false
	c.err = nil
	c.failed = nil
	c.state = StateIdle
}

// schedule replaces any in-flight request with a fetch of page on the active query
func (c *Controller) schedule(page int, refresh bool) *Request {
	c.seq++
	req := &Request{
		Seq:     c.seq,
		Query:   c.query,
		Page:    page,
		Refresh: refresh,
	}
	c.inflight = req
	c.state = StateLoading
	c.err = nil

	out := *req
	return &out
}

func (c *Controller) hasPage(number int) bool {
	_, found := slices.BinarySearchFunc(c.pages, number, func(p Page, n int) int { return p.Number - n })
	return found
}

func (c *Controller) putPage(page Page) {
	i, found := slices.BinarySearchFunc(c.pages, page.Number, func(p Page, n int) int { return p.Number - n })
	if found {
		c.pages[i] = page
		return
	}
	c.pages = slices.Insert(c.pages, i, page)
}

func (c *Controller) itemCount() int {
	n := 0
	for _, p := range c.pages {
		n += len(p.Items)
	}
	return n
}
