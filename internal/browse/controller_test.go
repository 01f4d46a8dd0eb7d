package browse

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/genre"
)

// movies builds n movies whose ids encode the page, e.g. page 2 -> 201, 202...
func movies(page, n int) []catalog.Movie {
	out := make([]catalog.Movie, n)
	for i := range out {
		id := page*100 + i + 1
		out[i] = catalog.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), VoteAverage: 7.5}
	}
	return out
}

func ok(req *Request, items []catalog.Movie) Response {
	return Response{Seq: req.Seq, Query: req.Query, Page: req.Page, Items: items}
}

func fail(req *Request, err error) Response {
	return Response{Seq: req.Seq, Query: req.Query, Page: req.Page, Err: err}
}

// loaded returns a controller on the popular feed with pages 1..n loaded
func loaded(t *testing.T, n, perPage int) *Controller {
	t.Helper()
	c := NewController()
	req := c.Start()
	require.True(t, c.Resolve(ok(req, movies(1, perPage))))
	for p := 2; p <= n; p++ {
		req = c.LoadMore()
		require.NotNil(t, req)
		require.Equal(t, p, req.Page)
		require.True(t, c.Resolve(ok(req, movies(p, perPage))))
	}
	return c
}

var viewOpts = []cmp.Option{cmpopts.EquateErrors(), cmpopts.EquateEmpty()}

func TestController_Start(t *testing.T) {
	c := NewController()
	assert.Equal(t, StateIdle, c.View().State)

	req := c.Start()
	require.NotNil(t, req)
	assert.Equal(t, Request{Seq: 1, Query: Query{Source: SourcePopular}, Page: 1}, *req)

	v := c.View()
	assert.True(t, v.Loading)
	assert.False(t, v.Empty)
	assert.Equal(t, 1, v.CurrentPage)

	t.Run("restored selection starts on discover", func(t *testing.T) {
		c := NewController(WithSelection(genre.NewSelection(28, 35)))
		req := c.Start()
		assert.Equal(t, SourceGenres, req.Query.Source)
		assert.Equal(t, "28,35", req.Query.Genres.String())
		assert.Equal(t, SourceGenres, c.View().Source)
	})
}

func TestController_AccumulatesPagesInOrder(t *testing.T) {
	const first, rest, k = 20, 15, 4

	c := NewController()
	req := c.Start()
	require.True(t, c.Resolve(ok(req, movies(1, first))))
	for p := 2; p <= k; p++ {
		req = c.LoadMore()
		require.True(t, c.Resolve(ok(req, movies(p, rest))))
	}

	v := c.View()
	require.Len(t, v.Items, first+(k-1)*rest)
	assert.Equal(t, StateLoadedHasMore, v.State)
	assert.Equal(t, k, v.CurrentPage)

	var want []catalog.Movie
	want = append(want, movies(1, first)...)
	for p := 2; p <= k; p++ {
		want = append(want, movies(p, rest)...)
	}
	if diff := cmp.Diff(want, v.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestController_EmptySelectionIsNoop(t *testing.T) {
	c := loaded(t, 2, 3)
	before := c.View()
	seq := c.seq

	assert.Nil(t, c.SetGenreSelection(genre.Selection{}))
	assert.Nil(t, c.SetGenreSelection(genre.NewSelection()))

	if diff := cmp.Diff(before, c.View(), viewOpts...); diff != "" {
		t.Errorf("view changed (-before +after):\n%s", diff)
	}
	assert.Equal(t, seq, c.seq)
}

func TestController_EqualSelectionRefreshesCurrentPage(t *testing.T) {
	sel := genre.NewSelection(28)
	c := NewController()
	req := c.SetGenreSelection(sel)
	require.True(t, c.Resolve(ok(req, movies(1, 2))))
	for p := 2; p <= 3; p++ {
		req = c.LoadMore()
		require.True(t, c.Resolve(ok(req, movies(p, 2))))
	}

	req = c.SetGenreSelection(genre.NewSelection(28))
	require.NotNil(t, req)
	assert.Equal(t, 3, req.Page)
	assert.True(t, req.Refresh)
	assert.Equal(t, 3, c.View().CurrentPage)
	assert.Len(t, c.View().Items, 6, "refresh must not reset")

	fresh := []catalog.Movie{{ID: 999, Title: "Fresh"}}
	require.True(t, c.Resolve(ok(req, fresh)))

	pages := c.pages
	require.Len(t, pages, 3)
	assert.Equal(t, movies(1, 2), pages[0].Items)
	assert.Equal(t, movies(2, 2), pages[1].Items)
	assert.Equal(t, fresh, pages[2].Items)
	assert.Equal(t, 3, c.View().CurrentPage)
}

func TestController_DifferentSelectionResets(t *testing.T) {
	c := loaded(t, 3, 4)

	req := c.SetGenreSelection(genre.NewSelection(35))
	require.NotNil(t, req)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, Query{Source: SourceGenres, Genres: genre.NewSelection(35)}, req.Query)

	// before the response arrives
	v := c.View()
	assert.Equal(t, 1, v.CurrentPage)
	assert.Empty(t, v.Items)
	assert.Empty(t, c.pages)
	assert.False(t, v.LastPage)
	assert.True(t, v.Loading)
	assert.False(t, v.Empty)

	require.True(t, c.Resolve(ok(req, movies(1, 2))))
	assert.Equal(t, movies(1, 2), c.View().Items)

	t.Run("changing to another non-empty selection also resets", func(t *testing.T) {
		req := c.SetGenreSelection(genre.NewSelection(35, 18))
		assert.Equal(t, 1, req.Page)
		assert.Empty(t, c.View().Items)
	})
}

func TestController_ClearGenreSelection(t *testing.T) {
	t.Run("from genres resets to popular", func(t *testing.T) {
		c := NewController(WithSelection(genre.NewSelection(27)))
		req := c.Start()
		require.True(t, c.Resolve(ok(req, movies(1, 3))))

		req = c.ClearGenreSelection()
		require.NotNil(t, req)
		assert.Equal(t, Query{Source: SourcePopular}, req.Query)
		assert.Equal(t, 1, req.Page)
		assert.False(t, req.Refresh)
		assert.Empty(t, c.View().Items)
		assert.True(t, c.View().Selection.Empty())
	})

	t.Run("already popular refreshes the current page", func(t *testing.T) {
		c := loaded(t, 2, 3)

		req := c.ClearGenreSelection()
		require.NotNil(t, req)
		assert.Equal(t, 2, req.Page)
		assert.True(t, req.Refresh)
		assert.Len(t, c.View().Items, 6)
	})
}

func TestController_RequestNextPageGuards(t *testing.T) {
	t.Run("noop on page 1", func(t *testing.T) {
		c := loaded(t, 1, 5)
		assert.Nil(t, c.RequestNextPage())
		assert.Equal(t, 1, c.View().CurrentPage)
	})

	t.Run("noop while loading", func(t *testing.T) {
		c := loaded(t, 2, 5)
		req := c.RequestNextPage()
		require.NotNil(t, req)
		assert.Equal(t, 3, req.Page)

		assert.Nil(t, c.RequestNextPage())
		assert.Nil(t, c.LoadMore())
		assert.Equal(t, 3, c.View().CurrentPage)
	})

	t.Run("noop after last page", func(t *testing.T) {
		c := loaded(t, 2, 5)
		req := c.RequestNextPage()
		require.True(t, c.Resolve(ok(req, nil)))
		require.True(t, c.View().LastPage)

		assert.Nil(t, c.RequestNextPage())
		assert.Nil(t, c.LoadMore())
	})

	t.Run("advances past page 2", func(t *testing.T) {
		c := loaded(t, 2, 5)
		req := c.RequestNextPage()
		require.NotNil(t, req)
		assert.Equal(t, 3, req.Page)
		assert.False(t, req.Refresh)
	})
}

func TestController_ZeroItemsMarksLastPage(t *testing.T) {
	c := loaded(t, 2, 4)
	before := c.View().Items

	req := c.RequestNextPage()
	require.True(t, c.Resolve(ok(req, []catalog.Movie{})))

	v := c.View()
	assert.True(t, v.LastPage)
	assert.Equal(t, StateLoadedEnd, v.State)
	assert.False(t, v.Empty)
	if diff := cmp.Diff(before, v.Items); diff != "" {
		t.Errorf("items changed (-before +after):\n%s", diff)
	}
	assert.Len(t, c.pages, 2)
}

func TestController_EmptyFirstPage(t *testing.T) {
	c := NewController()
	req := c.SetGenreSelection(genre.NewSelection(99, 10752))
	require.True(t, c.Resolve(ok(req, nil)))

	v := c.View()
	assert.True(t, v.Empty)
	assert.True(t, v.LastPage)
	assert.Empty(t, v.Items)
	assert.NoError(t, v.Err)
}

func TestController_StaleResponsesAreDiscarded(t *testing.T) {
	c := NewController()
	popular := c.Start()
	filtered := c.SetGenreSelection(genre.NewSelection(28))
	require.NotEqual(t, popular.Seq, filtered.Seq)

	before := c.View()

	assert.False(t, c.Resolve(ok(popular, movies(1, 5))))
	assert.False(t, c.Resolve(fail(popular, errors.New("late failure"))))
	if diff := cmp.Diff(before, c.View(), viewOpts...); diff != "" {
		t.Errorf("stale response mutated state (-before +after):\n%s", diff)
	}

	require.True(t, c.Resolve(ok(filtered, movies(1, 2))))
	assert.Equal(t, movies(1, 2), c.View().Items)

	t.Run("duplicate delivery is ignored", func(t *testing.T) {
		assert.False(t, c.Resolve(ok(filtered, movies(1, 9))))
		assert.Len(t, c.View().Items, 2)
	})

	t.Run("response with no request in flight is ignored", func(t *testing.T) {
		assert.Nil(t, c.inflight)
		assert.False(t, c.Resolve(Response{Seq: 42, Page: 1, Items: movies(1, 1)}))
	})
}

func TestController_FailureAndRecovery(t *testing.T) {
	boom := &catalog.HTTPError{Status: 500}

	t.Run("failure keeps pages and current page", func(t *testing.T) {
		c := loaded(t, 2, 3)
		req := c.RequestNextPage()
		require.True(t, c.Resolve(fail(req, boom)))

		v := c.View()
		assert.Equal(t, StateFailed, v.State)
		assert.ErrorIs(t, v.Err, boom)
		assert.False(t, v.Loading)
		assert.Equal(t, 3, v.CurrentPage)
		assert.Len(t, v.Items, 6)
		assert.Len(t, c.pages, 2)
	})

	t.Run("next page after failure re-fetches the missing page", func(t *testing.T) {
		c := loaded(t, 2, 3)
		req := c.RequestNextPage()
		require.True(t, c.Resolve(fail(req, boom)))

		again := c.RequestNextPage()
		require.NotNil(t, again)
		assert.Equal(t, 3, again.Page)
		assert.Equal(t, 3, c.View().CurrentPage)
		assert.Nil(t, c.View().Err)

		require.True(t, c.Resolve(ok(again, movies(3, 3))))
		assert.Len(t, c.View().Items, 9)

		next := c.RequestNextPage()
		assert.Equal(t, 4, next.Page)
	})

	t.Run("retry re-issues the failed request", func(t *testing.T) {
		c := NewController()
		assert.Nil(t, c.Retry())

		req := c.Start()
		require.True(t, c.Resolve(fail(req, boom)))

		retry := c.Retry()
		require.NotNil(t, retry)
		assert.Equal(t, 1, retry.Page)
		assert.Equal(t, Query{Source: SourcePopular}, retry.Query)
		assert.True(t, retry.Refresh)
		assert.Equal(t, StateLoading, c.View().State)

		assert.Nil(t, c.Retry(), "retry is only valid in the failed state")

		require.True(t, c.Resolve(ok(retry, movies(1, 2))))
		assert.Equal(t, StateLoadedHasMore, c.View().State)
		assert.NoError(t, c.View().Err)
	})

	t.Run("load more on a failed first page re-fetches it", func(t *testing.T) {
		c := NewController()
		req := c.Start()
		require.True(t, c.Resolve(fail(req, boom)))

		assert.Nil(t, c.RequestNextPage())
		again := c.LoadMore()
		require.NotNil(t, again)
		assert.Equal(t, 1, again.Page)
	})
}

func TestController_SelectionChangeFromLastPage(t *testing.T) {
	c := loaded(t, 2, 3)
	req := c.RequestNextPage()
	require.True(t, c.Resolve(ok(req, nil)))
	require.Equal(t, StateLoadedEnd, c.View().State)

	req = c.SetGenreSelection(genre.NewSelection(16))
	require.NotNil(t, req)
	v := c.View()
	assert.Equal(t, StateLoading, v.State)
	assert.False(t, v.LastPage)
	assert.Equal(t, 1, v.CurrentPage)
}

func TestQueryFor(t *testing.T) {
	assert.Equal(t, Query{Source: SourcePopular}, QueryFor(genre.Selection{}))
	q := QueryFor(genre.NewSelection(12))
	assert.Equal(t, SourceGenres, q.Source)
	assert.Equal(t, "genres:12", q.String())
	assert.Equal(t, "popular", QueryFor(genre.Selection{}).String())
}

type stubClient struct {
	popularPages []int
	genrePages   []string
}

func (s *stubClient) FetchPopular(ctx context.Context, page int) ([]catalog.Movie, error) {
	s.popularPages = append(s.popularPages, page)
	return movies(page, 1), nil
}

func (s *stubClient) FetchByGenres(ctx context.Context, sel genre.Selection, page int) ([]catalog.Movie, error) {
	s.genrePages = append(s.genrePages, fmt.Sprintf("%s@%d", sel, page))
	return nil, errors.New("unavailable")
}

func TestFetch(t *testing.T) {
	client := &stubClient{}
	resp := Fetch(context.Background(), client, Request{Seq: 7, Query: Query{Source: SourcePopular}, Page: 2})
	assert.Equal(t, uint64(7), resp.Seq)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, movies(2, 1), resp.Items)
	assert.NoError(t, resp.Err)

	resp = Fetch(context.Background(), client, Request{Seq: 8, Query: QueryFor(genre.NewSelection(35, 28)), Page: 1})
	assert.Equal(t, uint64(8), resp.Seq)
	assert.Error(t, resp.Err)
	assert.Equal(t, []string{"28,35@1"}, client.genrePages)
	assert.Equal(t, []int{2}, client.popularPages)
}

func TestFetch_RefreshBypassesCache(t *testing.T) {
	inner := &stubClient{}
	cached := catalog.Cached(inner, time.Hour)

	c := NewController()
	req := c.Start()
	require.True(t, c.Resolve(Fetch(context.Background(), cached, *req)))
	_ = Fetch(context.Background(), cached, Request{Seq: 99, Page: 1})
	assert.Equal(t, []int{1}, inner.popularPages, "second fetch served from cache")

	refresh := c.ClearGenreSelection()
	require.True(t, refresh.Refresh)
	require.True(t, c.Resolve(Fetch(context.Background(), cached, *refresh)))
	assert.Equal(t, []int{1, 1}, inner.popularPages)
}
