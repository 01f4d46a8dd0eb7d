package browse

import (
	"context"

	"github.com/justchokingaround/reel/internal/catalog"
)

// Fetch executes req against client and packages the outcome for Resolve
func Fetch(ctx context.Context, client catalog.Client, req Request) Response {
	if req.Refresh {
		ctx = catalog.WithoutCache(ctx)
	}

	var (
		items []catalog.Movie
		err   error
	)
	switch req.Query.Source {
	case SourceGenres:
		items, err = client.FetchByGenres(ctx, req.Query.Genres, req.Page)
	default:
		items, err = client.FetchPopular(ctx, req.Page)
	}

	return Response{
		Seq:   req.Seq,
		Query: req.Query,
		Page:  req.Page,
		Items: items,
		Err:   err,
	}
}
