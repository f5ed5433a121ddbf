package controllers

import (
	"net/http"
	"strings"

	"github.com/rekhigroup/livplus-backend/api/validators"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
)

type page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// pageParams reads limit and cursor query parameters for admin list views.
func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// buildPage trims the lookahead row and encodes the next cursor when more
// rows remain.
func buildPage[T any](rows []T, limit int, cursorOf func(T) pagination.Cursor) page[T] {
	limit = pagination.NormalizeLimit(limit)
	out := page[T]{Items: rows}
	if len(rows) > limit {
		out.Items = rows[:limit]
		out.NextCursor = pagination.EncodeCursor(cursorOf(out.Items[len(out.Items)-1]))
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	return out
}
