package tmdb

import (
	"context"
	"encoding/json/v2"
	"net/url"
	"strconv"
)

// ResolveFilm maps a display title (plus optional release year) to a TMDB
// movie ID. Exports frequently carry slightly wrong or alternate release
// years, so a search that matches nothing with a year constraint is
// retried once without it. The provider's relevance ranking is trusted:
// the first result of whichever query produced results wins.
//
// Resolution is best-effort by contract. Any transport or parse failure
// yields ok=false (unmatched) and never propagates; an unmatched film
// degrades to null metadata downstream instead of failing the batch.
func (c *Client) ResolveFilm(ctx context.Context, title string, year int) (int, bool) {
	results, err := c.searchMovie(ctx, title, year)
	if err != nil {
		c.logger.Debug("tmdb search failed", "title", title, "error", err)
		return 0, false
	}

	if len(results) == 0 && year > 0 {
		if results, err = c.searchMovie(ctx, title, 0); err != nil {
			c.logger.Debug("tmdb year-relaxed search failed", "title", title, "error", err)
			return 0, false
		}
	}

	if len(results) == 0 {
		return 0, false
	}
	return results[0].ID, true
}

// searchMovie queries the search/movie endpoint. year <= 0 omits the year
// constraint.
func (c *Client) searchMovie(ctx context.Context, title string, year int) ([]rawSearchResult, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	body, err := c.get(ctx, "search/movie", params)
	if err != nil {
		return nil, wrapError("search", "search/movie", err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", "search/movie", err)
	}
	return resp.Results, nil
}
