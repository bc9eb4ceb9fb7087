package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strconv"
	"sync"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Crew job titles that derive the director and writer lists.
const jobDirector = "Director"

var writerJobs = map[string]bool{
	"Writer":     true,
	"Screenplay": true,
	"Story":      true,
}

// FetchFilm fetches and merges the three sub-resources for one movie ID:
// core details, credits, and keyword tags. The three reads are independent,
// so they are issued concurrently and joined before merging.
//
// Degradation rules: without core details no record is useful, so a
// details failure returns nil and the film keeps null metadata downstream.
// Credits or keywords failing independently only empty the lists derived
// from them. FetchFilm itself never returns an error.
func (c *Client) FetchFilm(ctx context.Context, id int) *domain.Film {
	var (
		wg       sync.WaitGroup
		details  *rawDetails
		credits  *rawCredits
		keywords *rawKeywords
	)

	base := "movie/" + strconv.Itoa(id)

	wg.Add(3)
	go func() {
		defer wg.Done()
		details = fetchJSON[rawDetails](ctx, c, "details", base)
	}()
	go func() {
		defer wg.Done()
		credits = fetchJSON[rawCredits](ctx, c, "credits", base+"/credits")
	}()
	go func() {
		defer wg.Done()
		keywords = fetchJSON[rawKeywords](ctx, c, "keywords", base+"/keywords")
	}()
	wg.Wait()

	if details == nil {
		return nil
	}

	film := &domain.Film{
		TMDBID:      id,
		Title:       details.Title,
		ReleaseDate: details.ReleaseDate,
		Runtime:     details.Runtime,
		Language:    details.OriginalLanguage,
		Popularity:  details.Popularity,
		VoteAverage: details.VoteAverage,
		Decade:      DecadeBucket(details.ReleaseDate),
		Genres:      names(details.Genres),
		PosterPath:  details.PosterPath,
	}
	for _, country := range details.ProductionCountries {
		film.Countries = append(film.Countries, country.Name)
	}

	if credits != nil {
		for _, member := range credits.Crew {
			switch {
			case member.Job == jobDirector:
				film.Directors = append(film.Directors, member.Name)
			case writerJobs[member.Job]:
				film.Writers = append(film.Writers, member.Name)
			}
		}
		if len(film.Directors) > 0 {
			film.Director = &film.Directors[0]
		}
		for i, member := range credits.Cast {
			if i >= 10 {
				break
			}
			film.Cast = append(film.Cast, member.Name)
		}
	}

	if keywords != nil {
		film.Keywords = names(keywords.Keywords)
	}

	return film
}

// fetchJSON fetches one endpoint and unmarshals it, returning nil on any
// failure so callers can degrade per sub-resource.
func fetchJSON[T any](ctx context.Context, c *Client, op, endpoint string) *T {
	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		c.logger.Debug("tmdb fetch failed", "op", op, "endpoint", endpoint, "error", err)
		return nil
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		c.logger.Warn("tmdb response parse failed", "op", op, "endpoint", endpoint, "error", err)
		return nil
	}
	return &out
}

// DecadeBucket derives the "1990s"-style decade label from a TMDB release
// date ("2006-01-02"). The first four characters must parse as a year;
// anything else (missing or malformed date) yields nil, never an error.
func DecadeBucket(releaseDate string) *string {
	if len(releaseDate) < 4 {
		return nil
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return nil
	}
	decade := fmt.Sprintf("%ds", (year/10)*10)
	return &decade
}

func names(items []rawNamed) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}
