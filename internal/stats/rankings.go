package stats

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// counter tallies string occurrences while remembering first-seen order,
// so equal counts rank in input order instead of map order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Add(name string) {
	if name == "" {
		return
	}
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) Len() int {
	return len(c.counts)
}

// Ranked returns up to limit items by descending count, ties in
// first-seen order. limit <= 0 returns everything.
func (c *counter) Ranked(limit int) []domain.NameCount {
	ranked := make([]domain.NameCount, 0, len(c.order))
	for _, name := range c.order {
		ranked = append(ranked, domain.NameCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Top returns the highest-ranked item, or nil when nothing was counted.
func (c *counter) Top() *domain.NameCount {
	ranked := c.Ranked(1)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// computeRankings fills every frequency ranking from the enriched rows.
// Unmatched rows contribute nothing.
func computeRankings(s *domain.Statistics, ds domain.Dataset) {
	directors := newCounter()
	genres := newCounter()
	decades := newCounter()
	countries := newCounter()
	languages := newCounter()
	actors := newCounter()
	leads := newCounter()

	for _, row := range ds.Rows {
		film := row.Film
		if film == nil {
			continue
		}
		if film.Director != nil {
			directors.Add(*film.Director)
		}
		for _, g := range film.Genres {
			genres.Add(g)
		}
		if film.Decade != nil {
			decades.Add(*film.Decade)
		}
		for _, c := range film.Countries {
			countries.Add(c)
		}
		languages.Add(film.Language)
		for _, actor := range film.Cast {
			actors.Add(actor)
		}
		if len(film.Cast) > 0 {
			leads.Add(film.Cast[0])
		}
	}

	s.TopDirectors = directors.Ranked(topDirectorsLimit)
	s.TotalDirectors = directors.Len()
	s.MostWatchedDirector = directors.Top()

	s.TopGenres = genres.Ranked(topGenresLimit)
	s.FavoriteGenre = genres.Top()

	s.Decades = decades.Ranked(0)
	s.FavoriteDecade = decades.Top()

	s.TopCountries = countries.Ranked(topCountriesLimit)
	s.TotalCountries = countries.Len()

	s.TopLanguages = rankLanguages(languages, topLanguagesLimit)
	s.TopActors = actors.Ranked(topActorsLimit)
	s.MyStar = leads.Top()
}

// rankLanguages converts ranked ISO 639-1 codes into display entries.
func rankLanguages(c *counter, limit int) []domain.LanguageCount {
	ranked := c.Ranked(limit)
	out := make([]domain.LanguageCount, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, domain.LanguageCount{
			Code:  item.Name,
			Name:  languageName(item.Name),
			Count: item.Count,
		})
	}
	return out
}

func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
