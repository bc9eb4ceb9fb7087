package stats

import (
	"strconv"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Guilty pleasure thresholds: the crowd disliked it, the user loved it.
const (
	guiltyVoteBelow     = 6.0
	guiltyRatingAtLeast = 4.0
)

// Popularity meter and film age thresholds.
const (
	popularityMainstream = 50.0
	popularityBalanced   = 20.0
	recentFilmYears      = 5
	recentHunterPercent  = 60.0
	classicLoverAge      = 20.0
)

var countryFlags = map[string]string{
	"United States":  "🇺🇸",
	"France":         "🇫🇷",
	"United Kingdom": "🇬🇧",
	"Japan":          "🇯🇵",
	"Italy":          "🇮🇹",
	"Germany":        "🇩🇪",
	"South Korea":    "🇰🇷",
	"Spain":          "🇪🇸",
	"Canada":         "🇨🇦",
	"India":          "🇮🇳",
	"China":          "🇨🇳",
	"Australia":      "🇦🇺",
	"Russia":         "🇷🇺",
	"Brazil":         "🇧🇷",
	"Mexico":         "🇲🇽",
}

const fallbackFlag = "🎬"

// computeFun fills the derived fun stats. Runs after computeRankings so
// it can reuse the finished rankings.
func computeFun(s *domain.Statistics, entries []domain.FilmEntry, ds domain.Dataset) {
	films := make(map[domain.FilmKey]*domain.Film, len(ds.Rows))
	for _, row := range ds.Rows {
		films[row.Key] = row.Film
	}

	computeGuiltyPleasure(s, entries, films)
	computeGenreCombo(s, ds)
	computeSignatureDuo(s, ds)
	computeFilmAge(s, ds)
	computePopularityMeter(s, ds)
	computeWorldTour(s)
	computeDirectorAffinity(s, entries, films)
}

// computeGuiltyPleasure finds films the user rated highly despite a low
// TMDB vote average; of those, the one the crowd liked least wins.
func computeGuiltyPleasure(s *domain.Statistics, entries []domain.FilmEntry, films map[domain.FilmKey]*domain.Film) {
	var guilty *domain.GuiltyPleasure
	for _, entry := range entries {
		if entry.Rating == nil || *entry.Rating < guiltyRatingAtLeast {
			continue
		}
		film := films[entry.Key()]
		if film == nil || film.VoteAverage <= 0 || film.VoteAverage >= guiltyVoteBelow {
			continue
		}
		if guilty == nil || film.VoteAverage < guilty.TMDBRating {
			guilty = &domain.GuiltyPleasure{
				Title:      film.Title,
				TMDBRating: round1(film.VoteAverage),
				YourRating: *entry.Rating,
			}
		}
	}
	s.GuiltyPleasure = guilty
}

// computeGenreCombo counts the pairing of each film's first two genres.
func computeGenreCombo(s *domain.Statistics, ds domain.Dataset) {
	combos := newCounter()
	for _, row := range ds.Rows {
		if row.Film == nil || len(row.Film.Genres) < 2 {
			continue
		}
		combos.Add(row.Film.Genres[0] + "-" + row.Film.Genres[1])
	}

	top := combos.Top()
	if top == nil {
		return
	}
	s.FavoriteCombo = &domain.ComboCount{Combination: top.Name, Count: top.Count}
}

// computeSignatureDuo finds the most-seen director and lead actor pair.
// The lead is the first billed cast member who is not the director, so
// actor-directors pair with their co-star instead of themselves.
func computeSignatureDuo(s *domain.Statistics, ds domain.Dataset) {
	pairs := newCounter()
	duos := make(map[string]domain.Duo)

	for _, row := range ds.Rows {
		film := row.Film
		if film == nil || film.Director == nil {
			continue
		}

		var lead string
		for _, actor := range film.Cast {
			if actor != *film.Director {
				lead = actor
				break
			}
		}
		if lead == "" {
			continue
		}

		key := *film.Director + "#" + lead
		pairs.Add(key)
		if _, ok := duos[key]; !ok {
			duos[key] = domain.Duo{Director: *film.Director, Actor: lead}
		}
	}

	top := pairs.Top()
	if top == nil {
		return
	}
	duo := duos[top.Name]
	duo.Count = top.Count
	s.SignatureDuo = &duo
}

// computeFilmAge averages how old the watched films are relative to now.
func computeFilmAge(s *domain.Statistics, ds domain.Dataset) {
	currentYear := time.Now().Year()

	var (
		totalAge int
		recent   int
		count    int
	)
	for _, row := range ds.Rows {
		if row.Film == nil || len(row.Film.ReleaseDate) < 4 {
			continue
		}
		year, err := strconv.Atoi(row.Film.ReleaseDate[:4])
		if err != nil {
			continue
		}
		age := currentYear - year
		totalAge += age
		if age <= recentFilmYears {
			recent++
		}
		count++
	}
	if count == 0 {
		return
	}

	avgAge := round1(float64(totalAge) / float64(count))
	recentPct := round1(float64(recent) / float64(count) * 100)

	ageType := "balanced"
	switch {
	case recentPct > recentHunterPercent:
		ageType = "innovation hunter"
	case avgAge > classicLoverAge:
		ageType = "classic lover"
	}

	s.FilmAge = &domain.FilmAge{
		AverageAge:    avgAge,
		RecentPercent: recentPct,
		Type:          ageType,
	}
}

func computePopularityMeter(s *domain.Statistics, ds domain.Dataset) {
	var (
		sum   float64
		count int
	)
	for _, row := range ds.Rows {
		if row.Film == nil {
			continue
		}
		sum += row.Film.Popularity
		count++
	}
	if count == 0 {
		return
	}

	avg := sum / float64(count)

	meter := &domain.PopularityMeter{Score: round1(avg)}
	switch {
	case avg > popularityMainstream:
		meter.Type = "Popular Explorer"
		meter.Description = "You follow mainstream and popular films religiously!"
	case avg > popularityBalanced:
		meter.Type = "Balanced Cinephile"
		meter.Description = "You enjoy both popular and niche films equally!"
	default:
		meter.Type = "Independent Cinephile"
		meter.Description = "You love discovering obscure and independent films!"
	}
	s.PopularityMeter = meter
}

// computeWorldTour decorates the top countries with their flags.
func computeWorldTour(s *domain.Statistics) {
	top := s.TopCountries
	if len(top) > worldTourLimit {
		top = top[:worldTourLimit]
	}

	tour := make([]domain.CountryVisit, 0, len(top))
	for _, country := range top {
		flag, ok := countryFlags[country.Name]
		if !ok {
			flag = fallbackFlag
		}
		tour = append(tour, domain.CountryVisit{
			Country: country.Name,
			Flag:    flag,
			Count:   country.Count,
		})
	}
	s.WorldTour = tour
}

// computeDirectorAffinity measures how the user rates their most-watched
// director's films.
func computeDirectorAffinity(s *domain.Statistics, entries []domain.FilmEntry, films map[domain.FilmKey]*domain.Film) {
	if s.MostWatchedDirector == nil {
		return
	}
	director := s.MostWatchedDirector.Name

	var (
		sum   float64
		rated int
	)
	seen := make(map[domain.FilmKey]bool)
	total := 0

	for key, film := range films {
		if film != nil && film.Director != nil && *film.Director == director && !seen[key] {
			seen[key] = true
			total++
		}
	}
	for _, entry := range entries {
		if entry.Rating == nil {
			continue
		}
		film := films[entry.Key()]
		if film == nil || film.Director == nil || *film.Director != director {
			continue
		}
		sum += *entry.Rating
		rated++
	}
	if rated == 0 {
		return
	}

	avg := round2(sum / float64(rated))

	relationship := "balanced"
	switch {
	case avg < 3.5:
		relationship = "critical"
	case avg > 4.0:
		relationship = "generous"
	}

	s.DirectorAffinity = &domain.DirectorAffinity{
		Director:      director,
		AverageRating: avg,
		TotalFilms:    total,
		Relationship:  relationship,
	}
}
