// Package insights derives the narrative layer of the wrapped summary
// from the computed statistics: personas, archetypes, and short highlight
// cards. Pure string templating over the Statistics value.
package insights

import (
	"fmt"
	"math"
	"strconv"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Build derives every insight from the finished statistics.
func Build(s domain.Statistics) domain.Insights {
	return domain.Insights{
		Persona:           buildPersona(s),
		RatingPersonality: buildRatingPersonality(s),
		Archetype:         buildArchetype(s),
		ViewingSeason:     buildViewingSeason(s),
		TimeSpentStory:    buildTimeStory(s),
		Cards:             buildCards(s),
	}
}

type personaKey struct {
	genre   string
	decade  string
	country string
}

var personaMap = map[personaKey]domain.Persona{
	{"Action", "2020s", "USA"}:      {Persona: "Blockbuster Addict", Description: "You live for explosions, CGI, and popcorn entertainment."},
	{"Drama", "1970s", "USA"}:       {Persona: "Classic Hollywood Connoisseur", Description: "You appreciate the golden age when movies had substance."},
	{"Horror", "1980s", "USA"}:      {Persona: "Retro Horror Fiend", Description: "You know true terror peaked in the 80s."},
	{"Comedy", "2000s", "USA"}:      {Persona: "Millennial Comedy Scholar", Description: "You quote movies more than you quote real people."},
	{"Sci-Fi", "1980s", "USA"}:      {Persona: "Cyberpunk Prophet", Description: "You saw the future coming before everyone else."},
	{"Crime", "1990s", "USA"}:       {Persona: "Tarantino Disciple", Description: "You believe violence can be art when done right."},
	{"Romance", "1950s", "USA"}:     {Persona: "Old Hollywood Romantic", Description: "You think love stories peaked before color TV."},
	{"Thriller", "2010s", "USA"}:    {Persona: "Modern Suspense Seeker", Description: "You need your movies to keep you guessing."},
	{"Animation", "2000s", "Japan"}: {Persona: "Anime Connoisseur", Description: "You know Miyazaki is basically cinema Jesus."},
	{"Documentary", "2010s", "USA"}: {Persona: "Reality Obsessive", Description: "Fiction is for people who can't handle the truth."},
}

func buildPersona(s domain.Statistics) domain.Persona {
	genre := "Film"
	if s.FavoriteGenre != nil {
		genre = s.FavoriteGenre.Name
	}
	decade := "2020s"
	if s.FavoriteDecade != nil {
		decade = s.FavoriteDecade.Name
	}
	country := "USA"
	if len(s.TopCountries) > 0 {
		country = s.TopCountries[0].Name
	}

	if genre == "" || genre == "Unknown" {
		genre = "Genre-Defying"
	}
	if decade == "" || decade == "Unknown" {
		decade = "Timeless"
	}
	if country == "" || country == "Unknown" {
		country = "International"
	}

	if persona, ok := personaMap[personaKey{genre, decade, country}]; ok {
		return persona
	}

	switch genre {
	case "Horror":
		return domain.Persona{Persona: "Horror Devotee", Description: "You watch scary movies like other people watch comfort food shows."}
	case "Comedy":
		return domain.Persona{Persona: "Laugh Track Survivor", Description: "You've seen every joke coming since 1995, but you still show up."}
	case "Drama":
		return domain.Persona{Persona: "Emotional Masochist", Description: "You pay money to feel feelings. That's commitment."}
	case "Action":
		return domain.Persona{Persona: "Adrenaline Junkie", Description: "Physics are optional, explosions are mandatory."}
	case "Sci-Fi", "Science Fiction":
		return domain.Persona{Persona: "Future Pessimist", Description: "You watch dystopian futures and think 'sounds about right.'"}
	}

	return domain.Persona{
		Persona:     genre + " Enthusiast",
		Description: fmt.Sprintf("You've made %s your personality, and honestly? Respect.", genre),
	}
}

// Rating personality thresholds.
const (
	easyToPleaseAvg = 4.2
	toughCriticAvg  = 3.2
	moodSwingerStd  = 1.2
)

func buildRatingPersonality(s domain.Statistics) *domain.RatingPersonality {
	if s.AverageRating == nil || s.TotalRatedFilms == 0 {
		return nil
	}

	avg, std := ratingMoments(s.RatingDistribution)

	p := &domain.RatingPersonality{Average: math.Round(avg*10) / 10}
	switch {
	case avg >= easyToPleaseAvg:
		p.Type = "Easy to Please"
		p.Description = "You hand out 4-5 stars like candy. Either you have great taste or low standards."
	case avg <= toughCriticAvg:
		p.Type = "Tough Critic"
		p.Description = "Your ratings hover around 3 stars. You're basically the Gordon Ramsay of cinema."
	case std > moodSwingerStd:
		p.Type = "Mood Swinger"
		p.Description = "Your ratings are all over the place. A film either destroys you or bores you to death."
	default:
		p.Type = "Balanced Judge"
		p.Description = "Your ratings are perfectly balanced. You give every film exactly what it deserves."
	}
	return p
}

// ratingMoments recovers the mean and sample standard deviation from the
// rating histogram.
func ratingMoments(dist map[string]int) (mean, std float64) {
	var sum float64
	var n int
	for key, count := range dist {
		v, err := strconv.ParseFloat(key, 64)
		if err != nil {
			continue
		}
		sum += v * float64(count)
		n += count
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)

	if n < 2 {
		return mean, 0
	}
	var sq float64
	for key, count := range dist {
		v, err := strconv.ParseFloat(key, 64)
		if err != nil {
			continue
		}
		sq += (v - mean) * (v - mean) * float64(count)
	}
	std = math.Sqrt(sq / float64(n-1))
	return mean, std
}

// Archetype axes.
const (
	mainstreamPopularity = 30.0
	modernFilmAge        = 15.0
	defaultFilmAge       = 20.0
)

func buildArchetype(s domain.Statistics) domain.Archetype {
	var popularity float64
	if s.PopularityMeter != nil {
		popularity = s.PopularityMeter.Score
	}
	age := defaultFilmAge
	if s.FilmAge != nil {
		age = s.FilmAge.AverageAge
	}

	mainstream := popularity > mainstreamPopularity
	modern := age < modernFilmAge

	a := domain.Archetype{
		PopularityScore: math.Round(popularity*10) / 10,
		FilmAge:         math.Round(age*10) / 10,
	}
	switch {
	case mainstream && modern:
		a.Type = "Pop Culture Professor"
		a.Description = "You follow current and popular films religiously. You're basically the pulse of contemporary cinema."
	case !mainstream && !modern:
		a.Type = "Archive Treasure Hunter"
		a.Description = "You dig up old and obscure films like a true cinephile. You're the keeper of forgotten classics."
	case !mainstream && modern:
		a.Type = "Indie Oracle"
		a.Description = "You discover new independent and festival films before everyone else. You're a cinema prophet."
	default:
		a.Type = "Time Traveler"
		a.Description = "You watch films from every era with perfect balance. You're the master of cinema history."
	}
	return a
}

var seasonMonths = map[string][]string{
	"Winter": {"December", "January", "February"},
	"Spring": {"March", "April", "May"},
	"Summer": {"June", "July", "August"},
	"Fall":   {"September", "October", "November"},
}

var seasonStories = map[string]string{
	"Winter": "Winter is your movie season. You watched %d%% of your films during the cold months. Peak cozy behavior.",
	"Summer": "Summer is when you really commit to cinema. %d%% of your films happened in the sunny months. Air conditioning is underrated.",
	"Spring": "Spring awakens your cinematic spirit. %d%% of your films bloomed with the flowers. Very poetic of you.",
	"Fall":   "Fall is your movie season. %d%% of your films dropped with the leaves. Maximum atmospheric vibes.",
}

// Season iteration order keeps the result deterministic on ties.
var seasonOrder = []string{"Winter", "Spring", "Summer", "Fall"}

func buildViewingSeason(s domain.Statistics) *domain.ViewingSeason {
	if len(s.MonthlyViewing) == 0 {
		return nil
	}

	monthCounts := make(map[string]int, len(s.MonthlyViewing))
	total := 0
	for _, m := range s.MonthlyViewing {
		monthCounts[m.Month] = m.Count
		total += m.Count
	}
	if total == 0 {
		return nil
	}

	var (
		topSeason string
		topCount  int
	)
	for _, season := range seasonOrder {
		count := 0
		for _, month := range seasonMonths[season] {
			count += monthCounts[month]
		}
		if count > topCount {
			topSeason = season
			topCount = count
		}
	}

	pct := int(math.Round(float64(topCount) / float64(total) * 100))
	return &domain.ViewingSeason{
		Season:     topSeason,
		Percentage: pct,
		Story:      fmt.Sprintf(seasonStories[topSeason], pct),
	}
}

func buildTimeStory(s domain.Statistics) string {
	days := s.DaysWatched
	switch {
	case days <= 0:
		return ""
	case days >= 30:
		return fmt.Sprintf("You spent %.0f days watching movies this year. That's basically %.1f months of your life. No regrets?", days, days/30)
	case days >= 7:
		return fmt.Sprintf("You clocked %.1f days of screen time. That's %.1f weeks of pure cinema dedication.", days, days/7)
	default:
		return fmt.Sprintf("You spent %.1f days watching movies. Quality over quantity, we respect that.", days)
	}
}

func buildCards(s domain.Statistics) []domain.InsightCard {
	var cards []domain.InsightCard

	if s.DaysWatched > 0 {
		cards = append(cards, domain.InsightCard{
			Title:       "Time Invested",
			Description: fmt.Sprintf("You've spent %v days of your life watching movies!", s.DaysWatched),
		})
	}
	if s.MostWatchedDirector != nil {
		cards = append(cards, domain.InsightCard{
			Title: "Director Obsession",
			Description: fmt.Sprintf("You're a big fan of %s - you've watched %d of their films!",
				s.MostWatchedDirector.Name, s.MostWatchedDirector.Count),
		})
	}
	if s.FavoriteDecade != nil {
		cards = append(cards, domain.InsightCard{
			Title: "Time Traveler",
			Description: fmt.Sprintf("You love %s cinema with %d films from that era!",
				s.FavoriteDecade.Name, s.FavoriteDecade.Count),
		})
	}
	if s.AverageRating != nil {
		switch avg := *s.AverageRating; {
		case avg > 4:
			cards = append(cards, domain.InsightCard{
				Title:       "Easy to Please",
				Description: fmt.Sprintf("You're generous with ratings - averaging %v★!", avg),
			})
		case avg < 3:
			cards = append(cards, domain.InsightCard{
				Title:       "Tough Critic",
				Description: fmt.Sprintf("You're a tough critic with an average rating of %v★", avg),
			})
		}
	}
	if s.TotalCountries > 10 {
		cards = append(cards, domain.InsightCard{
			Title:       "Global Cinema Explorer",
			Description: fmt.Sprintf("You've watched films from %d different countries!", s.TotalCountries),
		})
	}

	return cards
}
