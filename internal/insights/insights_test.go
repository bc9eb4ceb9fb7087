package insights

import (
	"strings"
	"testing"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

func floatptr(v float64) *float64 { return &v }

func TestBuildPersona_ExactMatch(t *testing.T) {
	s := domain.Statistics{
		FavoriteGenre:  &domain.NameCount{Name: "Crime", Count: 12},
		FavoriteDecade: &domain.NameCount{Name: "1990s", Count: 9},
		TopCountries:   []domain.NameCount{{Name: "USA", Count: 20}},
	}

	p := buildPersona(s)
	if p.Persona != "Tarantino Disciple" {
		t.Errorf("got persona %q", p.Persona)
	}
}

func TestBuildPersona_GenreFallback(t *testing.T) {
	s := domain.Statistics{
		FavoriteGenre:  &domain.NameCount{Name: "Horror", Count: 12},
		FavoriteDecade: &domain.NameCount{Name: "2010s", Count: 9},
		TopCountries:   []domain.NameCount{{Name: "France", Count: 5}},
	}

	p := buildPersona(s)
	if p.Persona != "Horror Devotee" {
		t.Errorf("got persona %q", p.Persona)
	}
}

func TestBuildPersona_GenericFallback(t *testing.T) {
	s := domain.Statistics{
		FavoriteGenre: &domain.NameCount{Name: "Western", Count: 12},
	}

	p := buildPersona(s)
	if p.Persona != "Western Enthusiast" {
		t.Errorf("got persona %q", p.Persona)
	}
	if !strings.Contains(p.Description, "Western") {
		t.Errorf("description should name the genre, got %q", p.Description)
	}
}

func TestBuildPersona_EmptyStats(t *testing.T) {
	p := buildPersona(domain.Statistics{})
	if p.Persona == "" || p.Description == "" {
		t.Errorf("empty stats must still yield a persona, got %+v", p)
	}
}

func TestBuildRatingPersonality(t *testing.T) {
	tests := []struct {
		name     string
		dist     map[string]int
		wantType string
	}{
		{
			name:     "easy to please",
			dist:     map[string]int{"4.5": 5, "5.0": 5},
			wantType: "Easy to Please",
		},
		{
			name:     "tough critic",
			dist:     map[string]int{"2.5": 5, "3.0": 5},
			wantType: "Tough Critic",
		},
		{
			name:     "mood swinger",
			dist:     map[string]int{"1.0": 3, "5.0": 5},
			wantType: "Mood Swinger",
		},
		{
			name:     "balanced judge",
			dist:     map[string]int{"3.5": 6, "4.0": 6},
			wantType: "Balanced Judge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := 0
			for _, c := range tt.dist {
				total += c
			}
			s := domain.Statistics{
				AverageRating:      floatptr(3.5), // gate only; moments come from the histogram
				TotalRatedFilms:    total,
				RatingDistribution: tt.dist,
			}

			p := buildRatingPersonality(s)
			if p == nil {
				t.Fatal("expected a personality")
			}
			if p.Type != tt.wantType {
				t.Errorf("got %q, want %q", p.Type, tt.wantType)
			}
		})
	}
}

func TestBuildRatingPersonality_NoRatings(t *testing.T) {
	if p := buildRatingPersonality(domain.Statistics{}); p != nil {
		t.Errorf("expected nil, got %+v", p)
	}
}

func TestBuildArchetype(t *testing.T) {
	tests := []struct {
		name       string
		popularity float64
		age        float64
		wantType   string
	}{
		{name: "mainstream modern", popularity: 60, age: 5, wantType: "Pop Culture Professor"},
		{name: "niche classic", popularity: 10, age: 30, wantType: "Archive Treasure Hunter"},
		{name: "niche modern", popularity: 10, age: 5, wantType: "Indie Oracle"},
		{name: "mainstream classic", popularity: 60, age: 30, wantType: "Time Traveler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.Statistics{
				PopularityMeter: &domain.PopularityMeter{Score: tt.popularity},
				FilmAge:         &domain.FilmAge{AverageAge: tt.age},
			}

			a := buildArchetype(s)
			if a.Type != tt.wantType {
				t.Errorf("got %q, want %q", a.Type, tt.wantType)
			}
		})
	}
}

func TestBuildArchetype_DefaultsWithoutData(t *testing.T) {
	a := buildArchetype(domain.Statistics{})
	// No popularity data and the default film age land in niche/classic.
	if a.Type != "Archive Treasure Hunter" {
		t.Errorf("got %q", a.Type)
	}
}

func TestBuildViewingSeason(t *testing.T) {
	monthly := make([]domain.MonthCount, 0, 12)
	for _, m := range []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	} {
		count := 0
		if m == "December" || m == "January" {
			count = 10
		}
		monthly = append(monthly, domain.MonthCount{Month: m, Count: count})
	}

	season := buildViewingSeason(domain.Statistics{MonthlyViewing: monthly})
	if season == nil {
		t.Fatal("expected a season")
	}
	if season.Season != "Winter" {
		t.Errorf("got %q, want Winter", season.Season)
	}
	if season.Percentage != 100 {
		t.Errorf("got %d%%, want 100", season.Percentage)
	}
}

func TestBuildViewingSeason_NoData(t *testing.T) {
	if s := buildViewingSeason(domain.Statistics{}); s != nil {
		t.Errorf("expected nil, got %+v", s)
	}
}

func TestBuildTimeStory(t *testing.T) {
	if story := buildTimeStory(domain.Statistics{}); story != "" {
		t.Errorf("expected empty story, got %q", story)
	}
	if story := buildTimeStory(domain.Statistics{DaysWatched: 45}); !strings.Contains(story, "45 days") {
		t.Errorf("got %q", story)
	}
	if story := buildTimeStory(domain.Statistics{DaysWatched: 10}); !strings.Contains(story, "weeks") {
		t.Errorf("got %q", story)
	}
}

func TestBuildCards(t *testing.T) {
	s := domain.Statistics{
		DaysWatched:         12.5,
		MostWatchedDirector: &domain.NameCount{Name: "Christopher Nolan", Count: 6},
		FavoriteDecade:      &domain.NameCount{Name: "1990s", Count: 14},
		AverageRating:       floatptr(4.3),
		TotalCountries:      12,
	}

	cards := buildCards(s)
	if len(cards) != 5 {
		t.Fatalf("got %d cards, want 5", len(cards))
	}

	titles := make(map[string]bool)
	for _, card := range cards {
		titles[card.Title] = true
	}
	for _, want := range []string{"Time Invested", "Director Obsession", "Time Traveler", "Easy to Please", "Global Cinema Explorer"} {
		if !titles[want] {
			t.Errorf("missing card %q", want)
		}
	}
}

func TestBuildCards_Empty(t *testing.T) {
	if cards := buildCards(domain.Statistics{}); len(cards) != 0 {
		t.Errorf("got %d cards, want 0", len(cards))
	}
}

func TestBuild_Full(t *testing.T) {
	s := domain.Statistics{
		FavoriteGenre:      &domain.NameCount{Name: "Drama", Count: 10},
		FavoriteDecade:     &domain.NameCount{Name: "2010s", Count: 8},
		AverageRating:      floatptr(3.8),
		TotalRatedFilms:    20,
		RatingDistribution: map[string]int{"3.5": 10, "4.0": 10},
		DaysWatched:        3,
	}

	in := Build(s)
	if in.Persona.Persona == "" {
		t.Error("expected a persona")
	}
	if in.RatingPersonality == nil {
		t.Error("expected a rating personality")
	}
	if in.Archetype.Type == "" {
		t.Error("expected an archetype")
	}
	if in.TimeSpentStory == "" {
		t.Error("expected a time story")
	}
}
