package domain

import "time"

// NameCount is a ranked item with its occurrence count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LanguageCount ranks an original language with its display name.
type LanguageCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FilmRuntime pairs a film title with its runtime in minutes.
type FilmRuntime struct {
	Title   string `json:"title"`
	Runtime int    `json:"runtime"`
}

// MonthCount is the number of diary entries logged in a calendar month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// WeekdaySplit partitions diary entries into weekday and weekend watches.
type WeekdaySplit struct {
	Weekday int `json:"weekday"`
	Weekend int `json:"weekend"`
}

// ActiveDay is the single day with the most diary entries.
type ActiveDay struct {
	Date  string `json:"date"`
	Films int    `json:"films"`
}

// BingeStats summarizes runs of 2+ films watched within rolling 48h windows.
type BingeStats struct {
	TotalSessions  int `json:"total_sessions"`
	LongestSession int `json:"longest_session"`
	TotalFilms     int `json:"total_binge_films"`
}

// GuiltyPleasure is a film the user loved that TMDB voters did not.
type GuiltyPleasure struct {
	Title      string  `json:"title"`
	TMDBRating float64 `json:"tmdb_rating"`
	YourRating float64 `json:"your_rating"`
}

// ComboCount counts a co-occurring attribute pair, e.g. "Drama-Thriller".
type ComboCount struct {
	Combination string `json:"combination"`
	Count       int    `json:"count"`
}

// Duo is the most-seen director and lead actor pairing.
type Duo struct {
	Director string `json:"director"`
	Actor    string `json:"actor"`
	Count    int    `json:"count"`
}

// FilmAge summarizes how old the watched films are.
type FilmAge struct {
	AverageAge    float64 `json:"average_age"`
	RecentPercent float64 `json:"recent_percentage"` // share released within 5 years
	Type          string  `json:"type"`
}

// PopularityMeter scores how mainstream the user's picks are.
type PopularityMeter struct {
	Type        string  `json:"type"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// CountryVisit is one stop on the cinematic world tour.
type CountryVisit struct {
	Country string `json:"country"`
	Flag    string `json:"flag"`
	Count   int    `json:"count"`
}

// DirectorAffinity measures how the user rates their most-watched director.
type DirectorAffinity struct {
	Director      string  `json:"director_name"`
	AverageRating float64 `json:"average_rating_given"`
	TotalFilms    int     `json:"total_films"`
	Relationship  string  `json:"relationship"` // critical, balanced, generous
}

// Statistics is the full aggregate result of one analysis run. Every field
// is computed defensively: empty input produces zero values and empty
// slices, never an error.
type Statistics struct {
	TotalFilms        int     `json:"total_films"`
	UniqueFilms       int     `json:"unique_films"`
	FilmsWithMetadata int     `json:"films_with_metadata"`
	MetadataCoverage  float64 `json:"metadata_coverage"`

	// Ratings (over raw rated entries, duplicates counted).
	AverageRating      *float64       `json:"average_rating,omitempty"`
	MedianRating       *float64       `json:"median_rating,omitempty"`
	MostCommonRating   *float64       `json:"most_common_rating,omitempty"`
	TotalRatedFilms    int            `json:"total_rated_films"`
	RatingDistribution map[string]int `json:"rating_distribution,omitempty"`

	// Runtime (over enriched rows with a known runtime).
	TotalRuntime   int          `json:"total_runtime"`
	HoursWatched   float64      `json:"hours_watched"`
	DaysWatched    float64      `json:"days_watched"`
	AverageRuntime float64      `json:"average_runtime"`
	MedianRuntime  float64      `json:"median_runtime"`
	LongestFilm    *FilmRuntime `json:"longest_film,omitempty"`
	ShortestFilm   *FilmRuntime `json:"shortest_film,omitempty"`

	// Frequency rankings: descending count, ties in first-seen order.
	TopDirectors        []NameCount       `json:"top_directors"`
	TotalDirectors      int               `json:"total_directors"`
	MostWatchedDirector *NameCount        `json:"most_watched_director,omitempty"`
	DirectorAffinity    *DirectorAffinity `json:"director_deep_analysis,omitempty"`
	TopGenres           []NameCount       `json:"top_genres"`
	FavoriteGenre       *NameCount        `json:"favorite_genre,omitempty"`
	Decades             []NameCount       `json:"decades"`
	FavoriteDecade      *NameCount        `json:"favorite_decade,omitempty"`
	TopCountries        []NameCount       `json:"top_countries"`
	TotalCountries      int               `json:"total_countries"`
	TopLanguages        []LanguageCount   `json:"top_languages"`
	TopActors           []NameCount       `json:"top_actors"`
	MyStar              *NameCount        `json:"my_star,omitempty"`

	// Diary analytics.
	TopRewatches   []NameCount   `json:"top_rewatches"`
	MostLogged     []NameCount   `json:"most_logged_films"`
	MonthlyViewing []MonthCount  `json:"monthly_viewing_habits,omitempty"`
	DayOfWeek      *WeekdaySplit `json:"day_of_week_pattern,omitempty"`
	MostActiveDay  *ActiveDay    `json:"most_active_day,omitempty"`
	Binge          *BingeStats   `json:"binge_analysis,omitempty"`

	// Derived fun stats.
	GuiltyPleasure  *GuiltyPleasure  `json:"guilty_pleasure,omitempty"`
	FavoriteCombo   *ComboCount      `json:"favorite_genre_combo,omitempty"`
	SignatureDuo    *Duo             `json:"signature_duo,omitempty"`
	FilmAge         *FilmAge         `json:"film_age_analysis,omitempty"`
	PopularityMeter *PopularityMeter `json:"popularity_meter,omitempty"`
	WorldTour       []CountryVisit   `json:"world_tour,omitempty"`

	AnalyzedAt time.Time `json:"analysis_date"`
}
