package tmdb

// Raw API response types (internal)

type rawSearchResponse struct {
	Results []rawSearchResult `json:"results"`
}

type rawSearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type rawDetails struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	OriginalTitle       string       `json:"original_title"`
	ReleaseDate         string       `json:"release_date"`
	Runtime             int          `json:"runtime"`
	OriginalLanguage    string       `json:"original_language"`
	Popularity          float64      `json:"popularity"`
	VoteAverage         float64      `json:"vote_average"`
	Genres              []rawNamed   `json:"genres"`
	ProductionCountries []rawCountry `json:"production_countries"`
	PosterPath          string       `json:"poster_path"`
}

type rawNamed struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawCountry struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type rawCredits struct {
	Cast []rawCastMember `json:"cast"`
	Crew []rawCrewMember `json:"crew"`
}

type rawCastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type rawCrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type rawKeywords struct {
	Keywords []rawNamed `json:"keywords"`
}
