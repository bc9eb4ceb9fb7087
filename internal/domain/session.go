package domain

import "time"

// Session status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis stages reported while a session runs.
const (
	StageStarting   = "starting"
	StageExtracting = "extracting"
	StageLoading    = "loading"
	StageMatching   = "tmdb_matching"
	StageMetadata   = "tmdb_metadata"
	StageAnalyzing  = "analyzing"
	StageComplete   = "complete"
	StageError      = "error"
)

// ProgressRecord is the poll-able state of one analysis session. Sessions
// are keyed by a content hash of the uploaded archive so concurrent
// analyses never share state.
type ProgressRecord struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Completed int       `json:"progress"`
	Total     int       `json:"total"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"timestamp"`
}

// Insights is the narrative layer computed on top of Statistics.
type Insights struct {
	Persona           Persona            `json:"cinematic_persona"`
	RatingPersonality *RatingPersonality `json:"rating_personality,omitempty"`
	Archetype         Archetype          `json:"cinema_archetype"`
	ViewingSeason     *ViewingSeason     `json:"viewing_season,omitempty"`
	TimeSpentStory    string             `json:"time_spent_story,omitempty"`
	Cards             []InsightCard      `json:"insights"`
}

// Persona is the headline viewing-habit label.
type Persona struct {
	Persona     string `json:"persona"`
	Description string `json:"description"`
}

// RatingPersonality labels how the user hands out stars.
type RatingPersonality struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Average     float64 `json:"average"`
}

// Archetype classifies the user along mainstream/niche and modern/classic
// axes.
type Archetype struct {
	Type            string  `json:"type"`
	Description     string  `json:"description"`
	PopularityScore float64 `json:"popularity_score"`
	FilmAge         float64 `json:"film_age"`
}

// ViewingSeason names the season the user watches the most.
type ViewingSeason struct {
	Season     string `json:"season"`
	Percentage int    `json:"percentage"`
	Story      string `json:"story"`
}

// InsightCard is one short highlight shown in the wrapped summary.
type InsightCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalysisResult is the final payload stored per session and returned to
// the client.
type AnalysisResult struct {
	SessionID string     `json:"session_id"`
	Stats     Statistics `json:"stats"`
	Insights  Insights   `json:"insights"`
}
