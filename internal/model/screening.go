package model

import (
	"time"
)

// Rating is the overall compliance verdict for a screening.
type Rating string

const (
	RatingHalal        Rating = "halal"
	RatingQuestionable Rating = "questionable"
	RatingNonHalal     Rating = "non-halal"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingHalal, RatingQuestionable, RatingNonHalal:
		return true
	}
	return false
}

// PillarStatus is the tri-state compliance status of a single pillar.
type PillarStatus string

const (
	StatusCompliant    PillarStatus = "compliant"
	StatusQuestionable PillarStatus = "questionable"
	StatusNonCompliant PillarStatus = "non-compliant"
)

// Confidence expresses how well-determined a screening outcome is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PillarResult is the scored output of one compliance pillar.
// Score is always within [0,100]; Factors carries the per-factor
// sub-scores for transparency.
type PillarResult struct {
	Score   int                `json:"score"`
	Status  PillarStatus       `json:"status"`
	Factors map[string]float64 `json:"factors,omitempty"`
}

// PillarResults groups the four pillar outputs of one screening.
type PillarResults struct {
	Nature     PillarResult `json:"nature_and_purpose"`
	Token      PillarResult `json:"token_structure"`
	Ratios     PillarResult `json:"financial_ratios"`
	Governance PillarResult `json:"governance"`
}

// DefaultDisclaimer accompanies every screening outcome.
const DefaultDisclaimer = "This screening is for informational purposes only and should not be considered as financial or religious advice. Please consult with qualified Islamic scholars for specific rulings."

// ScreeningOutcome is the full result of one compliance screening.
type ScreeningOutcome struct {
	OverallScore  int           `json:"overall_score"`
	OverallRating Rating        `json:"overall_rating"`
	Confidence    Confidence    `json:"confidence"`
	Pillars       PillarResults `json:"pillars"`

	Strengths       []string `json:"strengths,omitempty"`
	Concerns        []string `json:"concerns,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`

	// DetailedExplanation is supplied or generated externally and is
	// carried through unchanged; the rating never depends on it.
	DetailedExplanation string   `json:"detailed_explanation,omitempty"`
	Sources             []string `json:"sources,omitempty"`
	Disclaimer          string   `json:"disclaimer"`

	LastUpdated time.Time `json:"last_updated"`
}

// ScreeningRecord is the persisted result of one screening run.
// Immutable after creation except for manual-review annotations.
type ScreeningRecord struct {
	ID              string              `json:"id"`
	Subject         string              `json:"subject,omitempty"` // empty for anonymous screenings
	IsUserScreening bool                `json:"is_user_screening"`
	Facts           CryptocurrencyFacts `json:"facts"`
	Outcome         ScreeningOutcome    `json:"outcome"`

	SchemaVersion        string   `json:"schema_version"`
	ProcessingTimeMs     int64    `json:"processing_time_ms"`
	DataSourcesUsed      []string `json:"data_sources_used,omitempty"`
	ManualReviewRequired bool     `json:"manual_review_required"`
	ReviewNotes          string   `json:"review_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Statistics are population-level counts over stored screenings.
type Statistics struct {
	Total        int `json:"total"`
	Halal        int `json:"halal"`
	Questionable int `json:"questionable"`
	NonHalal     int `json:"non_halal"`
}
