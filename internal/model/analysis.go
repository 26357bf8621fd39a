package model

import "strings"

// Recommendation is the closed vocabulary returned by the analysis step.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationSell Recommendation = "SELL"
	RecommendationHold Recommendation = "HOLD"
)

// ParseRecommendation normalizes s and reports whether it is in the vocabulary.
func ParseRecommendation(s string) (Recommendation, bool) {
	r := Recommendation(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is BUY, SELL or HOLD.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationBuy, RecommendationSell, RecommendationHold:
		return true
	}
	return false
}

// Priority orders recommendations for display: BUY first, SELL last.
func (r Recommendation) Priority() int {
	switch r {
	case RecommendationBuy:
		return 1
	case RecommendationHold:
		return 2
	case RecommendationSell:
		return 3
	}
	return 4
}

// AnalysisResult is the outcome of one reasoning call.
type AnalysisResult struct {
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      string         `json:"reasoning"`
	// Fallback is set when the result is the safe default rather than a model answer.
	Fallback bool `json:"fallback,omitempty"`
}

// PriceRange bounds the starting price of a range-mode walk.
type PriceRange struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Valid reports whether the range is usable for generation.
func (r PriceRange) Valid() bool {
	return r.Low > 0 && r.High > r.Low
}

// Instrument identifies one tracked equity.
type Instrument struct {
	Ticker      string     `yaml:"ticker" json:"ticker"`
	Name        string     `yaml:"name" json:"name"`
	AnchorPrice float64    `yaml:"anchor_price" json:"anchorPrice"`
	PriceRange  PriceRange `yaml:"price_range" json:"priceRange"`
}

// AnalyzedInstrument is the per-instrument record of a completed run.
type AnalyzedInstrument struct {
	Instrument
	CurrentPrice  float64        `json:"currentPrice"`
	Change        float64        `json:"change"`
	ChangePercent float64        `json:"changePercent"`
	Analysis      AnalysisResult `json:"analysis"`
	Indicators    Indicators     `json:"indicators"`
	Score         TechnicalScore `json:"score"`
	Series        PriceSeries    `json:"series"`
}
