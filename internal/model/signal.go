package model

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"rawScore"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// TechnicalScore is the local weighted read of the indicators.
// Positive totals lean toward accumulation, negative toward caution.
type TechnicalScore struct {
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"totalScore"`
	Bias       string        `json:"bias"`
	Warning    string        `json:"warning,omitempty"`
}
