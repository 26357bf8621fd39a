package strategy

import "StockAnalyst/internal/model"

// Biases maps total score thresholds to a label, highest first.
var Biases = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "strong accumulate"},
	{0.5, "accumulate"},
	{-0.5, "neutral"},
	{-1.2, "cautious"},
}

// DefaultBias is the label for scores below every threshold.
const DefaultBias = "strong caution"

func mapBias(totalScore float64) string {
	for _, b := range Biases {
		if totalScore >= b.MinScore {
			return b.Label
		}
	}
	return DefaultBias
}

// Evaluate computes the local technical score from the indicators.
func Evaluate(ind model.Indicators) model.TechnicalScore {
	dev := scoreMA50Deviation(ind)
	rsi := scoreRSI(ind)
	trend := scoreTrend(ind)

	otherFactorsAvg := (dev.RawScore + rsi.RawScore + trend.RawScore) / 3.0
	pos := score30DayPosition(ind, otherFactorsAvg)

	factors := []model.FactorScore{dev, rsi, trend, pos}
	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}

	score := model.TechnicalScore{
		Factors:    factors,
		TotalScore: total,
		Bias:       mapBias(total),
	}
	switch {
	case ind.RSI14 > 85:
		score.Warning = "RSI above 85, overbought"
	case ind.RSI14 < 15:
		score.Warning = "RSI below 15, oversold"
	}
	return score
}
