package strategy

import (
	"fmt"
	"math"

	"StockAnalyst/internal/model"
)

// scoreMA50Deviation scores how far the current price deviates from MA50.
// Weight: 0.35
func scoreMA50Deviation(ind model.Indicators) model.FactorScore {
	const weight = 0.35
	if ind.MA50 == 0 {
		return model.FactorScore{Name: "MA50 deviation", Weight: weight, Commentary: "MA50 unavailable"}
	}
	deviation := (ind.CurrentPrice - ind.MA50) / ind.MA50 * 100

	var score float64
	switch {
	case deviation <= -12:
		score = 2.0
	case deviation <= -8:
		score = 1.5
	case deviation <= -4:
		score = 1.0
	case deviation <= -1:
		score = 0.5
	case deviation <= 1:
		score = 0
	case deviation <= 4:
		score = -0.5
	case deviation <= 8:
		score = -1.0
	case deviation <= 12:
		score = -1.5
	default:
		score = -2.0
	}

	return model.FactorScore{
		Name:       "MA50 deviation",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("%+.1f%% vs MA50", deviation),
	}
}

// scoreRSI scores the daily RSI(14).
// Weight: 0.30
func scoreRSI(ind model.Indicators) model.FactorScore {
	const weight = 0.30
	rsi := ind.RSI14
	var score float64
	switch {
	case rsi <= 25:
		score = 2.0
	case rsi <= 30:
		score = 1.5
	case rsi <= 40:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 60:
		score = -0.5
	case rsi <= 70:
		score = -1.0
	case rsi <= 80:
		score = -1.5
	default:
		score = -2.0
	}

	return model.FactorScore{
		Name:       "RSI14",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("RSI=%.0f", rsi),
	}
}

// score30DayPosition scores where the price sits in its 30-day range.
// Weight: 0.15
// Above 95% the score only reaches -2 when the other factors already average below -1.
func score30DayPosition(ind model.Indicators, otherFactorsAvg float64) model.FactorScore {
	const weight = 0.15
	pos := ind.Position30d * 100

	var score float64
	switch {
	case pos <= 10:
		score = 2.0
	case pos <= 20:
		score = 1.5
	case pos <= 30:
		score = 1.0
	case pos <= 40:
		score = 0.5
	case pos <= 60:
		score = 0
	case pos <= 70:
		score = -0.5
	case pos <= 80:
		score = -1.0
	case pos <= 95:
		score = -1.5
	case otherFactorsAvg < -1:
		score = -2.0
	default:
		score = -1.0
	}

	return model.FactorScore{
		Name:       "30d position",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("at %.0f%% of range", pos),
	}
}

// scoreTrend scores MA alignment and proximity to 30-day extremes.
// Weight: 0.20
// Bull alignment: price > MA20 > MA50
// Bear alignment: price < MA20 < MA50
func scoreTrend(ind model.Indicators) model.FactorScore {
	const weight = 0.20
	bullish := ind.CurrentPrice > ind.MA20 && ind.MA20 > ind.MA50
	bearish := ind.CurrentPrice < ind.MA20 && ind.MA20 < ind.MA50

	near := func(level float64) bool {
		return level > 0 && math.Abs(ind.CurrentPrice-level)/level < 0.01
	}

	var score float64
	var commentary string
	switch {
	case bullish && near(ind.High30d):
		score, commentary = 1.5, "bull alignment at 30d high"
	case bullish:
		score, commentary = 1.0, "bull alignment"
	case bearish && near(ind.Low30d):
		score, commentary = -1.0, "bear alignment at 30d low"
	case bearish:
		score, commentary = -0.5, "bear alignment"
	default:
		commentary = "range-bound"
	}

	return model.FactorScore{
		Name:       "Trend",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}
