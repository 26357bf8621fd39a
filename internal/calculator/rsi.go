package calculator

import (
	"errors"

	"StockAnalyst/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI of the closes.
// Needs period+1 points; returns 50 when there are fewer.
func CalculateRSI(points []model.PricePoint, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(points) < period+1 {
		return 50.0, nil
	}
	closes := extractCloses(points)

	split := func(i int) (gain, loss float64) {
		d := closes[i] - closes[i-1]
		if d > 0 {
			return d, 0
		}
		return 0, -d
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		g, l := split(i)
		avgGain += g
		avgLoss += l
	}
	n := float64(period)
	avgGain /= n
	avgLoss /= n

	for i := period + 1; i < len(closes); i++ {
		g, l := split(i)
		avgGain = (avgGain*(n-1) + g) / n
		avgLoss = (avgLoss*(n-1) + l) / n
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	return 100.0 - 100.0/(1.0+avgGain/avgLoss), nil
}
