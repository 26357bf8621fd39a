package calculator

import (
	"errors"

	"StockAnalyst/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// CalculateMA20 returns the 20-day simple moving average of the closes.
func CalculateMA20(points []model.PricePoint) (float64, error) {
	return CalculateSMA(extractCloses(points), 20)
}

// CalculateMA50 returns the 50-day simple moving average of the closes.
func CalculateMA50(points []model.PricePoint) (float64, error) {
	return CalculateSMA(extractCloses(points), 50)
}

// CalculateAverageVolume averages the volume of the last period days.
func CalculateAverageVolume(points []model.PricePoint, period int) (float64, error) {
	vols := make([]float64, len(points))
	for i, p := range points {
		vols[i] = float64(p.Volume)
	}
	return CalculateSMA(vols, period)
}

func extractCloses(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}
