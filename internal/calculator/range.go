package calculator

import (
	"errors"
	"math"

	"StockAnalyst/internal/model"
)

// CalculateRange scans the most recent days points and returns the high and low.
func CalculateRange(points []model.PricePoint, days int) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no price points provided")
	}
	if days <= 0 {
		return 0, 0, errors.New("days must be positive")
	}
	start := len(points) - days
	if start < 0 {
		start = 0
	}
	high, low = math.Inf(-1), math.Inf(1)
	for _, p := range points[start:] {
		high = math.Max(high, p.High)
		low = math.Min(low, p.Low)
	}
	return high, low, nil
}

// Calculate30DayRange returns the high and low of the last 30 daily points.
func Calculate30DayRange(points []model.PricePoint) (high, low float64, err error) {
	return CalculateRange(points, 30)
}

// CalculatePosition returns where current sits within [low, high], clamped to 0.0~1.0.
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Min(1, math.Max(0, pos)), nil
}
