package collector

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"StockAnalyst/internal/model"
)

// WalkConfig bounds the random walks.
type WalkConfig struct {
	// Anchor mode: one volatility per series drawn from [VolatilityMin, VolatilityMax].
	VolatilityMin float64
	VolatilityMax float64
	// Range mode volatility band and the width of the per-series drift band.
	RangeVolatilityMin float64
	RangeVolatilityMax float64
	DriftBand          float64
	// Daily volume is drawn from [VolumeMin, VolumeMax).
	VolumeMin int64
	VolumeMax int64
}

// DefaultWalkConfig returns the standard bands.
func DefaultWalkConfig() WalkConfig {
	return WalkConfig{
		VolatilityMin:      0.015,
		VolatilityMax:      0.035,
		RangeVolatilityMin: 0.02,
		RangeVolatilityMax: 0.05,
		DriftBand:          0.005,
		VolumeMin:          1_000_000,
		VolumeMax:          11_000_000,
	}
}

// Validate checks the bands keep every generated price positive.
func (c WalkConfig) Validate() error {
	if c.VolatilityMin < 0 || c.VolatilityMax < c.VolatilityMin || c.VolatilityMax >= 1 {
		return fmt.Errorf("%w: volatility band [%v, %v]", ErrInvalidInput, c.VolatilityMin, c.VolatilityMax)
	}
	if c.RangeVolatilityMin < 0 || c.RangeVolatilityMax < c.RangeVolatilityMin || c.RangeVolatilityMax >= 1 {
		return fmt.Errorf("%w: range volatility band [%v, %v]", ErrInvalidInput, c.RangeVolatilityMin, c.RangeVolatilityMax)
	}
	if c.DriftBand < 0 || c.RangeVolatilityMax/2+c.DriftBand/2 >= 1 {
		return fmt.Errorf("%w: drift band %v", ErrInvalidInput, c.DriftBand)
	}
	if c.VolumeMin < 0 || c.VolumeMax < c.VolumeMin {
		return fmt.Errorf("%w: volume band [%d, %d)", ErrInvalidInput, c.VolumeMin, c.VolumeMax)
	}
	return nil
}

// lockedRand serializes access to a rand.Rand shared by concurrent fetches.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(r *rand.Rand) *lockedRand {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &lockedRand{r: r}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) between(lo, hi float64) float64 {
	return lo + l.Float64()*(hi-lo)
}

func (l *lockedRand) volume(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo + l.r.Int64N(hi-lo)
}

// candle builds a point around close with the body and wicks scaled by vol.
// wick is the fraction of vol each shadow may extend past the body.
func candle(rng *lockedRand, date time.Time, open, close, vol, wick float64, volume int64) model.PricePoint {
	return model.PricePoint{
		Date:   date,
		Open:   open,
		High:   math.Max(open, close) * (1 + rng.Float64()*vol*wick),
		Low:    math.Min(open, close) * (1 - rng.Float64()*vol*wick),
		Close:  close,
		Volume: volume,
	}
}

// ReplayCloses walks forward from oldest, applying each daily delta.
// The result has len(deltas)+1 closes.
func ReplayCloses(oldest float64, deltas []float64) []float64 {
	closes := make([]float64, len(deltas)+1)
	closes[0] = oldest
	for i, d := range deltas {
		closes[i+1] = closes[i] * (1 + d)
	}
	return closes
}

func checkPrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: price %v must be a positive finite number", ErrInvalidInput, v)
	}
	return nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
