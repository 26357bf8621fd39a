package collector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"StockAnalyst/internal/model"
)

// RangeWalk generates a forward walk that starts somewhere inside the
// instrument's plausible price range and drifts with a per-series trend.
type RangeWalk struct {
	cfg WalkConfig
	rng *lockedRand
	Now func() time.Time
}

// NewRangeWalk creates a range-mode generator. A nil r seeds from the runtime.
func NewRangeWalk(cfg WalkConfig, r *rand.Rand) *RangeWalk {
	return &RangeWalk{cfg: cfg, rng: newLockedRand(r), Now: time.Now}
}

func (w *RangeWalk) Name() string { return "range-walk" }

func (w *RangeWalk) FetchDailyBars(ctx context.Context, inst model.Instrument, days int) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := inst.PriceRange
	if !r.Valid() {
		return nil, fmt.Errorf("%s: %w: price range [%v, %v]", inst.Ticker, ErrInvalidInput, r.Low, r.High)
	}
	if err := checkPrice(r.High); err != nil {
		return nil, fmt.Errorf("%s: %w", inst.Ticker, err)
	}
	if days < 1 {
		return nil, fmt.Errorf("%s: %w: days must be positive, got %d", inst.Ticker, ErrInvalidInput, days)
	}

	price := w.rng.between(r.Low, r.High)
	vol := w.rng.between(w.cfg.RangeVolatilityMin, w.cfg.RangeVolatilityMax)
	drift := (w.rng.Float64() - 0.5) * w.cfg.DriftBand

	// The newest point is yesterday.
	today := midnight(w.Now())
	points := make([]model.PricePoint, days)
	for i := range points {
		open := price
		next := open * (1 + (w.rng.Float64()-0.5)*vol + drift)
		date := today.AddDate(0, 0, i-days)
		points[i] = candle(w.rng, date, open, next, vol, 0.5, w.rng.volume(w.cfg.VolumeMin, w.cfg.VolumeMax))
		price = next
	}
	return points, nil
}
