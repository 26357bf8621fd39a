package collector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"StockAnalyst/internal/model"
)

// AnchorWalk generates a history whose newest close equals the instrument's anchor price.
// It walks backward from the anchor with zero-mean daily moves.
type AnchorWalk struct {
	cfg WalkConfig
	rng *lockedRand
	// Now stamps the newest point; defaults to time.Now.
	Now func() time.Time
}

// NewAnchorWalk creates an anchor-mode generator. A nil r seeds from the runtime.
func NewAnchorWalk(cfg WalkConfig, r *rand.Rand) *AnchorWalk {
	return &AnchorWalk{cfg: cfg, rng: newLockedRand(r), Now: time.Now}
}

func (a *AnchorWalk) Name() string { return "anchor-walk" }

func (a *AnchorWalk) FetchDailyBars(ctx context.Context, inst model.Instrument, days int) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	points, _, err := a.Walk(inst.AnchorPrice, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inst.Ticker, err)
	}
	return points, nil
}

// Walk returns days points ending at anchor, oldest first, and the days-1
// chronological close-to-close deltas that ReplayCloses turns back into the closes.
func (a *AnchorWalk) Walk(anchor float64, days int) ([]model.PricePoint, []float64, error) {
	if err := checkPrice(anchor); err != nil {
		return nil, nil, err
	}
	if days < 1 {
		return nil, nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidInput, days)
	}

	vol := a.rng.between(a.cfg.VolatilityMin, a.cfg.VolatilityMax)

	closes := make([]float64, days)
	deltas := make([]float64, days-1)
	closes[days-1] = anchor
	for i := days - 2; i >= 0; i-- {
		d := (a.rng.Float64() - 0.5) * vol
		deltas[i] = d
		closes[i] = closes[i+1] / (1 + d)
	}

	today := midnight(a.Now())
	points := make([]model.PricePoint, days)
	for i, c := range closes {
		open := c * (1 + (a.rng.Float64()-0.5)*vol/2)
		date := today.AddDate(0, 0, i-(days-1))
		points[i] = candle(a.rng, date, open, c, vol, 0.25, a.rng.volume(a.cfg.VolumeMin, a.cfg.VolumeMax))
	}
	return points, deltas, nil
}
