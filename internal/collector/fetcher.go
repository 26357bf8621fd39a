package collector

import (
	"context"
	"errors"
	"fmt"

	"StockAnalyst/internal/model"
)

// ErrInvalidInput is returned when an instrument cannot seed a walk.
var ErrInvalidInput = errors.New("invalid generator input")

// Generator modes.
const (
	ModeAnchor = "anchor"
	ModeRange  = "range"
)

// Fetcher defines the interface for producing daily history of an instrument.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, inst model.Instrument, days int) ([]model.PricePoint, error)
	Name() string
}

// NewFetcher builds the history provider for mode.
func NewFetcher(mode string, cfg WalkConfig) (Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch mode {
	case "", ModeAnchor:
		return NewAnchorWalk(cfg, nil), nil
	case ModeRange:
		return NewRangeWalk(cfg, nil), nil
	}
	return nil, fmt.Errorf("unknown generator mode %q", mode)
}
