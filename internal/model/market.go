package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// HistoryDays is the number of daily points in every generated series.
const HistoryDays = 90

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// ErrInvalidSeries is returned when a series breaks an OHLC or ordering invariant.
var ErrInvalidSeries = errors.New("invalid price series")

// PricePoint represents a single daily candlestick.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

type pricePointJSON struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// MarshalJSON writes the date as YYYY-MM-DD.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(pricePointJSON{
		Date:   p.Date.Format(DateLayout),
		Open:   p.Open,
		High:   p.High,
		Low:    p.Low,
		Close:  p.Close,
		Volume: p.Volume,
	})
}

// UnmarshalJSON accepts the format written by MarshalJSON.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw pricePointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", raw.Date, err)
	}
	*p = PricePoint{Date: d, Open: raw.Open, High: raw.High, Low: raw.Low, Close: raw.Close, Volume: raw.Volume}
	return nil
}

// Check verifies the OHLC invariants of a single point.
func (p PricePoint) Check() error {
	for _, v := range []float64{p.Open, p.High, p.Low, p.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: non-positive price on %s", ErrInvalidSeries, p.Date.Format(DateLayout))
		}
	}
	if p.High < math.Max(p.Open, p.Close) {
		return fmt.Errorf("%w: high below body on %s", ErrInvalidSeries, p.Date.Format(DateLayout))
	}
	if p.Low > math.Min(p.Open, p.Close) {
		return fmt.Errorf("%w: low above body on %s", ErrInvalidSeries, p.Date.Format(DateLayout))
	}
	if p.Volume < 0 {
		return fmt.Errorf("%w: negative volume on %s", ErrInvalidSeries, p.Date.Format(DateLayout))
	}
	return nil
}

// PriceSeries holds the daily history of one instrument, oldest point first.
type PriceSeries struct {
	Symbol      string       `json:"symbol"`
	Points      []PricePoint `json:"points"`
	Source      string       `json:"source,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// Validate checks every point and the strict date ordering.
func (s PriceSeries) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("%w: %s has no points", ErrInvalidSeries, s.Symbol)
	}
	for i, p := range s.Points {
		if err := p.Check(); err != nil {
			return fmt.Errorf("%s: %w", s.Symbol, err)
		}
		if i > 0 && !p.Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("%w: %s dates not increasing at index %d", ErrInvalidSeries, s.Symbol, i)
		}
	}
	return nil
}

// Last returns the newest point.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Previous returns the second-newest point.
func (s PriceSeries) Previous() (PricePoint, bool) {
	if len(s.Points) < 2 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-2], true
}

// Closes extracts the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Change returns the last close minus the previous close, absolute and in percent.
func (s PriceSeries) Change() (abs, pct float64) {
	last, ok := s.Last()
	if !ok {
		return 0, 0
	}
	prev, ok := s.Previous()
	if !ok || prev.Close == 0 {
		return 0, 0
	}
	abs = last.Close - prev.Close
	return abs, abs / prev.Close * 100
}
