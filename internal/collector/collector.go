package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StockAnalyst/internal/calculator"
	"StockAnalyst/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.PricePoint
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, inst model.Instrument, days int) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	price := m.Price
	if price == 0 {
		price = inst.AnchorPrice
	}
	return generateMockBars(price, days), nil
}

// generateMockBars produces a gentle ramp ending at basePrice on today's date.
func generateMockBars(basePrice float64, count int) []model.PricePoint {
	today := midnight(time.Now())
	bars := make([]model.PricePoint, count)
	for i := range bars {
		p := basePrice * (1 + float64(i-(count-1))*0.001)
		bars[i] = model.PricePoint{
			Date:   today.AddDate(0, 0, i-(count-1)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1_000_000,
		}
	}
	return bars
}

// Collector orchestrates history generation and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Days    int
	logger  *zap.Logger
}

// NewCollector creates a Collector producing model.HistoryDays points per instrument.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Days: model.HistoryDays, logger: logger}
}

// Collect generates the series for inst, validates it and computes all indicators.
func (c *Collector) Collect(ctx context.Context, inst model.Instrument) (*model.Snapshot, error) {
	points, err := c.Fetcher.FetchDailyBars(ctx, inst, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(points) != c.Days {
		return nil, fmt.Errorf("%w: %s expected %d points, got %d", model.ErrInvalidSeries, inst.Ticker, c.Days, len(points))
	}
	series := model.PriceSeries{
		Symbol:      inst.Ticker,
		Points:      points,
		Source:      c.Fetcher.Name(),
		GeneratedAt: time.Now(),
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return &model.Snapshot{Series: series, Indicators: c.indicators(inst.Ticker, points)}, nil
}

func (c *Collector) indicators(ticker string, points []model.PricePoint) model.Indicators {
	log := c.logger.With(zap.String("ticker", ticker))
	current := points[len(points)-1].Close
	ind := model.Indicators{CurrentPrice: current}

	if ma, err := calculator.CalculateMA20(points); err != nil {
		log.Warn("MA20 calculation failed, using current price", zap.Error(err))
		ind.MA20 = current
	} else {
		ind.MA20 = ma
	}

	if ma, err := calculator.CalculateMA50(points); err != nil {
		log.Warn("MA50 calculation failed, using current price", zap.Error(err))
		ind.MA50 = current
	} else {
		ind.MA50 = ma
	}

	if rsi, err := calculator.CalculateRSI(points, 14); err != nil {
		log.Warn("RSI calculation failed, defaulting to 50", zap.Error(err))
		ind.RSI14 = 50
	} else {
		ind.RSI14 = rsi
	}

	if h, l, err := calculator.Calculate30DayRange(points); err != nil {
		log.Warn("30-day range calculation failed", zap.Error(err))
		ind.High30d, ind.Low30d = current, current
	} else {
		ind.High30d, ind.Low30d = h, l
	}

	if pos, err := calculator.CalculatePosition(current, ind.High30d, ind.Low30d); err != nil {
		log.Warn("30-day position calculation failed", zap.Error(err))
		ind.Position30d = 0.5
	} else {
		ind.Position30d = pos
	}

	if v, err := calculator.CalculateAverageVolume(points, 20); err != nil {
		log.Warn("average volume calculation failed", zap.Error(err))
	} else {
		ind.AvgVolume20 = v
	}

	return ind
}
