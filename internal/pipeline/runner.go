package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"StockAnalyst/internal/analyst"
	"StockAnalyst/internal/model"
	"StockAnalyst/internal/strategy"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("a run is already in progress")

// SeriesCollector produces the validated series and indicators for one instrument.
type SeriesCollector interface {
	Collect(ctx context.Context, inst model.Instrument) (*model.Snapshot, error)
}

// Runner fans out one generate-then-analyze task per instrument and joins them.
type Runner struct {
	instruments []model.Instrument
	collector   SeriesCollector
	analyst     analyst.Analyst
	logger      *zap.Logger

	// OnStatus, when set, observes every status transition of every run.
	OnStatus func(ticker string, status model.RunStatus)

	mu      sync.Mutex
	running bool
	board   *StatusBoard
	last    *model.RunReport
}

// NewRunner creates a Runner over instruments in their configured order.
func NewRunner(instruments []model.Instrument, c SeriesCollector, a analyst.Analyst, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	tickers := make([]string, len(instruments))
	for i, inst := range instruments {
		tickers[i] = inst.Ticker
	}
	return &Runner{
		instruments: append([]model.Instrument(nil), instruments...),
		collector:   c,
		analyst:     a,
		logger:      logger,
		board:       NewStatusBoard(tickers, nil),
	}
}

// Instruments returns the configured instruments.
func (r *Runner) Instruments() []model.Instrument {
	return append([]model.Instrument(nil), r.instruments...)
}

// Run executes one full pass. The previous report stays available through Last
// until this one completes.
func (r *Runner) Run(ctx context.Context) (*model.RunReport, error) {
	board, err := r.reserve()
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, board), nil
}

// Start reserves the run slot and executes the pass in a new goroutine. The
// returned channel yields the report once and is then closed.
func (r *Runner) Start(ctx context.Context) (<-chan *model.RunReport, error) {
	board, err := r.reserve()
	if err != nil {
		return nil, err
	}
	done := make(chan *model.RunReport, 1)
	go func() {
		defer close(done)
		done <- r.execute(ctx, board)
	}()
	return done, nil
}

// reserve marks the runner busy and installs a fresh status board.
func (r *Runner) reserve() (*StatusBoard, error) {
	tickers := make([]string, len(r.instruments))
	for i, inst := range r.instruments {
		tickers[i] = inst.Ticker
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil, ErrRunInProgress
	}
	r.running = true
	r.board = NewStatusBoard(tickers, r.OnStatus)
	return r.board, nil
}

func (r *Runner) execute(ctx context.Context, board *StatusBoard) *model.RunReport {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	report := &model.RunReport{
		ID:          uuid.New(),
		StartedAt:   time.Now(),
		Instruments: make([]model.AnalyzedInstrument, 0, len(r.instruments)),
	}
	log := r.logger.With(zap.String("run_id", report.ID.String()))
	log.Info("run started", zap.Int("instruments", len(r.instruments)))

	results := make([]*model.AnalyzedInstrument, len(r.instruments))
	failures := make([]*model.InstrumentFailure, len(r.instruments))

	var wg sync.WaitGroup
	for i, inst := range r.instruments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], failures[i] = r.process(ctx, inst, board, log)
		}()
	}
	wg.Wait()

	for i := range r.instruments {
		if results[i] != nil {
			report.Instruments = append(report.Instruments, *results[i])
		}
		if failures[i] != nil {
			report.Failures = append(report.Failures, *failures[i])
		}
	}
	SortByRecommendation(report.Instruments)
	report.Partial = len(report.Failures) > 0
	report.FinishedAt = time.Now()

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	log.Info("run finished",
		zap.Int("analyzed", len(report.Instruments)),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", report.Duration()))
	return report
}

func (r *Runner) process(ctx context.Context, inst model.Instrument, board *StatusBoard, log *zap.Logger) (rec *model.AnalyzedInstrument, failure *model.InstrumentFailure) {
	log = log.With(zap.String("ticker", inst.Ticker))
	stage := model.StatusFetching

	defer func() {
		if p := recover(); p != nil {
			log.Error("instrument task panicked", zap.Any("panic", p))
			board.Set(inst.Ticker, model.StatusError)
			rec = nil
			failure = &model.InstrumentFailure{Ticker: inst.Ticker, Stage: stage, Error: fmt.Sprint(p)}
		}
	}()

	board.Set(inst.Ticker, model.StatusFetching)
	snap, err := r.collector.Collect(ctx, inst)
	if err != nil {
		log.Warn("series generation failed", zap.Error(err))
		board.Set(inst.Ticker, model.StatusError)
		return nil, &model.InstrumentFailure{Ticker: inst.Ticker, Stage: stage, Error: err.Error()}
	}

	stage = model.StatusAnalyzing
	board.Set(inst.Ticker, model.StatusAnalyzing)
	result := r.analyst.Analyze(ctx, inst.Ticker, snap.Series)

	change, pct := snap.Series.Change()
	rec = &model.AnalyzedInstrument{
		Instrument:    inst,
		CurrentPrice:  snap.Indicators.CurrentPrice,
		Change:        change,
		ChangePercent: pct,
		Analysis:      result,
		Indicators:    snap.Indicators,
		Score:         strategy.Evaluate(snap.Indicators),
		Series:        snap.Series,
	}

	if result.Fallback {
		board.Set(inst.Ticker, model.StatusError)
		return rec, &model.InstrumentFailure{Ticker: inst.Ticker, Stage: stage, Error: "analysis unavailable, defaulted to HOLD"}
	}
	board.Set(inst.Ticker, model.StatusDone)
	log.Debug("instrument analyzed", zap.String("recommendation", string(result.Recommendation)))
	return rec, nil
}

// Status returns the live status map of the current or most recent run.
func (r *Runner) Status() []StatusEntry {
	r.mu.Lock()
	board := r.board
	r.mu.Unlock()
	return board.Snapshot()
}

// Running reports whether a run is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Last returns the most recent completed report, or nil.
func (r *Runner) Last() *model.RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
