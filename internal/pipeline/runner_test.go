package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"StockAnalyst/internal/analyst"
	"StockAnalyst/internal/collector"
	"StockAnalyst/internal/model"
)

// tickerChat answers per ticker found in the user prompt; tickers in hang block until cancelled.
type tickerChat struct {
	replies map[string]string
	hang    map[string]bool
}

func (c *tickerChat) Generate(ctx context.Context, msgs []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	prompt := msgs[len(msgs)-1].Content
	for ticker := range c.hang {
		if strings.Contains(prompt, "history for "+ticker+" ") {
			<-ctx.Done()
			return nil, ctx.Err()
		}
	}
	for ticker, reply := range c.replies {
		if strings.Contains(prompt, "history for "+ticker+" ") {
			return &schema.Message{Role: schema.Assistant, Content: reply}, nil
		}
	}
	return nil, errors.New("unexpected prompt")
}

func newCollector(seed uint64) *collector.Collector {
	return collector.NewCollector(collector.NewAnchorWalk(collector.DefaultWalkConfig(), rand.New(rand.NewPCG(seed, seed+1))), nil)
}

// fixedAnalyst returns a preset result per ticker.
type fixedAnalyst map[string]model.AnalysisResult

func (f fixedAnalyst) Analyze(_ context.Context, ticker string, _ model.PriceSeries) model.AnalysisResult {
	return f[ticker]
}

func TestRun_EndToEndWithTimeout(t *testing.T) {
	instruments := []model.Instrument{
		{Ticker: "AAA", Name: "Alpha", AnchorPrice: 100},
		{Ticker: "BBB", Name: "Beta", AnchorPrice: 50},
		{Ticker: "CCC", Name: "Gamma", AnchorPrice: 200},
	}
	chat := &tickerChat{
		replies: map[string]string{
			"AAA": `{"recommendation":"BUY","reasoning":"Higher lows above the 50-day average."}`,
			"CCC": `{"recommendation":"SELL","reasoning":"Breakdown below support on rising volume."}`,
		},
		hang: map[string]bool{"BBB": true},
	}
	a := analyst.NewLLMAnalyst(chat, 50*time.Millisecond, 0.3, nil)
	r := NewRunner(instruments, newCollector(1), a, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Instruments) != 3 {
		t.Fatalf("expected 3 records, got %d", len(report.Instruments))
	}
	wantOrder := []string{"AAA", "BBB", "CCC"}
	wantRec := []model.Recommendation{model.RecommendationBuy, model.RecommendationHold, model.RecommendationSell}
	for i, rec := range report.Instruments {
		if rec.Ticker != wantOrder[i] || rec.Analysis.Recommendation != wantRec[i] {
			t.Errorf("position %d: expected %s/%s, got %s/%s", i, wantOrder[i], wantRec[i], rec.Ticker, rec.Analysis.Recommendation)
		}
		if rec.CurrentPrice != rec.AnchorPrice {
			t.Errorf("%s: current price %v should equal anchor %v", rec.Ticker, rec.CurrentPrice, rec.AnchorPrice)
		}
		if len(rec.Series.Points) != model.HistoryDays {
			t.Errorf("%s: expected %d points", rec.Ticker, model.HistoryDays)
		}
		prev := rec.Series.Points[len(rec.Series.Points)-2].Close
		if diff := rec.Change - (rec.CurrentPrice - prev); diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: change %v inconsistent with closes", rec.Ticker, rec.Change)
		}
	}
	timedOut := report.Instruments[1]
	if timedOut.Analysis.Reasoning != analyst.FallbackReasoning || !timedOut.Analysis.Fallback {
		t.Errorf("expected fallback reasoning, got %+v", timedOut.Analysis)
	}
	if !report.Partial {
		t.Error("expected partial run")
	}
	if !strings.HasPrefix(report.Summary(), "could not analyze all instruments") {
		t.Errorf("unexpected summary %q", report.Summary())
	}
	if len(report.Failures) != 1 || report.Failures[0].Ticker != "BBB" || report.Failures[0].Stage != model.StatusAnalyzing {
		t.Errorf("unexpected failures: %+v", report.Failures)
	}

	statuses := map[string]model.RunStatus{}
	for _, e := range r.Status() {
		statuses[e.Ticker] = e.Status
	}
	if statuses["AAA"] != model.StatusDone || statuses["BBB"] != model.StatusError || statuses["CCC"] != model.StatusDone {
		t.Errorf("unexpected statuses: %v", statuses)
	}
	if r.Last() != report {
		t.Error("expected Last to return the completed report")
	}
}

func TestSortByRecommendation(t *testing.T) {
	mk := func(ticker string, rec model.Recommendation) model.AnalyzedInstrument {
		return model.AnalyzedInstrument{
			Instrument: model.Instrument{Ticker: ticker},
			Analysis:   model.AnalysisResult{Recommendation: rec, Reasoning: "r"},
		}
	}
	items := []model.AnalyzedInstrument{
		mk("H", model.RecommendationHold),
		mk("S", model.RecommendationSell),
		mk("B1", model.RecommendationBuy),
		mk("B2", model.RecommendationBuy),
	}
	SortByRecommendation(items)
	want := []string{"B1", "B2", "H", "S"}
	for i, w := range want {
		if items[i].Ticker != w {
			t.Errorf("position %d: expected %s, got %s", i, w, items[i].Ticker)
		}
	}
}

func TestRun_GeneratorFailureIsolated(t *testing.T) {
	instruments := []model.Instrument{
		{Ticker: "OK1", AnchorPrice: 10},
		{Ticker: "BAD", AnchorPrice: 0},
		{Ticker: "OK2", AnchorPrice: 20},
	}
	a := fixedAnalyst{
		"OK1": {Recommendation: model.RecommendationSell, Reasoning: "weak"},
		"OK2": {Recommendation: model.RecommendationBuy, Reasoning: "strong"},
	}
	r := NewRunner(instruments, newCollector(2), a, nil)
	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Instruments) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Instruments))
	}
	if report.Instruments[0].Ticker != "OK2" || report.Instruments[1].Ticker != "OK1" {
		t.Errorf("unexpected order: %s, %s", report.Instruments[0].Ticker, report.Instruments[1].Ticker)
	}
	if !report.Partial || len(report.Failures) != 1 || report.Failures[0].Stage != model.StatusFetching {
		t.Errorf("unexpected failures: %+v", report.Failures)
	}
	if !strings.Contains(report.Failures[0].Error, collector.ErrInvalidInput.Error()) {
		t.Errorf("expected invalid input error, got %q", report.Failures[0].Error)
	}
	if !strings.Contains(report.Summary(), "1 of 3") {
		t.Errorf("unexpected summary %q", report.Summary())
	}
}

func TestRun_AllSucceed(t *testing.T) {
	instruments := []model.Instrument{{Ticker: "X", AnchorPrice: 5}, {Ticker: "Y", AnchorPrice: 6}}
	a := fixedAnalyst{
		"X": {Recommendation: model.RecommendationHold, Reasoning: "flat"},
		"Y": {Recommendation: model.RecommendationHold, Reasoning: "flat"},
	}
	report, err := NewRunner(instruments, newCollector(3), a, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Partial || len(report.Failures) != 0 {
		t.Errorf("did not expect partial run: %+v", report.Failures)
	}
	if report.Instruments[0].Ticker != "X" {
		t.Error("expected ties to keep configured order")
	}
	if report.Instruments[0].Score.Bias == "" {
		t.Error("expected technical score to be filled")
	}
}

// gatedAnalyst blocks until release is closed.
type gatedAnalyst struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedAnalyst) Analyze(_ context.Context, _ string, _ model.PriceSeries) model.AnalysisResult {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return model.AnalysisResult{Recommendation: model.RecommendationBuy, Reasoning: "ok"}
}

func TestRun_InProgressAndStatusReset(t *testing.T) {
	instruments := []model.Instrument{{Ticker: "A", AnchorPrice: 1}, {Ticker: "B", AnchorPrice: 2}}
	first := fixedAnalyst{
		"A": {Recommendation: model.RecommendationBuy, Reasoning: "x"},
		"B": {Recommendation: model.RecommendationBuy, Reasoning: "x"},
	}
	r := NewRunner(instruments, newCollector(4), first, nil)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	prev := r.Last()

	gate := &gatedAnalyst{entered: make(chan struct{}), release: make(chan struct{})}
	r.analyst = gate

	var seen []model.RunStatus
	var mu sync.Mutex
	r.OnStatus = func(ticker string, s model.RunStatus) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background())
		done <- err
	}()
	<-gate.entered

	if _, err := r.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress, got %v", err)
	}
	if !r.Running() {
		t.Error("expected Running to be true")
	}
	for _, e := range r.Status() {
		if e.Status == model.StatusDone {
			t.Errorf("%s: status carried over from previous run", e.Ticker)
		}
	}
	if r.Last() != prev {
		t.Error("previous report should stay visible during a run")
	}

	close(gate.release)
	if err := <-done; err != nil {
		t.Fatalf("second run: %v", err)
	}
	if r.Last() == prev {
		t.Error("expected a new report after the second run")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 || seen[0] != model.StatusFetching {
		t.Errorf("expected hook to observe fetching first, got %v", seen)
	}
}

func TestStart_ReservesBeforeReturning(t *testing.T) {
	instruments := []model.Instrument{{Ticker: "A", AnchorPrice: 1}, {Ticker: "B", AnchorPrice: 2}}
	gate := &gatedAnalyst{entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRunner(instruments, newCollector(5), gate, nil)

	done, err := r.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Running() {
		t.Error("expected Running to be true as soon as Start returns")
	}
	if _, err := r.Start(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress from second Start, got %v", err)
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress from Run, got %v", err)
	}

	close(gate.release)
	report, ok := <-done
	if !ok || report == nil {
		t.Fatal("expected a report from Start")
	}
	if len(report.Instruments) != 2 || r.Last() != report {
		t.Errorf("unexpected report: %+v", report)
	}
	if r.Running() {
		t.Error("expected Running to be false after the report is delivered")
	}
	if _, ok := <-done; ok {
		t.Error("expected channel to be closed")
	}
}

func TestStatusBoard(t *testing.T) {
	var calls int
	b := NewStatusBoard([]string{"A", "B"}, func(string, model.RunStatus) { calls++ })
	if s, _ := b.Get("A"); s != model.StatusPending {
		t.Errorf("expected pending, got %s", s)
	}
	b.Set("B", model.StatusDone)
	b.Set("C", model.StatusError)
	snap := b.Snapshot()
	if len(snap) != 3 || snap[1].Status != model.StatusDone || snap[2].Ticker != "C" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if calls != 2 {
		t.Errorf("expected 2 hook calls, got %d", calls)
	}
	counts := b.Counts()
	if counts[model.StatusPending] != 1 || counts[model.StatusDone] != 1 || counts[model.StatusError] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if _, ok := b.Get("Z"); ok {
		t.Error("did not expect Z")
	}
}
