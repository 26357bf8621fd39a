package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"StockAnalyst/internal/model"
)

func TestObserveRun(t *testing.T) {
	m := New()
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.ObserveRun(&model.RunReport{
		StartedAt:  start,
		FinishedAt: start.Add(4 * time.Second),
		Instruments: []model.AnalyzedInstrument{
			{Analysis: model.AnalysisResult{Recommendation: model.RecommendationBuy}},
			{Analysis: model.AnalysisResult{Recommendation: model.RecommendationHold, Fallback: true}},
		},
		Failures: []model.InstrumentFailure{
			{Ticker: "B", Stage: model.StatusAnalyzing},
			{Ticker: "C", Stage: model.StatusFetching},
		},
		Partial: true,
	})
	m.ObserveRun(nil)
	m.ObserveRejected()

	if got := testutil.ToFloat64(m.runsTotal); got != 1 {
		t.Errorf("expected 1 run, got %v", got)
	}
	if got := testutil.ToFloat64(m.recommendations.WithLabelValues("BUY", "false")); got != 1 {
		t.Errorf("expected 1 BUY, got %v", got)
	}
	if got := testutil.ToFloat64(m.recommendations.WithLabelValues("HOLD", "true")); got != 1 {
		t.Errorf("expected 1 fallback HOLD, got %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("fetching")); got != 1 {
		t.Errorf("expected 1 fetching failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.instrumentsLast); got != 2 {
		t.Errorf("expected 2 instruments, got %v", got)
	}
	if got := testutil.ToFloat64(m.runsRejected); got != 1 {
		t.Errorf("expected 1 rejection, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRejected()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "stockanalyst_runs_rejected_total 1") {
		t.Errorf("unexpected metrics output:\n%s", body)
	}
}
