package strategy

import (
	"testing"

	"StockAnalyst/internal/model"
)

func findFactor(sc model.TechnicalScore, name string) model.FactorScore {
	for _, f := range sc.Factors {
		if f.Name == name {
			return f
		}
	}
	return model.FactorScore{}
}

func TestEvaluate_NormalMarket(t *testing.T) {
	ind := model.Indicators{
		CurrentPrice: 100,
		MA20:         99.5,
		MA50:         100,
		RSI14:        50,
		High30d:      105,
		Low30d:       95,
		Position30d:  0.5,
	}
	sc := Evaluate(ind)
	if len(sc.Factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(sc.Factors))
	}
	if sc.Bias != "neutral" {
		t.Errorf("expected neutral bias, got %q (total=%.3f)", sc.Bias, sc.TotalScore)
	}
	if sc.Warning != "" {
		t.Errorf("unexpected warning: %s", sc.Warning)
	}
}

func TestEvaluate_ExtremeOversold(t *testing.T) {
	ind := model.Indicators{
		CurrentPrice: 80,
		MA20:         88,
		MA50:         95,
		RSI14:        22,
		High30d:      96,
		Low30d:       80,
		Position30d:  0,
	}
	sc := Evaluate(ind)
	if sc.TotalScore < 1.2 {
		t.Errorf("expected high score for oversold series, got %.3f", sc.TotalScore)
	}
	if sc.Bias != "strong accumulate" {
		t.Errorf("expected strong accumulate, got %q", sc.Bias)
	}
}

func TestEvaluate_ExtremeOverbought(t *testing.T) {
	ind := model.Indicators{
		CurrentPrice: 130,
		MA20:         120,
		MA50:         110,
		RSI14:        90,
		High30d:      130,
		Low30d:       115,
		Position30d:  1.0,
	}
	sc := Evaluate(ind)
	if sc.TotalScore > -0.5 {
		t.Errorf("expected negative score for overbought series, got %.3f", sc.TotalScore)
	}
	if sc.Warning == "" {
		t.Error("expected overbought warning for RSI > 85")
	}
}

func TestMapBias_AllBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		label string
	}{
		{2.0, "strong accumulate"},
		{1.2, "strong accumulate"},
		{1.0, "accumulate"},
		{0.5, "accumulate"},
		{0.0, "neutral"},
		{-0.5, "neutral"},
		{-1.0, "cautious"},
		{-1.2, "cautious"},
		{-1.3, "strong caution"},
	}
	for _, tt := range tests {
		if got := mapBias(tt.score); got != tt.label {
			t.Errorf("score %.1f: expected %q, got %q", tt.score, tt.label, got)
		}
	}
}

func TestPosition_NonlinearLogic(t *testing.T) {
	// Near the top of the range, other factors mild: capped at -1.
	mild := model.Indicators{
		CurrentPrice: 130,
		MA20:         128,
		MA50:         125,
		RSI14:        55,
		High30d:      131,
		Low30d:       110,
		Position30d:  0.99,
	}
	if f := findFactor(Evaluate(mild), "30d position"); f.RawScore != -1.0 {
		t.Errorf("expected position capped at -1, got %.1f", f.RawScore)
	}

	// Other factors already stretched: full -2.
	hot := model.Indicators{
		CurrentPrice: 130,
		MA20:         135,
		MA50:         110,
		RSI14:        90,
		High30d:      131,
		Low30d:       110,
		Position30d:  0.99,
	}
	sc := Evaluate(hot)
	if f := findFactor(sc, "30d position"); f.RawScore != -2.0 {
		t.Errorf("expected position -2 when other factors avg < -1, got %.1f (total=%.3f)", f.RawScore, sc.TotalScore)
	}
}

func TestTrend_BullBear(t *testing.T) {
	bull := model.Indicators{CurrentPrice: 110, MA20: 105, MA50: 100, RSI14: 50, High30d: 110, Low30d: 98}
	if f := findFactor(Evaluate(bull), "Trend"); f.RawScore < 1.0 {
		t.Errorf("expected bullish trend score >= 1.0, got %.1f", f.RawScore)
	}

	bear := model.Indicators{CurrentPrice: 90, MA20: 95, MA50: 100, RSI14: 50, High30d: 102, Low30d: 90}
	if f := findFactor(Evaluate(bear), "Trend"); f.RawScore > -0.5 {
		t.Errorf("expected bearish trend score <= -0.5, got %.1f", f.RawScore)
	}

	if f := findFactor(Evaluate(model.Indicators{}), "Trend"); f.RawScore != 0 {
		t.Errorf("expected zero trend for empty indicators, got %.1f", f.RawScore)
	}
}

func TestMA50Deviation_Unavailable(t *testing.T) {
	f := findFactor(Evaluate(model.Indicators{CurrentPrice: 10}), "MA50 deviation")
	if f.Weighted != 0 || f.Commentary != "MA50 unavailable" {
		t.Errorf("unexpected factor for missing MA50: %+v", f)
	}
}
