package analyst

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"StockAnalyst/internal/model"
)

type fakeChat struct {
	reply    string
	err      error
	block    bool
	calls    int
	lastMsgs []*schema.Message
	lastOpts *einomodel.Options
}

func (f *fakeChat) Generate(ctx context.Context, msgs []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	f.lastMsgs = msgs
	f.lastOpts = einomodel.GetCommonOptions(nil, opts...)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func testSeries(ticker string) model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, 3)
	for i := range pts {
		p := 100 + float64(i)
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1_000_000}
	}
	return model.PriceSeries{Symbol: ticker, Points: pts}
}

func isFallback(r model.AnalysisResult) bool {
	return r.Recommendation == model.RecommendationHold && r.Reasoning == FallbackReasoning && r.Fallback
}

func TestAnalyze_WellFormedSell(t *testing.T) {
	fc := &fakeChat{reply: `{"recommendation":"SELL","reasoning":"Lower highs and RSI rolling over below 50."}`}
	a := NewLLMAnalyst(fc, time.Second, 0.3, nil)
	got := a.Analyze(context.Background(), "MSFT", testSeries("MSFT"))
	if got.Recommendation != model.RecommendationSell {
		t.Fatalf("expected SELL, got %s", got.Recommendation)
	}
	if got.Reasoning != "Lower highs and RSI rolling over below 50." || got.Fallback {
		t.Errorf("unexpected result: %+v", got)
	}
	if fc.calls != 1 {
		t.Errorf("expected one call, got %d", fc.calls)
	}
	if fc.lastOpts.Temperature == nil || *fc.lastOpts.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3")
	}
}

func TestAnalyze_FallbackCases(t *testing.T) {
	tests := []struct {
		name string
		chat *fakeChat
	}{
		{"remote error", &fakeChat{err: errors.New("connection reset")}},
		{"empty reply", &fakeChat{reply: "   "}},
		{"not json", &fakeChat{reply: "I think you should buy."}},
		{"missing recommendation", &fakeChat{reply: `{"reasoning":"looks fine"}`}},
		{"missing reasoning", &fakeChat{reply: `{"recommendation":"BUY"}`}},
		{"blank reasoning", &fakeChat{reply: `{"recommendation":"BUY","reasoning":"  "}`}},
		{"outside vocabulary", &fakeChat{reply: `{"recommendation":"STRONG BUY","reasoning":"moon"}`}},
		{"truncated", &fakeChat{reply: `{"recommendation":"BUY","reas`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewLLMAnalyst(tt.chat, time.Second, 0.3, nil)
			got := a.Analyze(context.Background(), "AAPL", testSeries("AAPL"))
			if !isFallback(got) {
				t.Errorf("expected fallback HOLD, got %+v", got)
			}
		})
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	a := NewLLMAnalyst(&fakeChat{block: true}, 20*time.Millisecond, 0.3, nil)
	start := time.Now()
	got := a.Analyze(context.Background(), "NVDA", testSeries("NVDA"))
	if !isFallback(got) {
		t.Fatalf("expected fallback on timeout, got %+v", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout not enforced")
	}
}

func TestRequest_ErrorKinds(t *testing.T) {
	a := NewLLMAnalyst(&fakeChat{block: true}, 10*time.Millisecond, 0.3, nil)
	_, err := a.Request(context.Background(), "X", testSeries("X"))
	if !errors.Is(err, ErrRemoteCall) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected ErrRemoteCall wrapping deadline, got %v", err)
	}

	a = NewLLMAnalyst(&fakeChat{reply: "nope"}, time.Second, 0.3, nil)
	_, err = a.Request(context.Background(), "X", testSeries("X"))
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestRequest_UnencodableSeries(t *testing.T) {
	fc := &fakeChat{reply: `{"recommendation":"BUY","reasoning":"ok"}`}
	a := NewLLMAnalyst(fc, time.Second, 0.3, nil)
	series := testSeries("X")
	series.Points[1].Close = math.NaN()

	_, err := a.Request(context.Background(), "X", series)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
	if fc.calls != 0 {
		t.Errorf("expected no model call, got %d", fc.calls)
	}
	if res := a.Analyze(context.Background(), "X", series); !isFallback(res) {
		t.Errorf("expected fallback, got %+v", res)
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Recommendation
	}{
		{"plain", `{"recommendation":"BUY","reasoning":"breakout"}`, model.RecommendationBuy},
		{"fenced", "```json\n{\"recommendation\":\"HOLD\",\"reasoning\":\"sideways\"}\n```", model.RecommendationHold},
		{"lower case", `{"recommendation":" sell ","reasoning":"breakdown"}`, model.RecommendationSell},
		{"prose around", `Here you go: {"recommendation":"BUY","reasoning":"x"} hope it helps`, model.RecommendationBuy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Recommendation != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Recommendation)
			}
			if got.Reasoning == "" {
				t.Error("expected reasoning")
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	series := testSeries("GOOGL")
	prompt, err := BuildPrompt("GOOGL", series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"GOOGL", "3-day", "20-day and 50-day", "RSI", "Support and resistance", "Volume", `"date":"2025-01-03"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyze_SendsSystemAndUserMessages(t *testing.T) {
	fc := &fakeChat{reply: `{"recommendation":"HOLD","reasoning":"flat"}`}
	NewLLMAnalyst(fc, 0, 0.3, nil).Analyze(context.Background(), "PEP", testSeries("PEP"))
	if len(fc.lastMsgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(fc.lastMsgs))
	}
	if fc.lastMsgs[0].Role != schema.System || !strings.Contains(fc.lastMsgs[0].Content, `"recommendation"`) {
		t.Errorf("unexpected system message: %+v", fc.lastMsgs[0])
	}
	if fc.lastMsgs[1].Role != schema.User || !strings.Contains(fc.lastMsgs[1].Content, "PEP") {
		t.Errorf("unexpected user message: %+v", fc.lastMsgs[1])
	}
}
