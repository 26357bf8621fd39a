package analyst

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"StockAnalyst/internal/model"
)

var (
	// ErrRemoteCall covers transport failures, timeouts and empty replies from the model.
	ErrRemoteCall = errors.New("analysis request failed")
	// ErrMalformedResponse means the reply could not be decoded or failed validation.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// FallbackReasoning is returned with the HOLD default whenever analysis fails.
const FallbackReasoning = "Could not retrieve analysis due to an API error. Defaulting to HOLD."

// FallbackResult is the safe default used in place of a failed analysis.
func FallbackResult() model.AnalysisResult {
	return model.AnalysisResult{
		Recommendation: model.RecommendationHold,
		Reasoning:      FallbackReasoning,
		Fallback:       true,
	}
}

// Analyst turns a price series into a recommendation. Implementations never fail:
// any error is collapsed into FallbackResult.
type Analyst interface {
	Analyze(ctx context.Context, ticker string, series model.PriceSeries) model.AnalysisResult
}

// ChatGenerator is the part of an eino chat model used here.
type ChatGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// LLMAnalyst asks a chat model for a structured recommendation.
type LLMAnalyst struct {
	model       ChatGenerator
	timeout     time.Duration
	temperature float32
	logger      *zap.Logger
}

// NewLLMAnalyst wraps m. A zero timeout leaves the caller's deadline in charge.
func NewLLMAnalyst(m ChatGenerator, timeout time.Duration, temperature float32, logger *zap.Logger) *LLMAnalyst {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAnalyst{model: m, timeout: timeout, temperature: temperature, logger: logger}
}

// Analyze implements Analyst.
func (a *LLMAnalyst) Analyze(ctx context.Context, ticker string, series model.PriceSeries) model.AnalysisResult {
	res, err := a.Request(ctx, ticker, series)
	if err != nil {
		a.logger.Warn("analysis failed, defaulting to HOLD", zap.String("ticker", ticker), zap.Error(err))
		return FallbackResult()
	}
	return res
}

// Request performs one reasoning call and returns its validated result or an
// error wrapping ErrRemoteCall or ErrMalformedResponse.
func (a *LLMAnalyst) Request(ctx context.Context, ticker string, series model.PriceSeries) (model.AnalysisResult, error) {
	prompt, err := BuildPrompt(ticker, series)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}, einomodel.WithTemperature(a.temperature))
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return model.AnalysisResult{}, fmt.Errorf("%w: empty reply", ErrRemoteCall)
	}
	a.logger.Debug("analysis reply received",
		zap.String("ticker", ticker),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(resp.Content)))

	return ParseResponse(resp.Content)
}
