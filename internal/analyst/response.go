package analyst

import (
	"encoding/json"
	"fmt"
	"strings"

	"StockAnalyst/internal/model"
)

type analysisReply struct {
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`
}

// ParseResponse decodes and validates a model reply.
// Code fences and text around the JSON object are tolerated.
func ParseResponse(raw string) (model.AnalysisResult, error) {
	body := extractJSON(raw)
	if body == "" {
		return model.AnalysisResult{}, fmt.Errorf("%w: no JSON object in reply", ErrMalformedResponse)
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	rec, ok := model.ParseRecommendation(reply.Recommendation)
	if !ok {
		return model.AnalysisResult{}, fmt.Errorf("%w: recommendation %q", ErrMalformedResponse, reply.Recommendation)
	}
	reasoning := strings.TrimSpace(reply.Reasoning)
	if reasoning == "" {
		return model.AnalysisResult{}, fmt.Errorf("%w: empty reasoning", ErrMalformedResponse)
	}
	return model.AnalysisResult{Recommendation: rec, Reasoning: reasoning}, nil
}

func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
