package analyst

import (
	"encoding/json"
	"fmt"
	"strings"

	"StockAnalyst/internal/model"
)

const systemPrompt = `You are an experienced equity technical analyst.
Reply with a single JSON object and nothing else, using exactly this shape:
{"recommendation": "BUY" | "SELL" | "HOLD", "reasoning": "<one concise paragraph>"}`

// focusAreas are the aspects the model is asked to weigh.
var focusAreas = []string{
	"Overall trend: is the stock in an uptrend, a downtrend or moving sideways?",
	"Chart patterns such as head and shoulders, double tops or bottoms, flags and pennants.",
	"Moving averages: where the price sits against its 20-day and 50-day averages, and any crossovers.",
	"Momentum: estimate the RSI and whether the stock looks overbought or oversold.",
	"Support and resistance levels visible in the history.",
	"Volume: whether volume confirms or contradicts recent price moves.",
}

// BuildPrompt renders the user message for ticker with its full series embedded as JSON.
func BuildPrompt(ticker string, series model.PriceSeries) (string, error) {
	data, err := json.Marshal(series.Points)
	if err != nil {
		return "", fmt.Errorf("encode series: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze the following %d-day daily price history for %s and give a short-term trading recommendation.\n\n",
		len(series.Points), ticker)
	sb.WriteString("Consider:\n")
	for i, f := range focusAreas {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, f)
	}
	sb.WriteString("\nBase the recommendation only on the data below. ")
	sb.WriteString("Keep the reasoning to one paragraph that names the signals that decided it.\n\n")
	sb.WriteString("Price history (JSON, oldest first):\n")
	sb.Write(data)
	sb.WriteString("\n")
	return sb.String(), nil
}
