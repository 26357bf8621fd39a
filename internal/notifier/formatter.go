package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockAnalyst/internal/model"
	"StockAnalyst/internal/pipeline"
	"StockAnalyst/internal/render"
)

func recommendationIcon(r model.Recommendation) string {
	switch r {
	case model.RecommendationBuy:
		return "🟢"
	case model.RecommendationSell:
		return "🔴"
	}
	return "🟡"
}

// FormatRunReport formats a completed run into a Telegram message, one line per instrument.
func FormatRunReport(report *model.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>StockAnalyst</b> | %s\n\n", report.FinishedAt.Format("2006-01-02 15:04"))

	for _, a := range report.Instruments {
		rec := string(a.Analysis.Recommendation)
		if a.Analysis.Fallback {
			rec += "*"
		}
		fmt.Fprintf(&b, "%s <b>%s</b> %s (%s) %s\n",
			recommendationIcon(a.Analysis.Recommendation),
			html.EscapeString(a.Ticker),
			render.Money(a.CurrentPrice),
			render.Percent(a.ChangePercent),
			rec)
	}

	b.WriteString("\n")
	b.WriteString(html.EscapeString(report.Summary()))
	b.WriteString("\n")
	if report.Partial {
		b.WriteString("* analysis unavailable, defaulted to HOLD\n")
	}
	b.WriteString("\n/show TICKER for details")
	return b.String()
}

// FormatInstrumentDetail formats one instrument with its reasoning.
func FormatInstrumentDetail(a model.AnalyzedInstrument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b> %s\n\n",
		recommendationIcon(a.Analysis.Recommendation),
		html.EscapeString(a.Ticker),
		html.EscapeString(a.Name))
	fmt.Fprintf(&b, "Price: %s (%s, %s)\n", render.Money(a.CurrentPrice), render.Signed(a.Change), render.Percent(a.ChangePercent))
	fmt.Fprintf(&b, "Trend: %s\n", render.Sparkline(a.Series.Closes(), 30))

	ind := a.Indicators
	fmt.Fprintf(&b, "MA20: %s | MA50: %s\n", render.Money(ind.MA20), render.Money(ind.MA50))
	fmt.Fprintf(&b, "RSI14: %.0f | 30d: %s - %s\n", ind.RSI14, render.Money(ind.Low30d), render.Money(ind.High30d))

	if len(a.Score.Factors) > 0 {
		b.WriteString("\n📈 <b>Technical factors:</b>\n")
		for _, f := range a.Score.Factors {
			fmt.Fprintf(&b, "  %s (%s): %+.1f ×%.2f = %+.3f\n",
				html.EscapeString(f.Name), html.EscapeString(f.Commentary), f.RawScore, f.Weight, f.Weighted)
		}
		fmt.Fprintf(&b, "  Total: %+.3f, %s\n", a.Score.TotalScore, html.EscapeString(a.Score.Bias))
	}
	if a.Score.Warning != "" {
		fmt.Fprintf(&b, "⚠️ %s\n", html.EscapeString(a.Score.Warning))
	}

	fmt.Fprintf(&b, "\n💡 <b>%s</b>\n%s", a.Analysis.Recommendation, html.EscapeString(a.Analysis.Reasoning))
	return b.String()
}

// FormatStatus formats the live status map.
func FormatStatus(entries []pipeline.StatusEntry, running bool, last *model.RunReport) string {
	var b strings.Builder
	if running {
		b.WriteString("🔄 <b>Run in progress</b>\n\n")
	} else {
		b.WriteString("📋 <b>Status</b>\n\n")
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", html.EscapeString(e.Ticker), e.Status.Label())
	}
	if last != nil {
		fmt.Fprintf(&b, "\nLast run: %s, %s", last.FinishedAt.Format("2006-01-02 15:04"), html.EscapeString(last.Summary()))
	}
	return b.String()
}
