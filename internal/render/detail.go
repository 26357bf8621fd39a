package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"StockAnalyst/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(14)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	holdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// DetailRenderer draws the full view of one analyzed instrument.
type DetailRenderer struct {
	Width int
}

func NewDetailRenderer() *DetailRenderer { return &DetailRenderer{Width: 72} }

func (d *DetailRenderer) Render(w io.Writer, a model.AnalyzedInstrument) error {
	width := d.Width
	if width <= 0 {
		width = 72
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s", a.Ticker, a.Name)))
	sb.WriteString("\n\n")

	change := fmt.Sprintf("%s (%s)", Signed(a.Change), Percent(a.ChangePercent))
	switch {
	case a.Change > 0:
		change = upStyle.Render(change)
	case a.Change < 0:
		change = downStyle.Render(change)
	}
	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	row("Price", Money(a.CurrentPrice)+"  "+change)
	row(fmt.Sprintf("%dd closes", len(a.Series.Points)), Sparkline(a.Series.Closes(), width-18))
	ind := a.Indicators
	row("MA20 / MA50", Money(ind.MA20)+" / "+Money(ind.MA50))
	row("RSI14", fmt.Sprintf("%.1f", ind.RSI14))
	row("30d range", fmt.Sprintf("%s - %s (%.0f%%)", Money(ind.Low30d), Money(ind.High30d), ind.Position30d*100))
	row("Avg volume", Volume(ind.AvgVolume20))
	row("Technical", fmt.Sprintf("%s (%+.2f)", a.Score.Bias, a.Score.TotalScore))
	if a.Score.Warning != "" {
		row("", holdStyle.Render(a.Score.Warning))
	}
	sb.WriteString("\n")

	rec := string(a.Analysis.Recommendation)
	if a.Analysis.Fallback {
		rec += " (fallback)"
	}
	row("Recommendation", recommendationStyle(a.Analysis.Recommendation).Render(rec))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Width(width - 4).Render(a.Analysis.Reasoning))

	_, err := fmt.Fprintln(w, panelStyle.Width(width).Render(sb.String()))
	return err
}

func recommendationStyle(r model.Recommendation) lipgloss.Style {
	switch r {
	case model.RecommendationBuy:
		return upStyle.Bold(true)
	case model.RecommendationSell:
		return downStyle.Bold(true)
	}
	return holdStyle.Bold(true)
}
