package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"StockAnalyst/internal/model"
)

type TableRenderer struct {
	// ReasoningWidth wraps the reasoning column; default 60.
	ReasoningWidth int
}

func NewTableRenderer() *TableRenderer { return &TableRenderer{ReasoningWidth: 60} }

func (r *TableRenderer) Render(w io.Writer, report *model.RunReport, opts Options) error {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"#", "TICKER", "NAME", "PRICE", "CHG", "CHG%", "RSI", "BIAS", "REC", "REASONING"})

	width := r.ReasoningWidth
	if width <= 0 {
		width = 60
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 10, WidthMax: width},
	})

	for i, a := range report.Instruments {
		chg, pct := Signed(a.Change), Percent(a.ChangePercent)
		rec := string(a.Analysis.Recommendation)
		if a.Analysis.Fallback {
			rec += "*"
		}
		if opts.Color {
			chg, pct = colorBySign(a.Change, chg), colorBySign(a.Change, pct)
			rec = recommendationColors(a.Analysis.Recommendation).Sprint(rec)
		}
		tw.AppendRow(table.Row{
			i + 1,
			a.Ticker,
			a.Name,
			Money(a.CurrentPrice),
			chg,
			pct,
			fmt.Sprintf("%.0f", a.Indicators.RSI14),
			a.Score.Bias,
			rec,
			a.Analysis.Reasoning,
		})
	}
	tw.Render()

	fmt.Fprintln(w)
	summary := report.Summary()
	if opts.Color && report.Partial {
		summary = text.Colors{text.FgYellow}.Sprint(summary)
	}
	fmt.Fprintln(w, summary)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  %s (%s): %s\n", f.Ticker, f.Stage, f.Error)
	}
	return nil
}

// RenderSeriesTable prints one series, oldest first.
func RenderSeriesTable(w io.Writer, series model.PriceSeries) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"DATE", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME"})
	cfgs := make([]table.ColumnConfig, 0, 5)
	for n := 2; n <= 6; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)
	for _, p := range series.Points {
		tw.AppendRow(table.Row{
			p.Date.Format(model.DateLayout),
			Money(p.Open),
			Money(p.High),
			Money(p.Low),
			Money(p.Close),
			p.Volume,
		})
	}
	tw.Render()
}

func newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func colorBySign(v float64, s string) string {
	switch {
	case v > 0:
		return text.Colors{text.FgGreen}.Sprint(s)
	case v < 0:
		return text.Colors{text.FgRed}.Sprint(s)
	}
	return s
}

func recommendationColors(r model.Recommendation) text.Colors {
	switch r {
	case model.RecommendationBuy:
		return text.Colors{text.FgGreen, text.Bold}
	case model.RecommendationSell:
		return text.Colors{text.FgRed, text.Bold}
	}
	return text.Colors{text.FgYellow}
}
