package render

import (
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"StockAnalyst/internal/model"
)

// Renderer renders a run report to an output writer.
type Renderer interface {
	Render(w io.Writer, report *model.RunReport, opts Options) error
}

type Options struct {
	Color         bool
	PrettyJSON    bool
	IncludeSeries bool
}

// New returns the renderer for format: "table" or "json".
func New(format string) (Renderer, bool) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableRenderer(), true
	case "json":
		return NewJSONRenderer(), true
	}
	return nil, false
}

// Money formats v with two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Signed formats v with two decimals and an explicit sign.
func Signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	if d.IsZero() {
		return "0.00"
	}
	return d.StringFixed(2)
}

// Percent formats v as a signed percentage.
func Percent(v float64) string {
	return Signed(v) + "%"
}

// Volume abbreviates a share count, e.g. 4.21M.
func Volume(v float64) string {
	d := decimal.NewFromFloat(v)
	switch {
	case v >= 1e9:
		return d.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(2) + "B"
	case v >= 1e6:
		return d.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	case v >= 1e3:
		return d.Div(decimal.NewFromInt(1_000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a single line of block characters, at most width wide.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*len(values)/width]
		}
		sampled[width-1] = values[len(values)-1]
		values = sampled
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var sb strings.Builder
	for _, v := range values {
		idx := len(sparkTicks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
		}
		sb.WriteRune(sparkTicks[idx])
	}
	return sb.String()
}
