package render

import (
	"encoding/json"
	"io"

	"StockAnalyst/internal/model"
)

type jsonReport struct {
	*model.RunReport
	Summary string `json:"summary"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render writes the report as one JSON document. Series points are dropped unless
// opts.IncludeSeries is set.
func (r *JSONRenderer) Render(w io.Writer, report *model.RunReport, opts Options) error {
	out := *report
	if !opts.IncludeSeries {
		out.Instruments = make([]model.AnalyzedInstrument, len(report.Instruments))
		for i, a := range report.Instruments {
			a.Series.Points = nil
			out.Instruments[i] = a
		}
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(jsonReport{RunReport: &out, Summary: report.Summary()})
}

// RenderSeriesJSON writes a single series.
func RenderSeriesJSON(w io.Writer, series model.PriceSeries, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(series)
}
