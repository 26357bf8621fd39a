package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the progress of one instrument within a run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusFetching  RunStatus = "fetching"
	StatusAnalyzing RunStatus = "analyzing"
	StatusDone      RunStatus = "done"
	StatusError     RunStatus = "error"
)

// Label is the human-readable form shown in progress views.
func (s RunStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusFetching:
		return "Fetching data..."
	case StatusAnalyzing:
		return "Analyzing with AI..."
	case StatusDone:
		return "Done"
	case StatusError:
		return "Error"
	}
	return string(s)
}

// Terminal reports whether no further transition will happen in this run.
func (s RunStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// InstrumentFailure records why one instrument did not complete cleanly.
type InstrumentFailure struct {
	Ticker string    `json:"ticker"`
	Stage  RunStatus `json:"stage"`
	Error  string    `json:"error"`
}

// RunReport is the ordered output of one pipeline run.
type RunReport struct {
	ID          uuid.UUID            `json:"id"`
	StartedAt   time.Time            `json:"startedAt"`
	FinishedAt  time.Time            `json:"finishedAt"`
	Instruments []AnalyzedInstrument `json:"instruments"`
	Failures    []InstrumentFailure  `json:"failures,omitempty"`
	Partial     bool                 `json:"partial"`
}

// Summary is the run-level message for presentation.
func (r *RunReport) Summary() string {
	if r == nil {
		return "no run yet"
	}
	if !r.Partial {
		return fmt.Sprintf("analyzed %d instruments", len(r.Instruments))
	}
	tickers := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		tickers = append(tickers, f.Ticker)
	}
	return fmt.Sprintf("could not analyze all instruments (%d of %d affected: %s)",
		len(r.Failures), len(r.Instruments)+r.generationFailures(), strings.Join(tickers, ", "))
}

// generationFailures counts failures that produced no record at all.
func (r *RunReport) generationFailures() int {
	n := 0
	for _, f := range r.Failures {
		if f.Stage == StatusFetching {
			n++
		}
	}
	return n
}

// Find returns the record for ticker, case-insensitively.
func (r *RunReport) Find(ticker string) (AnalyzedInstrument, bool) {
	if r == nil {
		return AnalyzedInstrument{}, false
	}
	for _, a := range r.Instruments {
		if strings.EqualFold(a.Ticker, ticker) {
			return a, true
		}
	}
	return AnalyzedInstrument{}, false
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
