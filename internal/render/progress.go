package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"StockAnalyst/internal/model"
)

var (
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	completedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// ProgressPrinter writes one line per status transition. Hook is safe to call
// from many goroutines.
type ProgressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	done  int
}

func NewProgressPrinter(w io.Writer, total int) *ProgressPrinter {
	return &ProgressPrinter{w: w, total: total}
}

// Hook matches the runner's status callback.
func (p *ProgressPrinter) Hook(ticker string, status model.RunStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status.Terminal() {
		p.done++
	}
	fmt.Fprintf(p.w, "[%2d/%d] %-6s %s\n", p.done, p.total, ticker, statusStyle(status).Render(status.Label()))
}

func statusStyle(s model.RunStatus) lipgloss.Style {
	switch s {
	case model.StatusFetching, model.StatusAnalyzing:
		return inProgressStyle
	case model.StatusDone:
		return completedStyle
	case model.StatusError:
		return errorStyle
	}
	return pendingStyle
}
