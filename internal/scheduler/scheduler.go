package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockAnalyst/internal/model"
	"StockAnalyst/internal/notifier"
	"StockAnalyst/internal/pipeline"
)

// Runner is the part of the pipeline the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (*model.RunReport, error)
	Start(ctx context.Context) (<-chan *model.RunReport, error)
	Status() []pipeline.StatusEntry
	Running() bool
	Last() *model.RunReport
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// RunObserver receives refresh outcomes, e.g. for metrics.
type RunObserver interface {
	ObserveRun(report *model.RunReport)
	ObserveRejected()
}

// Scheduler manages the refresh cron task and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Notifier Sender
	Observer RunObserver
	Ctx      context.Context
	logger   *zap.Logger
	// async waits for refreshes requested by command; tests replace it to run inline.
	async func(func())
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, sender Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: sender,
		Ctx:      ctx,
		logger:   logger,
		async:    func(f func()) { go f() },
	}
}

// Register adds the refresh task on refreshCron (six fields, seconds first).
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.logger.Info("running refresh task")
	report, err := s.Runner.Run(s.Ctx)
	s.finish(report, err)
}

func (s *Scheduler) finish(report *model.RunReport, err error) {
	if errors.Is(err, pipeline.ErrRunInProgress) {
		s.logger.Info("refresh skipped, run already in progress")
		if s.Observer != nil {
			s.Observer.ObserveRejected()
		}
		return
	}
	if err != nil {
		s.logger.Error("refresh failed", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Refresh failed: %v", err))
		return
	}
	if s.Observer != nil {
		s.Observer.ObserveRun(report)
	}
	s.trySend(notifier.FormatRunReport(report))
}

// TriggerRefresh starts a refresh in the background. It reports false when a
// run is already active.
func (s *Scheduler) TriggerRefresh() bool {
	done, err := s.Runner.Start(s.Ctx)
	if err != nil {
		s.finish(nil, err)
		return false
	}
	s.logger.Info("refresh requested")
	s.async(func() { s.finish(<-done, nil) })
	return true
}

const helpText = `Available commands:
• /refresh - re-run the analysis
• /status - live status of each instrument
• /report - last completed report
• /show TICKER - details for one instrument`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats append the bot name: /status@SomeBot.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/refresh":
		if !s.TriggerRefresh() {
			return "⏳ A run is already in progress, try /status"
		}
		return "🔄 Refresh started"
	case "/status":
		return notifier.FormatStatus(s.Runner.Status(), s.Runner.Running(), s.Runner.Last())
	case "/report":
		last := s.Runner.Last()
		if last == nil {
			return "No completed run yet, send /refresh"
		}
		return notifier.FormatRunReport(last)
	case "/show", "/select":
		if len(fields) < 2 {
			return "Usage: /show TICKER"
		}
		last := s.Runner.Last()
		if last == nil {
			return "No completed run yet, send /refresh"
		}
		a, ok := last.Find(fields[1])
		if !ok {
			return fmt.Sprintf("%s is not in the last report", strings.ToUpper(fields[1]))
		}
		return notifier.FormatInstrumentDetail(a)
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error("send notification failed", zap.Error(err))
	}
}
