package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockAnalyst/internal/api"
	"StockAnalyst/internal/collector"
	"StockAnalyst/internal/metrics"
	"StockAnalyst/internal/model"
	"StockAnalyst/internal/notifier"
	"StockAnalyst/internal/render"
	"StockAnalyst/internal/scheduler"
)

// NewRootCmd creates the root command. Without a subcommand it behaves like run.
func NewRootCmd() *cobra.Command {
	runCmd := newRunCmd()

	rootCmd := &cobra.Command{
		Use:   "stockanalyst",
		Short: "StockAnalyst - synthetic price histories with LLM recommendations",
		Long: `StockAnalyst generates 90-day daily price histories for a watch list of equities
and asks a language model for a BUY, SELL or HOLD call on each one.`,
		SilenceUsage: true,
		RunE:         runCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(runCmd.Flags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newWatchCmd())

	rootCmd.PersistentFlags().String("config", "", "Configuration file path (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("mode", "", "History generator: anchor or range")

	return rootCmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze every configured instrument once",
		Example: `  stockanalyst run
  stockanalyst run --format json --pretty
  stockanalyst run --select NVDA`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			ctx, cancel := signalContext()
			defer cancel()

			runner, err := a.runner(ctx)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			r, ok := render.New(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				runner.OnStatus = render.NewProgressPrinter(os.Stderr, len(runner.Instruments())).Hook
			}

			report, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			noColor, _ := cmd.Flags().GetBool("no-color")
			pretty, _ := cmd.Flags().GetBool("pretty")
			withSeries, _ := cmd.Flags().GetBool("include-series")
			opts := render.Options{Color: !noColor && stdoutIsTerminal(), PrettyJSON: pretty, IncludeSeries: withSeries}
			if err := r.Render(os.Stdout, report, opts); err != nil {
				return err
			}

			if sel, _ := cmd.Flags().GetString("select"); sel != "" {
				inst, found := report.Find(sel)
				if !found {
					return fmt.Errorf("%s is not in the report", strings.ToUpper(sel))
				}
				fmt.Fprintln(os.Stdout)
				return render.NewDetailRenderer().Render(os.Stdout, inst)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "table", "Output format: table or json")
	cmd.Flags().String("select", "", "Show the detail view for one ticker after the report")
	cmd.Flags().Bool("pretty", false, "Indent JSON output")
	cmd.Flags().Bool("include-series", false, "Include price points in JSON output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print progress to stderr")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate TICKER",
		Short: "Print one synthetic price history without calling the model",
		Example: `  stockanalyst generate AAPL
  stockanalyst generate XYZ --anchor 42.5 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			inst, ok := a.findInstrument(args[0])
			anchor, _ := cmd.Flags().GetFloat64("anchor")
			if cmd.Flags().Changed("anchor") {
				if !ok {
					inst = model.Instrument{Ticker: strings.ToUpper(args[0])}
				}
				inst.AnchorPrice = anchor
				ok = true
			}
			if !ok {
				return fmt.Errorf("%s is not configured; pass --anchor to generate it anyway", strings.ToUpper(args[0]))
			}

			f, err := a.fetcher()
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")
			c := collector.NewCollector(f, a.logger.Named("collector"))
			c.Days = days

			ctx, cancel := signalContext()
			defer cancel()
			snap, err := c.Collect(ctx, inst)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(format) {
			case "json":
				pretty, _ := cmd.Flags().GetBool("pretty")
				return render.RenderSeriesJSON(os.Stdout, snap.Series, pretty)
			case "table", "":
				render.RenderSeriesTable(os.Stdout, snap.Series)
				change, pct := snap.Series.Change()
				fmt.Fprintf(os.Stdout, "\n%s last %s (%s, %s) via %s\n",
					inst.Ticker, render.Money(snap.Indicators.CurrentPrice), render.Signed(change), render.Percent(pct), snap.Series.Source)
				return nil
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}

	cmd.Flags().StringP("format", "f", "table", "Output format: table or json")
	cmd.Flags().Float64("anchor", 0, "Anchor price, overriding the configured one")
	cmd.Flags().Int("days", model.HistoryDays, "Number of daily points")
	cmd.Flags().Bool("pretty", false, "Indent JSON output")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh on a schedule and answer Telegram commands",
		Long: `watch runs the analysis on the configured cron schedule, sends each report to
Telegram and answers /refresh, /status, /report and /show TICKER until interrupted.
With --http-addr it also serves /healthz, /metrics and the /api/v1 status endpoints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			if err := a.cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			runner, err := a.runner(ctx)
			if err != nil {
				return err
			}
			tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger.Named("telegram"))

			m := metrics.New()
			sched := scheduler.NewScheduler(ctx, runner, tn, a.logger.Named("scheduler"))
			sched.Observer = m
			if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			addr := a.cfg.HTTP.Addr
			if v, _ := cmd.Flags().GetString("http-addr"); v != "" {
				addr = v
			}
			if addr != "" {
				srv := api.NewServer(addr, &api.Handler{Runner: runner, Refresher: sched, Metrics: m.Handler()}, a.logger.Named("http"))
				go func() {
					a.logger.Info("http server starting", zap.String("addr", addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("http server stopped", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			go tn.StartPolling(ctx, sched.HandleCommand)
			a.logger.Info("telegram polling started")

			runOnStart, _ := cmd.Flags().GetBool("run-on-start")
			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				a.logger.Info("run on start enabled, refreshing now")
				go sched.RunNow()
			}

			a.logger.Info("watching", zap.String("cron", a.cfg.Schedule.RefreshCron))
			<-ctx.Done()
			a.logger.Info("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().Bool("run-on-start", false, "Run one refresh immediately")
	cmd.Flags().String("http-addr", "", "Serve the status API and metrics on this address, e.g. :9090")
	return cmd
}
