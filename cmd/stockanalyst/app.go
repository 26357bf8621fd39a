package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockAnalyst/internal/analyst"
	"StockAnalyst/internal/collector"
	"StockAnalyst/internal/config"
	"StockAnalyst/internal/logger"
	"StockAnalyst/internal/model"
	"StockAnalyst/internal/pipeline"
)

// app carries the loaded configuration and logger for one command invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Generator.Mode = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Debug("config loaded",
		zap.String("path", path),
		zap.Int("instruments", len(cfg.Instruments)),
		zap.String("mode", cfg.Generator.Mode))
	return &app{cfg: cfg, logger: log}, nil
}

func (a *app) walkConfig() collector.WalkConfig {
	g := a.cfg.Generator
	return collector.WalkConfig{
		VolatilityMin:      g.VolatilityMin,
		VolatilityMax:      g.VolatilityMax,
		RangeVolatilityMin: g.RangeVolatilityMin,
		RangeVolatilityMax: g.RangeVolatilityMax,
		DriftBand:          g.DriftBand,
		VolumeMin:          g.VolumeMin,
		VolumeMax:          g.VolumeMax,
	}
}

func (a *app) fetcher() (collector.Fetcher, error) {
	f, err := collector.NewFetcher(a.cfg.Generator.Mode, a.walkConfig())
	if err != nil {
		return nil, fmt.Errorf("init generator: %w", err)
	}
	a.logger.Info("history provider ready", zap.String("provider", f.Name()))
	return f, nil
}

// runner wires generator, reasoning service and pipeline. It fails fast when
// the API key is missing.
func (a *app) runner(ctx context.Context) (*pipeline.Runner, error) {
	if err := a.cfg.ValidateLLM(); err != nil {
		return nil, err
	}
	f, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	cm, err := analyst.NewChatModel(ctx, a.cfg.LLM)
	if err != nil {
		return nil, err
	}
	a.logger.Info("reasoning service ready",
		zap.String("provider", a.cfg.LLM.Provider),
		zap.String("model", a.cfg.LLM.Model),
		zap.Duration("timeout", a.cfg.LLM.Timeout))

	an := analyst.NewLLMAnalyst(cm, a.cfg.LLM.Timeout, a.cfg.LLM.SamplingTemperature(), a.logger.Named("analyst"))
	col := collector.NewCollector(f, a.logger.Named("collector"))
	return pipeline.NewRunner(a.cfg.Instruments, col, an, a.logger.Named("pipeline")), nil
}

func (a *app) findInstrument(ticker string) (model.Instrument, bool) {
	for _, inst := range a.cfg.Instruments {
		if strings.EqualFold(inst.Ticker, ticker) {
			return inst, true
		}
	}
	return model.Instrument{}, false
}

func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
