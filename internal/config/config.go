package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockAnalyst/internal/model"
)

// ErrMissingCredential is returned when the reasoning service has no API key.
var ErrMissingCredential = errors.New("missing LLM API key")

// GeneratorConfig selects and bounds the synthetic history provider.
type GeneratorConfig struct {
	Mode               string  `yaml:"mode"` // anchor | range
	VolatilityMin      float64 `yaml:"volatility_min"`
	VolatilityMax      float64 `yaml:"volatility_max"`
	RangeVolatilityMin float64 `yaml:"range_volatility_min"`
	RangeVolatilityMax float64 `yaml:"range_volatility_max"`
	DriftBand          float64 `yaml:"drift_band"`
	VolumeMin          int64   `yaml:"volume_min"`
	VolumeMax          int64   `yaml:"volume_max"`
}

// LLMConfig configures the reasoning service.
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // openai | deepseek
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Temperature *float32      `yaml:"temperature"` // nil means DefaultTemperature
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultTemperature applies when no temperature is configured.
const DefaultTemperature float32 = 0.3

// SamplingTemperature returns the configured temperature, zero included.
func (l LLMConfig) SamplingTemperature() float32 {
	if l.Temperature == nil {
		return DefaultTemperature
	}
	return *l.Temperature
}

// TelegramConfig holds the bot credentials used by the watch command.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// HTTPConfig enables the status API of the watch command. An empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Encoding    string `yaml:"encoding"` // json | console
	Development bool   `yaml:"development"`
}

// Config holds all application configuration.
type Config struct {
	Instruments []model.Instrument `yaml:"instruments"`
	Generator   GeneratorConfig    `yaml:"generator"`
	LLM         LLMConfig          `yaml:"llm"`
	Telegram    TelegramConfig     `yaml:"telegram"`
	Schedule    struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	HTTP  HTTPConfig `yaml:"http"`
	Log   LogConfig  `yaml:"log"`
	Proxy string     `yaml:"proxy"`
}

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Load reads config from a YAML file, then applies .env and environment overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	for _, key := range []string{"LLM_API_KEY", "DEEPSEEK_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			c.LLM.APIKey = v
			break
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LLM.Timeout = d
		}
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			temperature := float32(f)
			c.LLM.Temperature = &temperature
		}
	}
	if v := os.Getenv("GENERATOR_MODE"); v != "" {
		c.Generator.Mode = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	if len(c.Instruments) == 0 {
		c.Instruments = DefaultInstruments()
	}

	g := &c.Generator
	if g.Mode == "" {
		g.Mode = "anchor"
	}
	g.Mode = strings.ToLower(g.Mode)
	if g.VolatilityMin == 0 && g.VolatilityMax == 0 {
		g.VolatilityMin, g.VolatilityMax = 0.015, 0.035
	}
	if g.RangeVolatilityMin == 0 && g.RangeVolatilityMax == 0 {
		g.RangeVolatilityMin, g.RangeVolatilityMax = 0.02, 0.05
	}
	if g.DriftBand == 0 {
		g.DriftBand = 0.005
	}
	if g.VolumeMin == 0 && g.VolumeMax == 0 {
		g.VolumeMin, g.VolumeMax = 1_000_000, 11_000_000
	}

	l := &c.LLM
	if l.Provider == "" {
		l.Provider = "openai"
	}
	l.Provider = strings.ToLower(l.Provider)
	if l.Model == "" {
		l.Model = "deepseek-chat"
	}
	if l.BaseURL == "" && l.Provider == "openai" {
		l.BaseURL = "https://api.deepseek.com/v1"
	}
	if l.Temperature == nil {
		temperature := DefaultTemperature
		l.Temperature = &temperature
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 1024
	}
	if l.Timeout == 0 {
		l.Timeout = 60 * time.Second
	}

	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 30 21 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "console"
	}
}

// Validate checks the instrument list and generator bands.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments must not be empty")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Ticker == "" {
			return fmt.Errorf("instruments[%d].ticker is required", i)
		}
		key := strings.ToUpper(inst.Ticker)
		if seen[key] {
			return fmt.Errorf("instruments[%d]: duplicate ticker %s", i, inst.Ticker)
		}
		seen[key] = true
		if c.Generator.Mode == "range" && !inst.PriceRange.Valid() {
			return fmt.Errorf("instruments[%d] (%s): price_range is required in range mode", i, inst.Ticker)
		}
	}
	switch c.Generator.Mode {
	case "anchor", "range":
	default:
		return fmt.Errorf("generator.mode must be anchor or range, got %q", c.Generator.Mode)
	}
	switch c.LLM.Provider {
	case "openai", "deepseek":
	default:
		return fmt.Errorf("llm.provider must be openai or deepseek, got %q", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	return nil
}

// ValidateLLM checks that the reasoning service can be called.
func (c *Config) ValidateLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("%w: set LLM_API_KEY, DEEPSEEK_API_KEY or OPENAI_API_KEY", ErrMissingCredential)
	}
	return nil
}

// ValidateTelegram checks the bot settings needed by the watch command.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
