package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"StockAnalyst/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{config.LogConfig{Level: "debug", Encoding: "json"}, zapcore.DebugLevel},
		{config.LogConfig{Level: "WARN", Encoding: "console"}, zapcore.WarnLevel},
		{config.LogConfig{Level: "nonsense"}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.cfg)
		if err != nil {
			t.Fatalf("%+v: unexpected error: %v", tt.cfg, err)
		}
		if !l.Core().Enabled(tt.want) {
			t.Errorf("%+v: expected %s enabled", tt.cfg, tt.want)
		}
		if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
			t.Errorf("%+v: expected %s disabled", tt.cfg, tt.want-1)
		}
	}
	if _, err := New(config.LogConfig{Encoding: "xml"}); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
