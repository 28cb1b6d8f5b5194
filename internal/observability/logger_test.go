package observability

import (
	"testing"

	"go.uber.org/zap"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  zap.AtomicLevel
	}{
		{"production default", "", "", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"development default", "dev", "", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"explicit warn", "dev", "warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"unknown level", "", "verbose", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.env)
			t.Setenv("LOG_LEVEL", tt.level)
			if got := getLogLevel(); got != tt.want.Level() {
				t.Fatalf("expected %v, got %v", tt.want.Level(), got)
			}
		})
	}
}
