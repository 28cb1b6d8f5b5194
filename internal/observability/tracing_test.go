package observability

import (
	"strings"
	"testing"
)

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		desc := samplerFor(tt.rate).Description()
		if !strings.Contains(desc, tt.want) {
			t.Errorf("rate %v: expected description to contain %q, got %q", tt.rate, tt.want, desc)
		}
	}
}
