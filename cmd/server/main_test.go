package main

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		format    string
		debugging bool
	}{
		{"console", true},
		{"json", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			logger, err := newLogger(tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := logger.Core().Enabled(zap.DebugLevel); got != tt.debugging {
				t.Fatalf("debug enabled = %v, want %v", got, tt.debugging)
			}
		})
	}
}
