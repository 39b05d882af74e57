package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   zapcore.Level
		wantOK bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLevel(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNopLoggerIsUsable(t *testing.T) {
	log := NewNop().With(String("component", "test"))
	log.Info("hello", Int("n", 1), Bool("ok", true), Strings("tags", []string{"a"}))
	log.Error("boom", Error(errors.New("x")))
	log.Debugf("value=%d", 3)
}

func TestNewProductionLogger(t *testing.T) {
	log := New("warn", false)
	if log == nil {
		t.Fatal("New() returned nil")
	}
	log.Info("filtered out")
	_ = log.Sync()
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		field Field
		key   string
		want  string
	}{
		{UserID("alice"), "user_id", "alice"},
		{BookmarkID("b-1"), "bookmark_id", "b-1"},
		{Backend("redis"), "backend", "redis"},
		{Op("update"), "op", "update"},
	}

	for _, tt := range tests {
		if tt.field.Key != tt.key || tt.field.String != tt.want {
			t.Errorf("field = %s=%q, want %s=%q", tt.field.Key, tt.field.String, tt.key, tt.want)
		}
	}
}
