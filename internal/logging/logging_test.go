package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWrapsCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := New(core)

	logger.Debugw("hidden")
	logger.Warnw("no subtitles", "path", "a.srt")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["path"]; got != "a.srt" {
		t.Errorf("expected path field a.srt, got %v", got)
	}
}

func TestNopAndNewLogger(t *testing.T) {
	Nop().Infow("dropped")

	for _, verbose := range []bool{false, true} {
		if NewLogger(verbose) == nil {
			t.Fatalf("NewLogger(%v) returned nil", verbose)
		}
	}
}
