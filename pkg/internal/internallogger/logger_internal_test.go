package internallogger

import (
	"errors"
	"testing"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(t *testing.T, level zapcore.Level) (*ZapLoggerAdapter, *observer.ObservedLogs) {
	t.Helper()
	logger := NewLogger(LoggerWithLevel("debug"))
	core, obs := observer.New(level)

	logger.mu.Lock()
	logger.logger = zap.New(core)
	logger.mu.Unlock()
	return logger, obs
}

func TestLog_WritesPairsAndDropsOrphan(t *testing.T) {
	logger, obs := observed(t, zapcore.DebugLevel)

	logger.Log(types.InfoLevel, "msg", "a", "b", "c", 3, "orphan")

	entries := obs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].Context
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "a" || fields[1].Key != "c" {
		t.Fatalf("unexpected field keys: %v, %v", fields[0].Key, fields[1].Key)
	}
}

func TestLog_IgnoresNonStringKeys(t *testing.T) {
	logger, obs := observed(t, zapcore.DebugLevel)

	logger.Log(types.InfoLevel, "msg", 123, "skip", "k", "v")

	fields := obs.All()[0].Context
	if len(fields) != 1 || fields[0].Key != "k" {
		t.Fatalf("expected single field 'k', got %v", fields)
	}
}

func TestLog_TypedValues(t *testing.T) {
	logger, obs := observed(t, zapcore.DebugLevel)

	meta := types.ComponentMetadata{ID: "id-1", Type: "COMPRESSOR", Name: "main"}
	logger.Log(types.WarnLevel, "typed",
		"component", meta,
		"error", errors.New("boom"),
		"elapsed", 1500*time.Millisecond,
	)

	ctx := obs.All()[0].ContextMap()
	component, ok := ctx["component"].(map[string]string)
	if !ok || component["type"] != "COMPRESSOR" {
		t.Fatalf("expected component map, got %#v", ctx["component"])
	}
	if ctx["error"] != "boom" {
		t.Fatalf("expected error field 'boom', got %#v", ctx["error"])
	}
	if ctx["elapsed_ms"] != int64(1500) {
		t.Fatalf("expected elapsed_ms=1500, got %#v", ctx["elapsed_ms"])
	}
}

func TestLog_RespectsCoreLevel(t *testing.T) {
	logger, obs := observed(t, zapcore.WarnLevel)

	logger.Log(types.InfoLevel, "info")
	logger.Log(types.WarnLevel, "warn")

	entries := obs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Entry.Level != zapcore.WarnLevel {
		t.Fatalf("expected warn entry, got %v", entries[0].Entry.Level)
	}
}

func TestLog_NilLoggerNoPanic(t *testing.T) {
	logger := NewLogger()
	logger.mu.Lock()
	logger.logger = nil
	logger.mu.Unlock()

	logger.Log(types.InfoLevel, "msg")
	if err := logger.Flush(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestFieldsFromMap_SortedAndSkipsEmptyKey(t *testing.T) {
	fields := fieldsFromMap(map[string]interface{}{"b": 1, "a": 2, "": 3})
	if len(fields) != 2 || fields[0].Key != "a" || fields[1].Key != "b" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestConvertLevel_Defaults(t *testing.T) {
	if got := ConvertLevel(types.LogLevel(99)); got != zapcore.InfoLevel {
		t.Fatalf("expected default zapcore.InfoLevel, got %v", got)
	}
	if got := convertZapLevel(zapcore.Level(99)); got != types.InfoLevel {
		t.Fatalf("expected default types.InfoLevel, got %v", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]types.LogLevel{
		"debug":   types.DebugLevel,
		" info ":  types.InfoLevel,
		"warn":    types.WarnLevel,
		"warning": types.WarnLevel,
		"ERROR":   types.ErrorLevel,
		"dpanic":  types.DPanicLevel,
		"panic":   types.PanicLevel,
		"fatal":   types.FatalLevel,
		"bogus":   types.InfoLevel,
	}

	for input, expect := range cases {
		if got := parseLogLevel(input); got != expect {
			t.Fatalf("parseLogLevel(%q) = %v, expected %v", input, got, expect)
		}
	}
}
