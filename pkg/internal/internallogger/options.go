package internallogger

import (
	"github.com/joeydtaylor/condenser/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerWithLevel sets the minimum level from its name ("debug", "info", "warn", ...).
// Unknown names fall back to info.
func LoggerWithLevel(levelStr string) LoggerOption {
	return func(cfg *zap.Config, lvl *zapcore.Level, _ *int) {
		converted := ConvertLevel(parseLogLevel(levelStr))
		cfg.Level = zap.NewAtomicLevelAt(converted)
		*lvl = converted
	}
}

// LoggerWithDevelopment switches to capitalized level names.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return func(cfg *zap.Config, _ *zapcore.Level, _ *int) {
		cfg.Development = dev
	}
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return func(cfg *zap.Config, _ *zapcore.Level, _ *int) {
		if cfg.InitialFields == nil {
			cfg.InitialFields = map[string]interface{}{}
		}
		for key, value := range fields {
			if key == "" {
				continue
			}
			cfg.InitialFields[key] = value
		}
	}
}

// LoggerWithSchema overrides the log schema identifier field.
func LoggerWithSchema(schema string) LoggerOption {
	return func(cfg *zap.Config, _ *zapcore.Level, _ *int) {
		if cfg.InitialFields == nil {
			cfg.InitialFields = map[string]interface{}{}
		}
		cfg.InitialFields[logschema.FieldSchema] = schema
	}
}

// LoggerWithoutCaller drops the caller field from every entry.
func LoggerWithoutCaller() LoggerOption {
	return func(cfg *zap.Config, _ *zapcore.Level, _ *int) {
		cfg.DisableCaller = true
	}
}

// ZapAdapterWithCallerSkip adds skip frames on top of the adapter's own.
func ZapAdapterWithCallerSkip(skip int) LoggerOption {
	return func(_ *zap.Config, _ *zapcore.Level, callerDepth *int) {
		*callerDepth += skip
	}
}
