package internallogger

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"go.uber.org/zap"
)

// Log emits a log entry at the requested level. keysAndValues are read in pairs;
// a trailing orphan and non-string keys are dropped.
func (z *ZapLoggerAdapter) Log(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	z.mu.Lock()
	logger := z.logger
	z.mu.Unlock()

	if logger == nil || logger.Core() == nil {
		fmt.Println("Logger or logger core is not initialized.")
		return
	}

	zapLevel := ConvertLevel(level)
	if !logger.Core().Enabled(zapLevel) {
		return
	}

	limit := len(keysAndValues) &^ 1
	fields := make([]zap.Field, 0, limit/2)
	for i := 0; i < limit; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, fieldFor(key, keysAndValues[i+1]))
	}

	if ce := logger.Check(zapLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func fieldFor(key string, value interface{}) zap.Field {
	switch v := value.(type) {
	case types.ComponentMetadata:
		return zap.Any(key, componentToLogMap(v))
	case *types.ComponentMetadata:
		if v == nil {
			return zap.Any(key, nil)
		}
		return zap.Any(key, componentToLogMap(*v))
	case error:
		return zap.NamedError(key, v)
	case time.Duration:
		return zap.Int64(key+"_ms", v.Milliseconds())
	default:
		return zap.Any(key, v)
	}
}

func componentToLogMap(meta types.ComponentMetadata) map[string]string {
	return map[string]string{
		"id":   meta.ID,
		"type": meta.Type,
		"name": meta.Name,
	}
}

func (z *ZapLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.Log(types.DebugLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.Log(types.InfoLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	z.Log(types.WarnLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.Log(types.ErrorLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) DPanic(msg string, keysAndValues ...interface{}) {
	z.Log(types.DPanicLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Panic(msg string, keysAndValues ...interface{}) {
	z.Log(types.PanicLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Fatal(msg string, keysAndValues ...interface{}) {
	z.Log(types.FatalLevel, msg, keysAndValues...)
}

// GetLevel returns the configured minimum level.
func (z *ZapLoggerAdapter) GetLevel() types.LogLevel {
	return convertZapLevel(z.atomicLevel.Level())
}

// SetLevel changes the minimum level of the base core and every sink.
func (z *ZapLoggerAdapter) SetLevel(level types.LogLevel) {
	z.atomicLevel.SetLevel(ConvertLevel(level))
}

// Flush syncs the logger's outputs. Sync errors from terminals are ignored.
func (z *ZapLoggerAdapter) Flush() error {
	z.mu.Lock()
	logger := z.logger
	z.mu.Unlock()

	if logger == nil {
		return nil
	}

	if err := logger.Sync(); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "inappropriate ioctl for device") ||
			strings.Contains(msg, "bad file descriptor") ||
			strings.Contains(msg, "invalid argument") {
			return nil
		}
		return err
	}
	return nil
}
