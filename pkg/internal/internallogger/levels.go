package internallogger

import (
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"go.uber.org/zap/zapcore"
)

var levelTable = [...]struct {
	level types.LogLevel
	zap   zapcore.Level
}{
	{types.DebugLevel, zapcore.DebugLevel},
	{types.InfoLevel, zapcore.InfoLevel},
	{types.WarnLevel, zapcore.WarnLevel},
	{types.ErrorLevel, zapcore.ErrorLevel},
	{types.DPanicLevel, zapcore.DPanicLevel},
	{types.PanicLevel, zapcore.PanicLevel},
	{types.FatalLevel, zapcore.FatalLevel},
}

// parseLogLevel accepts zap's level names plus "warning". Anything else is info.
func parseLogLevel(levelStr string) types.LogLevel {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if s == "warning" {
		s = "warn"
	}
	zl, err := zapcore.ParseLevel(s)
	if err != nil {
		return types.InfoLevel
	}
	return convertZapLevel(zl)
}

// ConvertLevel maps a types.LogLevel onto zap. Unknown levels become info.
func ConvertLevel(level types.LogLevel) zapcore.Level {
	for _, row := range levelTable {
		if row.level == level {
			return row.zap
		}
	}
	return zapcore.InfoLevel
}

func convertZapLevel(level zapcore.Level) types.LogLevel {
	for _, row := range levelTable {
		if row.zap == level {
			return row.level
		}
	}
	return types.InfoLevel
}
