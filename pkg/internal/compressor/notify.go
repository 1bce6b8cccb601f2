package compressor

import "github.com/joeydtaylor/condenser/pkg/internal/types"

// NotifyLoggers sends a message with key/value pairs to all attached loggers.
func (c *compressor) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	loggers := c.snapshotLoggers()
	if len(loggers) == 0 {
		return
	}

	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}

func (c *compressor) snapshotLoggers() []types.Logger {
	c.loggersLock.Lock()
	defer c.loggersLock.Unlock()

	if len(c.loggers) == 0 {
		return nil
	}

	loggers := make([]types.Logger, len(c.loggers))
	copy(loggers, c.loggers)
	return loggers
}
