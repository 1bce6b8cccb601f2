package livefeed

import "github.com/joeydtaylor/condenser/pkg/internal/types"

func (h *hub) ConnectLogger(loggers ...types.Logger) {
	h.requireNotFrozen("ConnectLogger")

	h.loggersLock.Lock()
	defer h.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			h.loggers = append(h.loggers, l)
		}
	}
}

func (h *hub) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	h.loggersLock.Lock()
	loggers := make([]types.Logger, len(h.loggers))
	copy(loggers, h.loggers)
	h.loggersLock.Unlock()

	for _, logger := range loggers {
		if logger.GetLevel() > level {
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

func (h *hub) GetComponentMetadata() types.ComponentMetadata {
	return h.componentMetadata
}

func (h *hub) SetComponentMetadata(name string, id string) {
	h.requireNotFrozen("SetComponentMetadata")
	h.componentMetadata.Name = name
	h.componentMetadata.ID = id
}
