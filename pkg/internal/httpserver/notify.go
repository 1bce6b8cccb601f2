package httpserver

import (
	"fmt"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

func (s *apiServer) requireNotFrozen(action string) {
	if s.isFrozen() {
		panic(fmt.Sprintf("attempted to modify frozen configuration of started component: %s, action=%s", s.componentMetadata, action))
	}
}

func (s *apiServer) GetComponentMetadata() types.ComponentMetadata {
	return s.componentMetadata
}

func (s *apiServer) SetComponentMetadata(name string, id string) {
	s.requireNotFrozen("SetComponentMetadata")
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
}

// NotifyLoggers sends a message with key/value pairs to all attached loggers.
func (s *apiServer) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	s.loggersLock.Lock()
	loggers := make([]types.Logger, len(s.loggers))
	copy(loggers, s.loggers)
	s.loggersLock.Unlock()

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

func (s *apiServer) notifyHTTPServerError(route string, err *types.HTTPServerError) {
	level := types.WarnLevel
	if err.StatusCode >= 500 {
		level = types.ErrorLevel
	}
	s.NotifyLoggers(
		level,
		"HTTP server error",
		"component", s.componentMetadata,
		"event", "HTTPServerError",
		"route", route,
		"status", err.StatusCode,
		"error", err,
	)
}
