package internallogger

import (
	"os"
	"sync"

	"github.com/joeydtaylor/condenser/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption mutates the zap config, the starting level and the caller skip before construction.
type LoggerOption func(*zap.Config, *zapcore.Level, *int)

// ZapLoggerAdapter implements types.Logger on top of zap.
type ZapLoggerAdapter struct {
	mu          sync.Mutex
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	callerDepth int
	callerOn    bool
	encConfig   zapcore.EncoderConfig
	baseCore    zapcore.Core
	baseFields  []zap.Field
	sinks       map[string]sinkEntry
}

// NewLogger initializes a new ZapLoggerAdapter writing JSON to stdout.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	config := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	callerDepth := 1

	config.Level = zap.NewAtomicLevelAt(level)
	config.InitialFields = map[string]interface{}{
		logschema.FieldSchema: logschema.SchemaID,
	}

	for _, option := range options {
		option(&config, &level, &callerDepth)
	}

	atomicLevel := zap.NewAtomicLevelAt(level)
	encConfig := standardEncoderConfig()
	if config.Development {
		encConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	z := &ZapLoggerAdapter{
		atomicLevel: atomicLevel,
		callerDepth: callerDepth,
		callerOn:    !config.DisableCaller,
		encConfig:   encConfig,
		baseCore:    zapcore.NewCore(zapcore.NewJSONEncoder(encConfig), zapcore.Lock(os.Stdout), atomicLevel),
		baseFields:  fieldsFromMap(config.InitialFields),
		sinks:       make(map[string]sinkEntry),
	}

	z.mu.Lock()
	z.rebuildLoggerLocked()
	z.mu.Unlock()

	return z
}
