package internallogger

import (
	"time"

	"github.com/joeydtaylor/condenser/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// standardEncoderConfig is zap's production encoder with the condenser field names.
func standardEncoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = logschema.FieldTimestamp
	enc.LevelKey = logschema.FieldLevel
	enc.NameKey = logschema.FieldLogger
	enc.CallerKey = logschema.FieldCaller
	enc.MessageKey = logschema.FieldMessage
	enc.StacktraceKey = logschema.FieldStack
	enc.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.UTC().Format(timestampLayout))
	}
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	return enc
}
