package logging

import (
	"go.uber.org/zap"

	"softball-scorebook/internal/application/services"
)

// ZapLogger adapts a zap logger to the application's Logger port.
type ZapLogger struct {
	logger *zap.Logger
}

var _ services.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a production logger, or a human-readable
// development logger when dev is true.
func NewZapLogger(dev bool) (*ZapLogger, error) {
	var logger *zap.Logger
	var err error
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{logger: logger}, nil
}

// WrapZap adapts an existing zap logger, for sharing one logger across
// components.
func WrapZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// Unwrap exposes the underlying zap logger for components that take
// *zap.Logger directly.
func (l *ZapLogger) Unwrap() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) Debug(msg string, context map[string]interface{}) {
	l.logger.Debug(msg, toFields(context)...)
}

func (l *ZapLogger) Info(msg string, context map[string]interface{}) {
	l.logger.Info(msg, toFields(context)...)
}

func (l *ZapLogger) Warn(msg string, context map[string]interface{}) {
	l.logger.Warn(msg, toFields(context)...)
}

func (l *ZapLogger) Error(msg string, err error, context map[string]interface{}) {
	fields := toFields(context)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	l.logger.Error(msg, fields...)
}

// Sync flushes buffered entries. Call on shutdown.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func toFields(context map[string]interface{}) []zap.Field {
	if len(context) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(context))
	for k, v := range context {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}
