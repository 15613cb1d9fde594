package observability

import (
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pizza-shop/internal/config"
)

// NewLogger builds the process logger. JSON output uses the production
// encoder, otherwise a colored console encoder at debug level.
func NewLogger(cfg config.Config) *zap.Logger {
	return newLogger(consoleCore(cfg.LogJSON, zapcore.Lock(os.Stdout)), cfg.Env)
}

// WithOTel tees every entry into the given OpenTelemetry logger provider.
func WithOTel(l *zap.Logger, lp log.LoggerProvider) *zap.Logger {
	otelCore := otelzap.NewCore(config.ServiceName, otelzap.WithLoggerProvider(lp))
	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, otelCore)
	}))
}

func newLogger(core zapcore.Core, env string) *zap.Logger {
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", config.ServiceName), zap.String("env", env)),
	)
}

func consoleCore(json bool, w zapcore.WriteSyncer) zapcore.Core {
	if json {
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, zap.InfoLevel)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), w, zap.DebugLevel)
}
