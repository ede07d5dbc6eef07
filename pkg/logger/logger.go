package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"workflowhub/pkg/config"
	"workflowhub/pkg/trace"
)

var Log *zap.Logger

// NewLogger builds the process logger. DEBUG switches to the development
// encoder at debug level; LOG_FILE routes output through a rotating file.
func NewLogger(cfg config.LogConfig) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if cfg.Debug {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var l *zap.Logger
	if cfg.File != "" {
		l = newFileLogger(zapCfg, cfg.File)
	} else {
		var err error
		l, err = zapCfg.Build()
		if err != nil {
			panic(err)
		}
	}

	Log = l
	return l
}

func newFileLogger(zapCfg zap.Config, file string) *zap.Logger {
	writer := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	encoder := zapcore.NewJSONEncoder(zapCfg.EncoderConfig)
	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), zapCfg.Level)
	return zap.New(core, zap.AddCaller())
}

// WithTrace adds the request trace id, when present, to the logger
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
