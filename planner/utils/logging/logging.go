package logging

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	AppLogger     *zap.Logger
	RequestLogger *zap.Logger
	TimerLogger   *zap.Logger
	ErrorLogger   *zap.Logger
)

// InitLogger sets up the rotating file loggers under dir.
// Safe to call more than once; later calls reconfigure the globals.
func InitLogger(dir string) {
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		panic("Failed to create logs directory: " + err.Error())
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	newCore := func(file string, maxSize, maxAge int, level zapcore.Level) zapcore.Core {
		return zapcore.NewCore(encoder,
			zapcore.AddSync(&lumberjack.Logger{
				Filename: filepath.Join(dir, file), MaxSize: maxSize, MaxAge: maxAge, Compress: true,
			}),
			level,
		)
	}

	AppLogger = zap.New(newCore("app.log", 100, 28, zap.InfoLevel))
	RequestLogger = zap.New(newCore("request.log", 50, 7, zap.InfoLevel))
	TimerLogger = zap.New(newCore("timer.log", 50, 7, zap.InfoLevel))
	ErrorLogger = zap.New(newCore("error.log", 100, 30, zap.ErrorLevel))
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()

	traceID, _ := ctx.Value("trace_id").(string)

	return func() {
		duration := time.Since(start).Milliseconds()
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", duration),
		}
		if traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		TimerLogger.Info("Function timed", fields...)
	}
}
