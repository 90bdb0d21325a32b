package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const RequestIdKey = "X-Request-Id"

// Logger defaults to a no-op until SetupLogger runs, so library code and
// tests can log unconditionally.
var Logger = zap.NewNop()

var setupOnce sync.Once

func SetupLogger() {
	setupOnce.Do(func() {
		logDir := viper.GetString("log_dir")
		if logDir != "" {
			if err := os.MkdirAll(logDir, 0o777); err != nil {
				fmt.Printf("failed to create log dir: %s\n", err.Error())
				os.Exit(1)
			}
		}

		level := zapcore.InfoLevel
		if viper.GetString("log_level") == "debug" {
			level = zapcore.DebugLevel
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		cores := []zapcore.Core{
			zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level),
		}

		if logDir != "" {
			fileWriter := &lumberjack.Logger{
				Filename:   filepath.Join(logDir, "rent-hub.log"),
				MaxSize:    100, // MB
				MaxBackups: 10,
				MaxAge:     30, // days
				Compress:   true,
			}
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(fileWriter), level))
		}

		Logger = zap.New(zapcore.NewTee(cores...))
	})
}

func SysLog(s string) {
	Logger.Info(s)
}

func SysError(s string) {
	Logger.Error(s)
}

func SysDebug(s string) {
	Logger.Debug(s)
}

func FatalLog(s string) {
	Logger.Fatal(s)
}

func LogInfo(ctx context.Context, msg string) {
	Logger.Info(msg, requestIdField(ctx))
}

func LogWarn(ctx context.Context, msg string) {
	Logger.Warn(msg, requestIdField(ctx))
}

func LogError(ctx context.Context, msg string) {
	Logger.Error(msg, requestIdField(ctx))
}

func requestIdField(ctx context.Context) zap.Field {
	if ctx == nil {
		return zap.Skip()
	}
	if id, ok := ctx.Value(RequestIdKey).(string); ok && id != "" {
		return zap.String("request_id", id)
	}
	return zap.Skip()
}
