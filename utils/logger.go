package utils

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.SugaredLogger

// init関数はパッケージがインポートされたときに自動的に実行されます
func init() {
	logger = buildLogger(zapcore.InfoLevel)
}

// SetVerbose はデバッグレベルのログ出力を有効/無効にします
func SetVerbose(verbose bool) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	logger = buildLogger(level)
}

func buildLogger(level zapcore.Level) *zap.SugaredLogger {
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	// スタックトレースは不要
	config.EncoderConfig.StacktraceKey = ""

	l, err := config.Build(zap.WithCaller(false))
	if err != nil {
		panic(err)
	}

	return l.Sugar()
}

// LogInfo は情報レベルのメッセージをログに記録します
func LogInfo(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

// LogWarn は警告レベルのメッセージをログに記録します
func LogWarn(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

// LogError はエラーレベルのメッセージをログに記録します
func LogError(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// LogDebug はデバッグレベルのメッセージをログに記録します（-verbose時のみ出力）
func LogDebug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

// Sync はバッファされたログエントリをフラッシュします
func Sync() {
	_ = logger.Sync()
}

// TrackTime は関数の実行時間を計測して出力するユーティリティです
func TrackTime(start time.Time, name string) {
	elapsed := time.Since(start)
	LogInfo("%s 完了時間: %s", name, elapsed)
}
