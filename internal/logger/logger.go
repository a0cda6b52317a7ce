package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// global is the shared logger instance used throughout the application.
	//nolint:gochecknoglobals // Logger is used all over the project, so it's okay.
	global *zap.SugaredLogger
	// consoleLevel is the minimum level for console output.
	//nolint:gochecknoglobals // Verbosity flags adjust it after start-up.
	consoleLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // Commands log before Setup runs.
	SetLogger(New(consoleLevel, os.Stderr))
}

// Options describe the sinks created by Setup.
type Options struct {
	// Level is the console level name (debug, info, warn, error).
	Level string
	// File is an optional path of a rotated JSON log file.
	File string
	// FileLevel is the minimum level written to File, debug by default.
	FileLevel string
	// Console overrides the console writer, stderr by default.
	Console io.Writer
}

const (
	// fileMaxSizeMB is the size at which the log file is rotated.
	fileMaxSizeMB = 10
	// fileMaxBackups is the number of rotated log files kept.
	fileMaxBackups = 3
	// fileMaxAgeDays is the retention of rotated log files.
	fileMaxAgeDays = 28
)

// Setup replaces the global logger according to opts.
func Setup(opts Options) error {
	if opts.Level != "" {
		level, ok := ParseLogLevel(opts.Level)
		if !ok {
			return fmt.Errorf("unknown log level %q", opts.Level)
		}

		consoleLevel.SetLevel(level)
	}

	fileLevel := zapcore.DebugLevel

	if opts.FileLevel != "" {
		level, ok := ParseLogLevel(opts.FileLevel)
		if !ok {
			return fmt.Errorf("unknown log file level %q", opts.FileLevel)
		}

		fileLevel = level
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cores := []zapcore.Core{newConsoleCore(consoleLevel, console)}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
		}

		cores = append(cores, newFileCore(fileLevel, rotator))
	}

	SetLogger(zap.New(zapcore.NewTee(cores...)).Sugar())

	return nil
}

// New creates a console logger writing to w.
// If the level is not provided, the console level is used.
func New(level zapcore.LevelEnabler, w io.Writer, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = consoleLevel
	}

	return zap.New(newConsoleCore(level, w), options...).Sugar()
}

func newConsoleCore(level zapcore.LevelEnabler, w io.Writer) zapcore.Core {
	//nolint:exhaustruct // I'm okay with default encoder configuration values.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "logger",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})

	return zapcore.NewCore(encoder, zapcore.AddSync(w), level)
}

// newFileCore writes JSON entries at level and above, independent of the console level.
func newFileCore(level zapcore.Level, w io.Writer) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
}

// ParseLogLevel converts string input to zap log level.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// LevelFromVerbosity maps a repeated -v flag count to a console level.
func LevelFromVerbosity(count int) zapcore.Level {
	if count > 0 {
		return zapcore.DebugLevel
	}

	return zapcore.InfoLevel
}

// Level returns the current console level.
func Level() zapcore.Level {
	return consoleLevel.Level()
}

// SetLevel sets the console level of the global logger.
func SetLevel(level zapcore.Level) {
	consoleLevel.SetLevel(level)
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global
}

// SetLogger sets the global logger.
// This function is not thread-safe.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// Sync flushes buffered entries of the global logger.
func Sync() {
	_ = global.Sync()
}

// Debug writes a debug level message using the logger from the context.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf writes a formatted debug level message using the logger from the context.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV writes a message and key-value pairs
// at the debug level using the logger from the context.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// Info writes an information level message using the logger from the context.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof writes a formatted information level message using the logger from the context.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV writes a message and key-value pairs
// at the information level using the logger from the context.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// Warnf writes a formatted warning level message using the logger from the context.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV writes a message and key-value pairs
// at the warning level using the logger from the context.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Warnw(message, kvs...)
}

// Errorf writes a formatted error level message using the logger from the context.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV writes a message and key-value pairs
// at the error level using the logger from the context.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Errorw(message, kvs...)
}
