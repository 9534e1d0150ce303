package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

var (
	// level is shared by every core so SetLevel takes effect without a rebuild
	level = zap.NewAtomicLevelAt(InfoLevel)

	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

func init() {
	SetOutput(os.Stderr)
}

func newCore(w io.Writer) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
}

// SetOutput sends log lines to w
func SetOutput(w io.Writer) {
	l := zap.New(newCore(w), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	mu.Lock()
	sugar = l
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// ParseLevel maps a level name to a Level. Unknown names map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error", "fatal":
		return ErrorLevel
	}
	return InfoLevel
}

// Init sets the initial level
func Init(lvl string) {
	SetLevel(lvl)
}

// SetLevel changes the active level at runtime
func SetLevel(lvl string) {
	level.SetLevel(ParseLevel(lvl))
}

// GetLevel returns the active level name
func GetLevel() string {
	return level.Level().String()
}

// Enabled reports whether messages at l would be written
func Enabled(l Level) bool {
	return level.Enabled(l)
}

// Sync flushes buffered log lines
func Sync() error {
	return current().Sync()
}

func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }
