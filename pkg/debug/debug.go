// Package debug provides conditional debug logging for snolabib.
//
// Debug logging is enabled by setting the SNOLABIB_DEBUG environment variable
// or passing --verbose:
//
//	SNOLABIB_DEBUG=1 snolabib fix --output_file pubs.html
//
// When enabled, messages go to stderr through a zap console logger. When
// disabled (default), all functions return immediately.
package debug

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	enabled bool
	logger  *zap.SugaredLogger
)

func init() {
	if os.Getenv("SNOLABIB_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled switches debug logging on or off, creating the stderr logger on
// first use.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = newLogger(zapcore.Lock(os.Stderr))
	}
}

// SetOutput redirects debug output and enables logging. Used by tests.
func SetOutput(w io.Writer) {
	logger = newLogger(zapcore.AddSync(w))
	enabled = true
}

func newLogger(ws zapcore.WriteSyncer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, zapcore.DebugLevel)
	return zap.New(core).Named("snolabib").Sugar()
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Debugf(format, args...)
}

// LogTiming writes a timing message.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Debugw("timing", "op", name, "took", d)
}

// LogIf writes a debug message only if cond is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Debugf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("myFunc")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Debugf("%s: %T = %+v", name, v, v)
}

// Sync flushes buffered output.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
