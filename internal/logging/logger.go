// Package logging provides structured, colorful logging utilities for cbws,
// ensuring consistent log formatting across the daemon, the bridge service,
// and the third-party libraries it embeds.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Unix conventions: INFO/SUCCESS go to stdout, WARN/ERROR/DEBUG go to stderr
//   - Error chains: Exception logs a failure together with every wrapped cause
//   - Adapters: LevelWriter and StandardLogger route gin, net/http and amqp
//     output through the same loggers
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Logger for INFO messages (stdout by default)
	stdoutLogger = newLogger(os.Stdout)

	// Logger for WARN/ERROR/DEBUG messages (stderr by default)
	stderrLogger = newLogger(os.Stderr)

	// Logger for SUCCESS messages, an INFO level rendered in green
	successLogger = newSuccessLogger(os.Stdout)
)

// setupCustomStyles creates custom color styling for log levels. The colors
// work in both light and dark terminals.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// newLogger builds a styled logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// newSuccessLogger builds a logger whose INFO level is labelled SUCCESS.
func newSuccessLogger(w io.Writer) *log.Logger {
	l := newLogger(w)
	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281")) // Light green
	l.SetStyles(styles)
	return l
}

// Info logs informational messages about daemon and bridge operation.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for non-critical issues requiring attention.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs error messages for failures.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Debug logs detailed debugging information for development and troubleshooting.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green. It respects INFO level filtering.
func Success(format string, v ...any) {
	successLogger.Info(fmt.Sprintf(format, v...))
}

// Exception logs a failure as a single ERROR record carrying the full error
// chain. Each wrapped cause is attached as a "cause.N" key so the record keeps
// the context that produced the failure, not only the outermost message.
func Exception(err error, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	if err == nil {
		stderrLogger.Error(msg)
		return
	}

	keyvals := []any{"err", err.Error(), "type", fmt.Sprintf("%T", err)}
	depth := 0
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		depth++
		keyvals = append(keyvals, fmt.Sprintf("cause.%d", depth), cause.Error())
	}
	stderrLogger.Error(msg, keyvals...)
}

// SetLevel configures the minimum logging level. Accepts DEBUG, INFO, WARN and
// ERROR in any case. An unknown level is rejected and the current level kept.
func SetLevel(level string) error {
	if err := ValidateLogLevel(level); err != nil {
		return err
	}

	var logLevel log.Level
	switch strings.ToUpper(level) {
	case LevelDebug:
		logLevel = log.DebugLevel
	case LevelWarn:
		logLevel = log.WarnLevel
	case LevelError:
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
	successLogger.SetLevel(logLevel)
	return nil
}

// IsDebugEnabled reports whether DEBUG records are currently emitted.
func IsDebugEnabled() bool {
	return stderrLogger.GetLevel() <= log.DebugLevel
}

// SetOutput sends every level to w, overriding the stdout/stderr split. The
// current level is preserved. Passing nil restores the Unix conventions.
func SetOutput(w io.Writer) {
	level := stderrLogger.GetLevel()

	if w == nil {
		stdoutLogger = newLogger(os.Stdout)
		stderrLogger = newLogger(os.Stderr)
		successLogger = newSuccessLogger(os.Stdout)
	} else {
		stdoutLogger = newLogger(w)
		stderrLogger = newLogger(w)
		successLogger = newSuccessLogger(w)
	}

	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
	successLogger.SetLevel(level)
}

// ============================================================================
// THIRD-PARTY LOG INTEGRATION
// ============================================================================

// LevelWriter forwards log lines to a specific log level with optional prefix.
// Used for libraries that expect an io.Writer, such as gin.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write splits input into lines and logs each at the configured level.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case LevelDebug:
			Debug("%s", msg)
		case LevelWarn:
			Warn("%s", msg)
		case LevelError:
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// StandardLogger returns a standard library *log.Logger whose output is
// routed through NewLevelWriter. Used for http.Server.ErrorLog.
func StandardLogger(level, prefix string) *stdlog.Logger {
	return stdlog.New(NewLevelWriter(level, prefix), "", 0)
}
