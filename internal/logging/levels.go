// Package logging provides centralized log level validation for cbws.
//
// Operators select verbosity with the --log flag, which accepts the closed set
// {info, debug}. Internally the logger also understands WARN and ERROR so that
// adapters for third-party libraries (gin, amqp) can route their output at the
// right level.
package logging

import (
	"fmt"
	"strings"
)

// Canonical internal level names.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// CLILevels is the set of verbosity values accepted on the command line.
var CLILevels = []string{"info", "debug"}

// ValidLogLevels defines every level understood by SetLevel.
var ValidLogLevels = map[string]bool{
	LevelDebug: true,
	LevelInfo:  true,
	LevelWarn:  true,
	LevelError: true,
}

// IsValidLogLevel reports whether level names a supported log level. The
// comparison is case-insensitive so that "debug" and "DEBUG" are equivalent.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[strings.ToUpper(level)]
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}
