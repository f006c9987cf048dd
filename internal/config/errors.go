package config

import "fmt"

// ParseError reports a configuration document that could not be read or
// decoded. No service is constructed after a ParseError.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingConfigError reports a required field that no source provided.
type MissingConfigError struct {
	Field   string // logical field name, e.g. "port"
	EnvVar  string // environment variable consulted first
	FileKey string // document key consulted second
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required configuration %q: set %s or %q in the config file",
		e.Field, e.EnvVar, e.FileKey)
}
