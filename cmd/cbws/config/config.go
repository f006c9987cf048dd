// Package config holds the raw command-line arguments for cbws.
//
// These are the values cobra fills in before any command runs. The startup
// configuration the bridge needs (port, broker address and credentials) is
// not here; it is resolved from the environment and the --file document by
// internal/config.
package config

import (
	configDefaults "github.com/cloudbrain/cbws/internal/config"
)

const (
	DefaultLogLevel = configDefaults.DefaultLogLevel // Default --log value
	DefaultTimeout  = 8                              // Default status timeout in seconds
	DefaultOutput   = "table"                        // Default status output format
)

// Config holds all raw CLI arguments
type Config struct {
	ConfFile string // Path to the configuration document (--file)
	LogLevel string // Verbosity: info or debug (--log)

	// status subcommand
	StatusAddr string // Bridge address to query; derived from the resolved port when empty
	Timeout    int    // Request timeout in seconds
	Output     string // Output format: table or json
}

// Global configuration instance
var Global = Config{
	LogLevel: DefaultLogLevel,
	Timeout:  DefaultTimeout,
	Output:   DefaultOutput,
}
