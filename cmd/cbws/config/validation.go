package config

import (
	"fmt"
	"strings"

	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/validate"
)

// OutputFormats lists the accepted --output values.
var OutputFormats = []string{"table", "json"}

// ValidateConfig validates the global flags before any command runs and
// normalises the log level to lower case.
func ValidateConfig() error {
	Global.LogLevel = strings.ToLower(strings.TrimSpace(Global.LogLevel))
	if err := validate.ValidateOneOf(Global.LogLevel, "log level", logging.CLILevels); err != nil {
		return err
	}
	return nil
}

// ValidateStatusFlags validates the flags of the status subcommand.
func ValidateStatusFlags() error {
	if Global.StatusAddr != "" {
		if err := ValidateStatusAddress(Global.StatusAddr); err != nil {
			return err
		}
	}

	if err := validate.ValidateField(Global.Timeout, "min=1,max=300"); err != nil {
		return fmt.Errorf("timeout must be between 1 and 300 seconds, got %d", Global.Timeout)
	}

	if err := validate.ValidateOneOf(Global.Output, "output format", OutputFormats); err != nil {
		return err
	}

	return nil
}

// ValidateStatusAddress validates a bridge address to connect to
func ValidateStatusAddress(addr string) error {
	netAddr, err := validate.ParseAddress(addr, 0)
	if err != nil {
		return fmt.Errorf("invalid bridge address %q - expected format: host:port (e.g., 127.0.0.1:8080): %w", addr, err)
	}

	// Reject unroutable 0.0.0.0 target for client connections
	if netAddr.Host == "0.0.0.0" {
		return fmt.Errorf("unroutable bridge address - use 127.0.0.1 or a specific IP address")
	}

	return nil
}
