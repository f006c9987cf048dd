package commands

import (
	"github.com/cloudbrain/cbws/cmd/cbws/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags
func SetupFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&config.Global.ConfFile, "file", "",
		"Path to a configuration document (JSON, YAML or TOML)")
	cmd.PersistentFlags().StringVar(&config.Global.LogLevel, "log", config.DefaultLogLevel,
		"Log verbosity: info or debug")

	statusCmd.Flags().StringVar(&config.Global.StatusAddr, "addr", "",
		"Bridge address host:port (defaults to 127.0.0.1 and the resolved port)")
	statusCmd.Flags().IntVar(&config.Global.Timeout, "timeout", config.DefaultTimeout,
		"Connection timeout in seconds")
	statusCmd.Flags().StringVarP(&config.Global.Output, "output", "o", config.DefaultOutput,
		"Output format: table, json")
}
