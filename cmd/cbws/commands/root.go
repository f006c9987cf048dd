// Package commands defines the cbws command tree.
//
// The root command runs the bridge in the foreground until SIGINT or
// SIGTERM. Two helper subcommands share its --file and --log flags:
//   - config: resolve and print the startup configuration (password redacted)
//   - status: query a running bridge's health endpoint
package commands

import (
	"github.com/cloudbrain/cbws/cmd/cbws/config"
	"github.com/cloudbrain/cbws/cmd/cbws/daemon"
	"github.com/cloudbrain/cbws/cmd/cbws/utils"
	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/version"
	"github.com/spf13/cobra"
)

// Root command for cbws
var RootCmd = &cobra.Command{
	Use:   "cbws",
	Short: "Websocket bridge streaming RabbitMQ exchanges to websocket clients",
	Long: `cbws runs the CloudBrain websocket server. Clients connect to /ws, name an
exchange, and receive every message published to it as a text frame.

Settings come from the environment first and the --file document second:
  PORT              ws_server_port     websocket listening port
  RABBITMQ_ADDRESS  rabbitmq_address   broker host[:port] (port defaults to 5672)
  RABBITMQ_USER     rabbitmq_user      broker user
  RABBITMQ_PWD      rabbitmq_pwd       broker password`,
	Version: version.CbwsVersion,
	Args:    cobra.NoArgs,
	// Failures are logged once by main
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # Everything from a config file
  cbws --file=/etc/cbws/conf.json

  # Environment overrides the file per setting
  PORT=9090 cbws --file=/etc/cbws/conf.json --log=debug

  # Check the resolved configuration without starting anything
  cbws config --file=/etc/cbws/conf.json

  # Ask a running bridge how it is doing
  cbws status`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateConfig(); err != nil {
			return err
		}
		return logging.SetLevel(config.Global.LogLevel)
	},
	PreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(cmd.OutOrStdout(), version.CbwsVersion)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their flags
func SetupCommands() {
	SetupFlags(RootCmd)

	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(statusCmd)
}
