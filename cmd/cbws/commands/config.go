package commands

import (
	"github.com/cloudbrain/cbws/cmd/cbws/config"
	"github.com/cloudbrain/cbws/cmd/cbws/display"
	resolver "github.com/cloudbrain/cbws/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Resolve and print the startup configuration",
	Long: `Resolve the startup configuration exactly as the server would and print it.
The broker password is always redacted. Nothing is bound or dialed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := resolver.Load(config.Global.ConfFile)
		if err != nil {
			return err
		}
		return display.DisplayConfig(cmd.OutOrStdout(), resolved, config.Global.ConfFile)
	},
}
