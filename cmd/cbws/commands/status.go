package commands

import (
	"fmt"
	"net"

	"github.com/cloudbrain/cbws/cmd/cbws/client"
	"github.com/cloudbrain/cbws/cmd/cbws/config"
	"github.com/cloudbrain/cbws/cmd/cbws/display"
	resolver "github.com/cloudbrain/cbws/internal/config"
	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/netutil"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the health of a running bridge",
	Long: `Query the health endpoint of a running bridge. Without --addr the bridge is
assumed to be local, on the port the configuration resolves to.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return config.ValidateStatusFlags()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := statusAddress()
		if err != nil {
			return err
		}

		logging.Debug("Querying bridge at %s", addr)
		health, err := client.NewBridgeClient(addr, config.Global.Timeout).GetHealth()
		if err != nil {
			if netutil.IsConnectionRefusedError(err) {
				return fmt.Errorf("no bridge is listening on %s: %w", addr, err)
			}
			return err
		}
		return display.DisplayHealth(cmd.OutOrStdout(), health, config.Global.Output)
	},
}

// statusAddress returns --addr, or 127.0.0.1 with the resolved port.
func statusAddress() (string, error) {
	if config.Global.StatusAddr != "" {
		return config.Global.StatusAddr, nil
	}

	resolved, err := resolver.Load(config.Global.ConfFile)
	if err != nil {
		return "", fmt.Errorf("cannot determine bridge address (use --addr): %w", err)
	}
	return net.JoinHostPort("127.0.0.1", resolved.Port), nil
}
