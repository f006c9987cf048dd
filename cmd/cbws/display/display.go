// Package display formats cbws command output.
//
// Tables go through text/tabwriter; timestamps are humanized. JSON output is
// indented so it can be piped to jq.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloudbrain/cbws/cmd/cbws/client"
	"github.com/cloudbrain/cbws/internal/config"
	"github.com/dustin/go-humanize"
)

var (
	healthyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// DisplayHealth writes a bridge health report in the given format.
func DisplayHealth(w io.Writer, health *client.HealthResponse, format string) error {
	if format == "json" {
		return writeJSON(w, health)
	}

	status := healthyStyle.Render(health.Status)
	if health.Status != "healthy" {
		status = degradedStyle.Render(health.Status)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Status:\t%s\n", status)
	fmt.Fprintf(tw, "Version:\t%s\n", health.Version)
	fmt.Fprintf(tw, "Started:\t%s (up %s)\n", humanize.Time(health.StartedAt), health.Uptime)
	fmt.Fprintf(tw, "Broker:\t%s\n", health.Broker)
	fmt.Fprintf(tw, "Sessions:\t%s\n", humanize.Comma(int64(health.Sessions)))
	fmt.Fprintf(tw, "Checked:\t%s\n", health.Timestamp.Format(time.RFC3339))
	return tw.Flush()
}

// DisplayConfig writes the resolved startup configuration. The password is
// always redacted.
func DisplayConfig(w io.Writer, resolved config.Resolved, file string) error {
	r := resolved.Redacted()
	if file == "" {
		file = "(none)"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SETTING\tENV\tFILE KEY\tVALUE\n")
	fmt.Fprintf(tw, "port\t%s\t%s\t%s\n", config.EnvPort, config.KeyPort, r.Port)
	fmt.Fprintf(tw, "broker address\t%s\t%s\t%s\n", config.EnvBrokerAddress, config.KeyBrokerAddress, r.BrokerAddress)
	fmt.Fprintf(tw, "broker user\t%s\t%s\t%s\n", config.EnvBrokerUser, config.KeyBrokerUser, r.BrokerUser)
	fmt.Fprintf(tw, "broker password\t%s\t%s\t%s\n", config.EnvBrokerPassword, config.KeyBrokerPassword, r.BrokerPassword)
	fmt.Fprintf(tw, "\nConfig file: %s\n", file)
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
