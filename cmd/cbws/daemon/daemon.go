// Package daemon wires the cbws process together: it resolves the startup
// configuration, installs the interrupt handler and hands the bridge to the
// lifecycle orchestrator.
//
// SHUTDOWN:
// SIGINT and SIGTERM cancel the orchestrator's context. The orchestrator
// then stops the bridge exactly once; a failure while stopping is logged
// and does not change the outcome.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudbrain/cbws/cmd/cbws/config"
	"github.com/cloudbrain/cbws/internal/bridge"
	resolver "github.com/cloudbrain/cbws/internal/config"
	"github.com/cloudbrain/cbws/internal/lifecycle"
	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/version"
)

// Run resolves the configuration and runs the bridge until interrupted.
// Configuration and startup failures are returned to the caller.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, config.Global.ConfFile, bridge.AMQPDialer)
}

// run is Run with the context and broker dialer supplied by the caller.
func run(ctx context.Context, confFile string, dialer bridge.Dialer) error {
	logging.Info("Starting cbws v%s", version.CbwsVersion)
	if confFile != "" {
		logging.Info("Reading configuration from %s", confFile)
	}

	resolved, err := resolver.Load(confFile)
	if err != nil {
		return err
	}
	logging.Debug("Resolved configuration: %+v", resolved.Redacted())

	orchestrator := lifecycle.New(NewBridgeFactory(dialer))
	return orchestrator.Run(ctx, resolved)
}

// NewBridgeFactory returns a lifecycle.Factory that builds a bridge server
// using dialer for its broker connection.
func NewBridgeFactory(dialer bridge.Dialer) lifecycle.Factory {
	return func(r resolver.Resolved) (lifecycle.Service, error) {
		cfg, err := bridge.ConfigFromResolved(r)
		if err != nil {
			return nil, err
		}
		return bridge.NewServer(cfg, dialer), nil
	}
}
