// Package lifecycle supervises the bridge service for the duration of the
// process: it constructs the service from the resolved configuration, starts
// it, blocks until the process is interrupted, and stops it exactly once.
//
// STATE MACHINE:
//
//	Idle -> Starting -> Running -> Stopping -> Stopped
//
// Stopped is terminal and is reached exactly once per Run, including when
// construction or start fails (in which case Stop is never called).
//
// The orchestrator runs on the caller's goroutine. Waiting in Running is a
// blocking receive on the context's Done channel; the only thing that cancels
// that context is the interrupt signal wired by the daemon.
package lifecycle

import (
	"context"
	"sync/atomic"

	"github.com/cloudbrain/cbws/internal/config"
	"github.com/cloudbrain/cbws/internal/logging"
)

// Service is the narrow handle the orchestrator holds on the bridge.
type Service interface {
	// Start binds and connects. An error means the service is not running.
	Start() error
	// Stop releases everything Start acquired. Best-effort.
	Stop() error
}

// Factory constructs a Service from the resolved configuration.
type Factory func(cfg config.Resolved) (Service, error)

// State is a lifecycle phase.
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

var stateNames = map[State]string{
	StateIdle:     "idle",
	StateStarting: "starting",
	StateRunning:  "running",
	StateStopping: "stopping",
	StateStopped:  "stopped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Orchestrator drives one Service through its lifecycle.
type Orchestrator struct {
	factory Factory
	state   atomic.Int32
}

// New creates an orchestrator in the Idle state.
func New(factory Factory) *Orchestrator {
	return &Orchestrator{factory: factory}
}

// State returns the current lifecycle phase. Safe to call from any goroutine.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) setState(s State) {
	logging.Debug("Lifecycle: %s -> %s", o.State(), s)
	o.state.Store(int32(s))
}

// Run constructs and starts the service, waits for ctx to be cancelled, then
// stops it. Construction and start failures are returned as
// *ConstructionError. A stop failure is logged and Run returns nil.
//
// If a panic escapes while the service is running, Stop is still called once
// before the panic continues to unwind.
func (o *Orchestrator) Run(ctx context.Context, cfg config.Resolved) error {
	o.setState(StateStarting)

	svc, err := o.factory(cfg)
	if err != nil {
		o.setState(StateStopped)
		return &ConstructionError{Phase: PhaseConstruct, Err: err}
	}

	if err := svc.Start(); err != nil {
		o.setState(StateStopped)
		return &ConstructionError{Phase: PhaseStart, Err: err}
	}

	// From here on Stop must run exactly once, whatever happens.
	defer o.stop(svc)

	o.setState(StateRunning)
	logging.Success("Websocket bridge running on port %s", cfg.Port)
	logging.Info("Press Ctrl+C to shutdown")

	<-ctx.Done()
	logging.Info("Interrupt received, initiating graceful shutdown...")

	return nil
}

// stop performs the Stopping -> Stopped transition.
func (o *Orchestrator) stop(svc Service) {
	o.setState(StateStopping)

	if err := svc.Stop(); err != nil {
		stopErr := &StopError{Err: err}
		logging.Warn("%v", stopErr)
	}

	o.setState(StateStopped)
	logging.Success("Websocket bridge stopped")
}
