package lifecycle

import "fmt"

// Construction phases reported by ConstructionError.
const (
	PhaseConstruct = "construct"
	PhaseStart     = "start"
)

// ConstructionError reports a service that could not be instantiated or
// started, for example because the listening port is taken or the broker is
// unreachable. It is fatal; the orchestrator never retries.
type ConstructionError struct {
	Phase string
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to %s service: %v", e.Phase, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// StopError reports a failure while stopping the service. It is logged as a
// warning and never changes the outcome of Run.
type StopError struct {
	Err error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("failed to stop service: %v", e.Err)
}

func (e *StopError) Unwrap() error {
	return e.Err
}
