// Package config resolves the startup configuration of the cbws bridge.
//
// Configuration comes from two sources: an optional structured document named
// on the command line, and the process environment. Each required field is
// resolved on its own, environment first and file second, so that operators
// can override a single value (usually the port) without editing the file.
// There are no baked-in defaults for the required fields: a field that neither
// source provides fails resolution.
//
// The constants below are shared defaults for the surrounding daemon, not
// fallbacks for the required fields.
package config

const (
	// DefaultBindAddr is the interface the bridge listens on. Using 0.0.0.0
	// accepts websocket clients on every interface.
	DefaultBindAddr = "0.0.0.0"

	// DefaultLogLevel is the verbosity used when --log is not given.
	DefaultLogLevel = "info"

	// DefaultBrokerPort is the AMQP port assumed when the broker address
	// carries no explicit port.
	DefaultBrokerPort = 5672
)
