package config

import (
	"fmt"
	"os"

	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/validate"
)

// Environment variables consulted for each required field.
const (
	EnvPort           = "PORT"
	EnvBrokerAddress  = "RABBITMQ_ADDRESS"
	EnvBrokerUser     = "RABBITMQ_USER"
	EnvBrokerPassword = "RABBITMQ_PWD"
)

// Document keys consulted when the environment does not provide a value.
const (
	KeyPort           = "ws_server_port"
	KeyBrokerAddress  = "rabbitmq_address"
	KeyBrokerUser     = "rabbitmq_user"
	KeyBrokerPassword = "rabbitmq_pwd"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Resolved is the validated configuration handed to the lifecycle
// orchestrator. It is passed by value and never modified after Resolve.
type Resolved struct {
	Port           string `validate:"required"` // websocket listening port, coerced by the bridge
	BrokerAddress  string `validate:"required"` // RabbitMQ host or host:port
	BrokerUser     string `validate:"required"`
	BrokerPassword string `validate:"required"`
}

// Redacted returns a copy safe for logs and terminal output.
func (r Resolved) Redacted() Resolved {
	if r.BrokerPassword != "" {
		r.BrokerPassword = "********"
	}
	return r
}

// field binds one logical setting to its environment variable and document key.
type field struct {
	name   string
	envVar string
	key    string
	assign func(*Resolved, string)
}

// fields is evaluated in order; the first missing entry is the one reported.
var fields = []field{
	{"port", EnvPort, KeyPort, func(r *Resolved, v string) { r.Port = v }},
	{"brokerAddress", EnvBrokerAddress, KeyBrokerAddress, func(r *Resolved, v string) { r.BrokerAddress = v }},
	{"brokerUser", EnvBrokerUser, KeyBrokerUser, func(r *Resolved, v string) { r.BrokerUser = v }},
	{"brokerPassword", EnvBrokerPassword, KeyBrokerPassword, func(r *Resolved, v string) { r.BrokerPassword = v }},
}

// Resolve applies per-field precedence: a non-empty environment variable wins,
// then a non-empty document value, otherwise resolution fails with a
// *MissingConfigError for that field. A nil file behaves like an empty one.
func Resolve(file *FileConfig, env LookupFunc) (Resolved, error) {
	if env == nil {
		env = func(string) (string, bool) { return "", false }
	}

	var resolved Resolved
	for _, f := range fields {
		value, ok := lookupField(f, file, env)
		if !ok {
			return Resolved{}, &MissingConfigError{Field: f.name, EnvVar: f.envVar, FileKey: f.key}
		}
		f.assign(&resolved, value)
	}

	if err := validate.ValidateStruct(resolved); err != nil {
		return Resolved{}, fmt.Errorf("resolved configuration is invalid: %w", err)
	}

	return resolved, nil
}

// lookupField consults the environment and then the document for one field.
func lookupField(f field, file *FileConfig, env LookupFunc) (string, bool) {
	if value, ok := env(f.envVar); ok && value != "" {
		return value, true
	}
	return file.Lookup(f.key)
}

// Load reads the document at path (if any) and resolves it against the
// process environment.
func Load(path string) (Resolved, error) {
	file, err := LoadFile(path)
	if err != nil {
		return Resolved{}, err
	}
	if p := file.Path(); p != "" {
		logging.Debug("Loaded config file %s", p)
	}
	return Resolve(file, os.LookupEnv)
}
