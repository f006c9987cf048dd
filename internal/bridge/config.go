// Package bridge implements the websocket-to-RabbitMQ bridge that cbws
// supervises.
//
// Websocket clients connect to /ws and name an exchange (and optionally a
// routing key). The bridge binds a private queue to that exchange and writes
// the body of every delivery to the client as one text frame. Bodies are
// relayed untouched; the bridge defines no message schema of its own.
//
// The server also exposes a health endpoint for the `cbws status` command
// and Prometheus metrics.
package bridge

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudbrain/cbws/internal/config"
	"github.com/cloudbrain/cbws/internal/names"
	"github.com/cloudbrain/cbws/internal/validate"
)

const (
	// DefaultShutdownTimeout bounds how long Stop waits for in-flight HTTP requests.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultRoutingKey matches every message on a topic exchange.
	DefaultRoutingKey = "#"

	// DefaultWriteWait bounds a single websocket frame write.
	DefaultWriteWait = 10 * time.Second

	// DefaultDialTimeout bounds the broker TCP dial and AMQP handshake, so an
	// interrupt during startup is not held up by an unresponsive broker.
	DefaultDialTimeout = 5 * time.Second
)

// Config holds everything the bridge needs to start. InstanceName appears
// in the logs and as the AMQP connection name.
type Config struct {
	InstanceName    string        `validate:"required"`
	BindAddr        string        `validate:"required"`
	Port            int           `validate:"min=0,max=65535"` // 0 lets the OS pick (tests)
	BrokerAddr      string        `validate:"required"`        // host:port
	BrokerUser      string        `validate:"required"`
	BrokerPassword  string        `validate:"required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	WriteWait       time.Duration `validate:"gt=0"`
	DialTimeout     time.Duration `validate:"gt=0"`
}

// DefaultConfig returns a Config with defaults for everything except the
// port and broker credentials.
func DefaultConfig() *Config {
	return &Config{
		InstanceName:    names.Generate(),
		BindAddr:        config.DefaultBindAddr,
		ShutdownTimeout: DefaultShutdownTimeout,
		WriteWait:       DefaultWriteWait,
		DialTimeout:     DefaultDialTimeout,
	}
}

// ConfigFromResolved turns the resolved startup configuration into a bridge
// Config. This is where the textual port becomes a number and the broker
// address gets its default AMQP port.
func ConfigFromResolved(r config.Resolved) (*Config, error) {
	port, err := validate.ParsePort(r.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket port: %w", err)
	}

	brokerAddr, err := validate.ParseAddress(r.BrokerAddress, config.DefaultBrokerPort)
	if err != nil {
		return nil, fmt.Errorf("invalid broker address %q: %w", r.BrokerAddress, err)
	}

	cfg := DefaultConfig()
	cfg.Port = port
	cfg.BrokerAddr = brokerAddr.String()
	cfg.BrokerUser = r.BrokerUser
	cfg.BrokerPassword = r.BrokerPassword

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration using its struct tags.
func (c *Config) Validate() error {
	if err := validate.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid bridge config: %w", err)
	}
	return nil
}

// ListenAddr returns the websocket listening address.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + strconv.Itoa(c.Port)
}

// BrokerURL returns the AMQP URL for the broker with credentials escaped.
func (c *Config) BrokerURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.BrokerUser, c.BrokerPassword),
		Host:   c.BrokerAddr,
		Path:   "/",
	}
	return u.String()
}
