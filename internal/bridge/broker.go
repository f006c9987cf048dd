package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/cloudbrain/cbws/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker is the bridge's view of the message broker.
type Broker interface {
	// Subscribe binds a private queue to exchange with routingKey and streams
	// delivery bodies until the subscription is closed.
	Subscribe(exchange, routingKey string) (*Subscription, error)
	// Connected reports whether the broker connection is still open.
	Connected() bool
	// Close closes the broker connection and every subscription on it.
	Close() error
}

// Dialer opens a Broker connection for a bridge configuration.
type Dialer interface {
	Dial(cfg *Config) (Broker, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(cfg *Config) (Broker, error)

// Dial calls f(cfg).
func (f DialerFunc) Dial(cfg *Config) (Broker, error) {
	return f(cfg)
}

// Subscription is a stream of message bodies from one bound queue.
type Subscription struct {
	Messages <-chan []byte

	cancel    func() error
	closeOnce sync.Once
	closeErr  error
}

func newSubscription(messages <-chan []byte, cancel func() error) *Subscription {
	return &Subscription{Messages: messages, cancel: cancel}
}

// Close stops the subscription. Safe to call more than once.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.closeErr = s.cancel()
		}
	})
	return s.closeErr
}

// ============================================================================
// AMQP IMPLEMENTATION
// ============================================================================

// AMQPDialer dials RabbitMQ using amqp091-go.
var AMQPDialer Dialer = DialerFunc(DialAMQP)

// amqpBroker holds one connection; each subscription gets its own channel.
type amqpBroker struct {
	conn *amqp.Connection
	addr string
}

// amqpLogger routes amqp091-go's internal messages to debug logging.
type amqpLogger struct{}

func (amqpLogger) Printf(format string, v ...interface{}) {
	logging.Debug("amqp: "+format, v...)
}

// DialAMQP connects to the broker named by cfg.
func DialAMQP(cfg *Config) (Broker, error) {
	amqp.SetLogger(amqpLogger{})

	conn, err := amqp.DialConfig(cfg.BrokerURL(), amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(cfg.DialTimeout),
		Properties: amqp.Table{
			"connection_name": "cbws-" + cfg.InstanceName,
		},
	})
	if err != nil {
		return nil, err
	}

	b := &amqpBroker{conn: conn, addr: cfg.BrokerAddr}
	go b.watchClose(conn.NotifyClose(make(chan *amqp.Error, 1)))

	logging.Info("Connected to broker at %s", cfg.BrokerAddr)
	return b, nil
}

// watchClose logs an unexpected loss of the broker connection. A nil error
// on the channel means the close was requested by Close.
func (b *amqpBroker) watchClose(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		logging.Error("Broker connection to %s lost: %v", b.addr, err)
	}
}

func (b *amqpBroker) Subscribe(exchange, routingKey string) (*Subscription, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// The exchange belongs to the publishers; a passive declare only checks it exists.
	if err := ch.ExchangeDeclarePassive(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("exchange %q is not available: %w", exchange, err)
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, routingKey, exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue to %q with key %q: %w", exchange, routingKey, err)
	}

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume from %s: %w", queue.Name, err)
	}

	out := make(chan []byte)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for d := range deliveries {
			select {
			case out <- d.Body:
			case <-done:
				return
			}
		}
	}()

	logging.Debug("Subscribed queue %s to exchange %q (key %q)", queue.Name, exchange, routingKey)

	return newSubscription(out, func() error {
		close(done)
		if ch.IsClosed() {
			return nil
		}
		return ch.Close()
	}), nil
}

func (b *amqpBroker) Connected() bool {
	return !b.conn.IsClosed()
}

func (b *amqpBroker) Close() error {
	if b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}
