package bridge

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudbrain/cbws/internal/bridge/handlers"
	"github.com/cloudbrain/cbws/internal/netutil"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeSub is one subscription handed out by fakeBroker
type fakeSub struct {
	exchange   string
	routingKey string
	messages   chan []byte
	closed     chan struct{}
}

// fakeBroker hands out in-memory subscriptions and records what happened
type fakeBroker struct {
	mu           sync.Mutex
	subscribeErr error
	closeErr     error
	closed       bool
	subs         chan *fakeSub
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{subs: make(chan *fakeSub, 8)}
}

func (b *fakeBroker) Subscribe(exchange, routingKey string) (*Subscription, error) {
	if b.subscribeErr != nil {
		return nil, b.subscribeErr
	}
	fs := &fakeSub{
		exchange:   exchange,
		routingKey: routingKey,
		messages:   make(chan []byte, 8),
		closed:     make(chan struct{}),
	}
	b.subs <- fs
	return newSubscription(fs.messages, func() error {
		close(fs.closed)
		return nil
	}), nil
}

func (b *fakeBroker) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed
}

func (b *fakeBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return b.closeErr
}

func (b *fakeBroker) isClosed() bool {
	return !b.Connected()
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.BindAddr = "127.0.0.1"
	cfg.Port = 0
	cfg.BrokerAddr = "rabbit.local:5672"
	cfg.BrokerUser = "u"
	cfg.BrokerPassword = "p"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func dialerFor(b Broker) Dialer {
	return DialerFunc(func(*Config) (Broker, error) { return b, nil })
}

// startServer starts a bridge on an ephemeral port; the caller stops it
func startServer(t *testing.T, broker *fakeBroker) *Server {
	t.Helper()
	srv := NewServer(testConfig(), dialerFor(broker))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return srv
}

func streamURL(srv *Server, exchange, routingKey string) string {
	q := url.Values{}
	if exchange != "" {
		q.Set("exchange", exchange)
	}
	if routingKey != "" {
		q.Set("routing_key", routingKey)
	}
	return "ws://" + srv.Addr().String() + "/ws?" + q.Encode()
}

func waitForSub(t *testing.T, b *fakeBroker) *fakeSub {
	t.Helper()
	select {
	case fs := <-b.subs:
		return fs
	case <-time.After(2 * time.Second):
		t.Fatal("no broker subscription was made")
		return nil
	}
}

// eventually polls cond until it holds or the deadline passes
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestServer_RelaysMessages(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	defer srv.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(streamURL(srv, "telemetry", "eeg.*"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	sub := waitForSub(t, broker)
	if sub.exchange != "telemetry" || sub.routingKey != "eeg.*" {
		t.Errorf("subscribed to %q/%q, want telemetry/eeg.*", sub.exchange, sub.routingKey)
	}

	payloads := []string{`{"channel_0": 1.5}`, `{"channel_0": 2.5}`}
	for _, p := range payloads {
		sub.messages <- []byte(p)
	}

	for _, want := range payloads {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		if mt != websocket.TextMessage {
			t.Errorf("message type = %d, want text", mt)
		}
		if string(data) != want {
			t.Errorf("message = %q, want %q", data, want)
		}
	}

	eventually(t, "forwarded counter", func() bool {
		return testutil.ToFloat64(srv.Metrics().forwarded) == 2
	})
	eventually(t, "session registration", func() bool { return srv.SessionCount() == 1 })
}

func TestServer_DefaultRoutingKey(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	defer srv.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(streamURL(srv, "telemetry", ""), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if sub := waitForSub(t, broker); sub.routingKey != DefaultRoutingKey {
		t.Errorf("routing key = %q, want %q", sub.routingKey, DefaultRoutingKey)
	}
}

func TestServer_ClientCloseEndsSession(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	defer srv.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(streamURL(srv, "telemetry", ""), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	sub := waitForSub(t, broker)
	eventually(t, "session registration", func() bool { return srv.SessionCount() == 1 })

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	select {
	case <-sub.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed after client left")
	}
	eventually(t, "session removal", func() bool { return srv.SessionCount() == 0 })
	eventually(t, "session gauge", func() bool { return testutil.ToFloat64(srv.Metrics().sessions) == 0 })
}

func TestServer_SubscriptionEndClosesClient(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	defer srv.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(streamURL(srv, "telemetry", ""), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	sub := waitForSub(t, broker)
	close(sub.messages)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("ReadMessage() error = %v, want going-away close", err)
	}
}

func TestServer_MissingExchange(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	defer srv.Stop()

	resp, err := http.Get("http://" + srv.Addr().String() + "/ws")
	if err != nil {
		t.Fatalf("GET /ws error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if len(broker.subs) != 0 {
		t.Error("broker subscription made without an exchange")
	}
}

func TestServer_SubscribeFailure(t *testing.T) {
	broker := newFakeBroker()
	broker.subscribeErr = errors.New("NOT_FOUND - no exchange 'nope'")
	srv := startServer(t, broker)
	defer srv.Stop()

	_, resp, err := websocket.DefaultDialer.Dial(streamURL(srv, "nope", ""), nil)
	if err == nil {
		t.Fatal("Dial() succeeded, want handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("handshake response = %v, want 502", resp)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "no exchange") {
		t.Errorf("body = %s, want broker error", body)
	}
	if got := testutil.ToFloat64(srv.Metrics().subscribeErrors); got != 1 {
		t.Errorf("subscribe errors = %v, want 1", got)
	}
}

func TestServer_Health(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	defer srv.Stop()

	resp, err := http.Get("http://" + srv.Addr().String() + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health error = %v", err)
	}
	defer resp.Body.Close()

	var health handlers.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "healthy" || health.Broker != "connected" {
		t.Errorf("health = %+v, want healthy/connected", health)
	}
	if health.Sessions != 0 {
		t.Errorf("sessions = %d, want 0", health.Sessions)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := startServer(t, newFakeBroker())
	defer srv.Stop()

	resp, err := http.Get("http://" + srv.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{
		"cbws_websocket_sessions",
		"cbws_messages_forwarded_total",
		"cbws_broker_subscribe_errors_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("/metrics missing %s", name)
		}
	}
}

func TestServer_StopClosesEverything(t *testing.T) {
	broker := newFakeBroker()
	srv := startServer(t, broker)
	addr := srv.Addr().String()

	conn, _, err := websocket.DefaultDialer.Dial(streamURL(srv, "telemetry", ""), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	sub := waitForSub(t, broker)
	eventually(t, "session registration", func() bool { return srv.SessionCount() == 1 })

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("client still connected after Stop")
	}
	select {
	case <-sub.closed:
	case <-time.After(2 * time.Second):
		t.Error("subscription not closed by Stop")
	}
	if !broker.isClosed() {
		t.Error("broker not closed by Stop")
	}

	// The port is released.
	l, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("port not released after Stop: %v", err)
	}
	l.Close()
}

func TestServer_StopReportsBrokerCloseError(t *testing.T) {
	broker := newFakeBroker()
	broker.closeErr = errors.New("channel/connection is not open")
	srv := startServer(t, broker)

	err := srv.Stop()
	if err == nil || !errors.Is(err, broker.closeErr) {
		t.Errorf("Stop() error = %v, want broker close error", err)
	}
}

func TestServer_StartPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()
	port, _ := netutil.ListenerPort(taken)

	dialed := false
	cfg := testConfig()
	cfg.Port = port
	srv := NewServer(cfg, DialerFunc(func(*Config) (Broker, error) {
		dialed = true
		return newFakeBroker(), nil
	}))

	err = srv.Start()
	var inUse *netutil.AddressInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("Start() error = %v, want *AddressInUseError", err)
	}
	if dialed {
		t.Error("broker dialed although the port could not be bound")
	}
}

func TestServer_StartBrokerUnreachableReleasesPort(t *testing.T) {
	spare, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port, _ := netutil.ListenerPort(spare)
	spare.Close()

	cause := errors.New("dial tcp rabbit.local:5672: connect: connection refused")
	cfg := testConfig()
	cfg.Port = port
	srv := NewServer(cfg, DialerFunc(func(*Config) (Broker, error) { return nil, cause }))

	if err := srv.Start(); !errors.Is(err, cause) {
		t.Fatalf("Start() error = %v, want broker dial failure", err)
	}

	l, err := net.Listen("tcp", spare.Addr().String())
	if err != nil {
		t.Fatalf("port not released after failed start: %v", err)
	}
	l.Close()
}
