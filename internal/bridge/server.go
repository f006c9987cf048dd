package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cloudbrain/cbws/internal/bridge/handlers"
	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/netutil"
	"github.com/cloudbrain/cbws/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Represents the websocket bridge server
type Server struct {
	config    *Config
	dialer    Dialer
	metrics   *Metrics
	sessions  *sessionRegistry
	upgrader  websocket.Upgrader
	startTime time.Time

	// Set by Start; Stop only runs after a successful Start.
	broker     Broker
	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a bridge server. Nothing is bound or dialed until Start.
func NewServer(cfg *Config, dialer Dialer) *Server {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		config:   cfg,
		dialer:   dialer,
		metrics:  NewMetrics(),
		sessions: newSessionRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser dashboards are served from other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start binds the websocket port, connects to the broker and begins serving.
// On failure everything acquired so far is released.
func (s *Server) Start() error {
	logging.Info("Starting websocket server %s on %s", s.config.InstanceName, s.config.ListenAddr())

	listener, err := netutil.BindTCP(s.config.BindAddr, s.config.Port)
	if err != nil {
		return fmt.Errorf("failed to bind websocket port: %w", err)
	}

	logging.Info("Connecting to broker at %s as %s", s.config.BrokerAddr, s.config.BrokerUser)
	broker, err := s.dialer.Dial(s.config)
	if err != nil {
		listener.Close()
		if netutil.IsConnectionRefusedError(err) {
			logging.Warn("Broker at %s refused the connection; is RabbitMQ running?", s.config.BrokerAddr)
		}
		return fmt.Errorf("failed to connect to broker at %s: %w", s.config.BrokerAddr, err)
	}

	s.broker = broker
	s.listener = listener

	// Record the OS-assigned port when port 0 was requested.
	if port, err := netutil.ListenerPort(listener); err == nil {
		s.config.Port = port
	}
	s.startTime = time.Now()

	s.httpServer = &http.Server{
		Handler:           s.newRouter(),
		ErrorLog:          logging.StandardLogger(logging.LevelWarn, "http"),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Websocket server failed: %v", err)
		}
	}()

	logging.Success("Websocket server listening on %s", s.config.ListenAddr())
	return nil
}

// newRouter builds the gin engine with middleware and routes.
func (s *Server) newRouter() *gin.Engine {
	gin.DefaultWriter = logging.NewLevelWriter(logging.LevelDebug, "gin")
	gin.DefaultErrorWriter = logging.NewLevelWriter(logging.LevelError, "gin")

	// Route registration is only worth seeing with --log=debug
	if logging.IsDebugEnabled() {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.Recovery())

	s.setupRoutes(router)
	return router
}

// Stop shuts the HTTP server down, closes every websocket session and closes
// the broker connection. All steps run; their errors are joined.
func (s *Server) Stop() error {
	logging.Info("Shutting down websocket server...")

	var errs []error

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	// Hijacked websocket connections are not tracked by http.Server.
	s.sessions.closeAll()

	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("broker close: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// SessionCount returns the number of open websocket sessions.
func (s *Server) SessionCount() int {
	return s.sessions.count()
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// handleHealth delegates to handlers.HandleHealth
func (s *Server) handleHealth(c *gin.Context) {
	handler := handlers.HandleHealth(version.CbwsVersion, s.startTime, s.stats)
	handler(c)
}

func (s *Server) stats() handlers.Stats {
	return handlers.Stats{
		Sessions:        s.sessions.count(),
		BrokerConnected: s.broker != nil && s.broker.Connected(),
	}
}
