package bridge

import (
	"net/http"

	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/cloudbrain/cbws/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// handleStream upgrades the request to a websocket and relays messages from
// the requested exchange until either side goes away.
//
// The broker subscription is made before the upgrade so that a bad exchange
// still gets a plain HTTP error the client can read.
func (s *Server) handleStream(c *gin.Context) {
	exchange := c.Query("exchange")
	if exchange == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exchange query parameter is required"})
		return
	}
	routingKey := c.DefaultQuery("routing_key", DefaultRoutingKey)
	c.Set(logKeyExchange, exchange)
	c.Set(logKeyRoutingKey, routingKey)

	sub, err := s.broker.Subscribe(exchange, routingKey)
	if err != nil {
		s.metrics.SubscribeFailed()
		logging.Warn("Subscribe to exchange %q (key %q) failed: %v", exchange, routingKey, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		sub.Close()
		logging.Debug("Websocket upgrade failed: %v", err)
		return
	}

	id, err := utils.GenerateID()
	if err != nil {
		logging.Error("Failed to generate session ID: %v", err)
		sub.Close()
		conn.Close()
		return
	}

	sess := newSession(id, exchange, routingKey, conn, sub, s.config.WriteWait)
	c.Set(logKeySession, id)
	s.sessions.add(sess)
	s.metrics.SessionOpened()
	logging.Info("Session %s opened: exchange=%q routing_key=%q client=%s", id, exchange, routingKey, c.ClientIP())

	defer func() {
		sess.close(websocket.CloseNormalClosure, "")
		c.Set(logKeyOutcome, sess.outcome)
		s.sessions.remove(id)
		s.metrics.SessionClosed()
		logging.Info("Session %s closed: %s", id, sess.outcome)
	}()

	go sess.readLoop()
	sess.pump(s.metrics)
}
