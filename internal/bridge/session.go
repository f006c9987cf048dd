package bridge

import (
	"sync"
	"time"

	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/gorilla/websocket"
)

// session is one websocket client bound to one broker subscription.
//
// Only pump writes data frames. close may run from the reader, the pump, or
// Server.Stop; it uses WriteControl, which gorilla allows concurrently with
// other writers.
type session struct {
	id         string
	exchange   string
	routingKey string
	conn       *websocket.Conn
	sub        *Subscription
	writeWait  time.Duration

	done      chan struct{}
	closeOnce sync.Once
	outcome   string // set by the first close
}

func newSession(id, exchange, routingKey string, conn *websocket.Conn, sub *Subscription, writeWait time.Duration) *session {
	return &session{
		id:         id,
		exchange:   exchange,
		routingKey: routingKey,
		conn:       conn,
		sub:        sub,
		writeWait:  writeWait,
		done:       make(chan struct{}),
	}
}

// readLoop discards client frames and ends the session when the client goes
// away. Reading is also what lets gorilla answer pings and close frames.
func (s *session) readLoop() {
	defer s.close(websocket.CloseNormalClosure, "")
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("Session %s: read failed: %v", s.id, err)
			}
			return
		}
	}
}

// pump writes every delivery body as a text frame until the subscription
// ends or the session is closed.
func (s *session) pump(metrics *Metrics) {
	for {
		select {
		case body, ok := <-s.sub.Messages:
			if !ok {
				logging.Debug("Session %s: subscription ended", s.id)
				s.close(websocket.CloseGoingAway, "subscription ended")
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				logging.Debug("Session %s: write failed: %v", s.id, err)
				s.close(websocket.CloseAbnormalClosure, "")
				return
			}
			metrics.MessageForwarded()
		case <-s.done:
			return
		}
	}
}

// close sends a close frame (best effort) and releases the connection and
// the subscription. Only the first call has any effect.
func (s *session) close(code int, reason string) {
	s.closeOnce.Do(func() {
		close(s.done)
		s.outcome = closeOutcome(code, reason)

		if code != websocket.CloseAbnormalClosure {
			msg := websocket.FormatCloseMessage(code, reason)
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		}
		if err := s.sub.Close(); err != nil {
			logging.Debug("Session %s: closing subscription: %v", s.id, err)
		}
		s.conn.Close()
	})
}

// closeOutcome describes why a session ended, for the request log.
func closeOutcome(code int, reason string) string {
	switch {
	case reason != "":
		return reason
	case code == websocket.CloseAbnormalClosure:
		return "write failed"
	default:
		return "closed"
	}
}

// sessionRegistry tracks open sessions so Stop can close them.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// closeAll closes every open session with a going-away frame.
func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	open := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		open = append(open, s)
	}
	r.mu.Unlock()

	for _, s := range open {
		s.close(websocket.CloseGoingAway, "server shutting down")
	}
}
