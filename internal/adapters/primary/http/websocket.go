package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Clients only ever send control frames
	maxMessageSize = 512
)

// WebSocketClient is one browser listening for post changes
type WebSocketClient struct {
	id      string
	conn    *websocket.Conn
	send    chan ports.UpdateEvent
	manager *ConnectionManager
	logger  *HTTPLogger
}

func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.isValidOrigin,
	}
}

// handleWebSocket upgrades the request and subscribes the client to post events
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		id:      uuid.New().String(),
		conn:    conn,
		send:    make(chan ports.UpdateEvent, 16),
		manager: s.connMgr,
		logger:  s.logger,
	}

	// queue the greeting before the writer starts so it is always first
	client.send <- ports.UpdateEvent{
		Type:      ports.EventTypeConnected,
		Timestamp: time.Now(),
		Data:      map[string]string{"client_id": client.id},
	}

	s.connMgr.RegisterConnection(&Connection{ID: client.id, Send: client.send})
	s.logger.Debug("WebSocket client %s connected", client.id)

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pongs and close frames are processed
func (c *WebSocketClient) readPump() {
	defer func() {
		c.manager.Unregister(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket client %s: %v", c.id, err)
			}
			return
		}
	}
}

// writePump sends queued events and keeps the connection alive with pings
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isValidOrigin allows same-origin requests, local and private hosts in
// development, and the configured CORS origins otherwise
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil || originURL.Host == "" {
		s.logger.Warn("WebSocket connection rejected: invalid origin %q", origin)
		return false
	}

	if strings.EqualFold(originURL.Host, r.Host) {
		return true
	}

	if s.config.Server.IsDevelopment() && isDevelopmentHost(originURL.Hostname()) {
		return true
	}

	for _, allowed := range s.config.Server.GetCORSOrigins() {
		if allowed == "*" || originURL.Scheme+"://"+originURL.Host == allowed {
			return true
		}
		if strings.HasPrefix(allowed, "*.") && strings.HasSuffix(originURL.Hostname(), allowed[1:]) {
			return true
		}
	}

	s.logger.Warn("WebSocket connection rejected: origin %s not allowed", origin)
	return false
}

// isDevelopmentHost reports loopback and RFC 1918 private hosts
func isDevelopmentHost(hostname string) bool {
	switch hostname {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}

	if strings.HasPrefix(hostname, "192.168.") || strings.HasPrefix(hostname, "10.") {
		return true
	}

	// 172.16.0.0 - 172.31.255.255
	parts := strings.Split(hostname, ".")
	if len(parts) == 4 && parts[0] == "172" {
		switch parts[1] {
		case "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "31":
			return true
		}
	}
	return false
}
