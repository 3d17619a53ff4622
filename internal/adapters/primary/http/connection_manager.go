package http

import (
	"context"
	"sync"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// Connection is a registered websocket client's outbound queue
type Connection struct {
	ID   string
	Send chan ports.UpdateEvent
}

// ConnectionManager fans post events out to websocket clients
type ConnectionManager struct {
	connections map[string]*Connection
	broadcast   chan ports.UpdateEvent
	register    chan *Connection
	unregister  chan string
	mu          sync.RWMutex
	done        chan struct{}
	closeOnce   sync.Once
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*Connection),
		broadcast:   make(chan ports.UpdateEvent, 256),
		register:    make(chan *Connection),
		unregister:  make(chan string),
		done:        make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled
func (cm *ConnectionManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			cm.CloseAll()
			return
		case <-cm.done:
			return

		case conn := <-cm.register:
			cm.mu.Lock()
			cm.connections[conn.ID] = conn
			cm.mu.Unlock()

		case id := <-cm.unregister:
			cm.remove(id)

		case event := <-cm.broadcast:
			cm.mu.Lock()
			for id, conn := range cm.connections {
				select {
				case conn.Send <- event:
				default:
					// slow client: drop it rather than block everyone else
					close(conn.Send)
					delete(cm.connections, id)
				}
			}
			cm.mu.Unlock()
		}
	}
}

func (cm *ConnectionManager) remove(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if conn, ok := cm.connections[id]; ok {
		delete(cm.connections, id)
		close(conn.Send)
	}
}

// RegisterConnection adds a connection; it is a no-op once the manager stopped
func (cm *ConnectionManager) RegisterConnection(conn *Connection) {
	select {
	case cm.register <- conn:
	case <-cm.done:
	}
}

// Unregister removes a connection and closes its queue
func (cm *ConnectionManager) Unregister(connID string) {
	select {
	case cm.unregister <- connID:
	case <-cm.done:
	}
}

// Broadcast queues an event for every connection
func (cm *ConnectionManager) Broadcast(event ports.UpdateEvent) {
	select {
	case cm.broadcast <- event:
	case <-cm.done:
	}
}

// Count returns the number of live connections
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll stops the manager and closes every connection
func (cm *ConnectionManager) CloseAll() {
	cm.closeOnce.Do(func() { close(cm.done) })

	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id, conn := range cm.connections {
		close(conn.Send)
		delete(cm.connections, id)
	}
}
