package handlers

import (
	"log/slog"
	"sync"
)

// ClientManager manages connected clients
type ClientManager struct {
	clients map[string]*ClientHandler // Map connection ID to ClientHandler
	mutex   sync.RWMutex
	logger  *slog.Logger
}

// NewClientManager creates a new client manager
func NewClientManager(logger *slog.Logger) *ClientManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
		logger:  logger,
	}
}

// AddClient adds a client to the manager
func (cm *ClientManager) AddClient(connID string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[connID] = handler
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(connID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, connID)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			cm.logger.Warn("error broadcasting to client", "conn_id", id, "error", err)
		}
	}
}

// CloseAll closes the outgoing queue of every client
func (cm *ClientManager) CloseAll() {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, client := range cm.clients {
		client.conn.Close()
	}
}
