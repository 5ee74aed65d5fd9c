package gateway

import (
	"sync"
)

// Registry tracks all live connections. It is the source of truth for the
// online count, which is always read from the collection size rather than
// tracked incrementally.
type Registry struct {
	connections map[string]*Connection // connection_id -> connection
	mu          sync.RWMutex
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]*Connection),
	}
}

// Add adds a connection to the registry
func (r *Registry) Add(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.ID] = conn
}

// Remove removes a connection from the registry. Returns whether it was present.
func (r *Registry) Remove(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.connections[connectionID]
	if exists {
		delete(r.connections, connectionID)
	}
	return exists
}

// Get retrieves a connection by ID
func (r *Registry) Get(connectionID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, exists := r.connections[connectionID]
	return conn, exists
}

// GetAll retrieves a snapshot of all connections
func (r *Registry) GetAll() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connections := make([]*Connection, 0, len(r.connections))
	for _, conn := range r.connections {
		connections = append(connections, conn)
	}
	return connections
}

// Count returns the total number of connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
