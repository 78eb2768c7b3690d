package realtime

import "sync"

type roomSet map[int64]struct{}
type connSet map[string]struct{}

type session struct {
	userID int64
	rooms  roomSet
}

// Registry tracks live connections: which authenticated user each one
// belongs to and which rooms it has joined. All state here is ephemeral and
// process-local; durable room membership lives in the directory.
//
// Registry is safe for concurrent use by multiple goroutines.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	rooms    map[int64]connSet
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		rooms:    make(map[int64]connSet),
	}
}

// Register records a freshly authenticated connection.
func (r *Registry) Register(connID string, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connID] = &session{
		userID: userID,
		rooms:  make(roomSet),
	}
}

// JoinRoom adds the room to the connection's joined set. Joining a room the
// connection is already in is a no-op. Unknown connections are ignored.
func (r *Registry) JoinRoom(connID string, roomID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return
	}
	sess.rooms[roomID] = struct{}{}

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(connSet)
	}
	r.rooms[roomID][connID] = struct{}{}
}

// LeaveRoom removes the room from the connection's joined set.
func (r *Registry) LeaveRoom(connID string, roomID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[connID]; ok {
		delete(sess.rooms, roomID)
	}
	r.removeFromRoom(connID, roomID)
}

// Unregister drops the connection and removes it from every room it joined.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return
	}
	for roomID := range sess.rooms {
		r.removeFromRoom(connID, roomID)
	}
	delete(r.sessions, connID)
}

// ConnectionsInRoom returns a snapshot of the connection ids currently
// joined to the room. A broadcast racing a concurrent join or leave may see
// either state; that is acceptable per the membership visibility contract.
func (r *Registry) ConnectionsInRoom(roomID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(conns))
	for connID := range conns {
		ids = append(ids, connID)
	}
	return ids
}

// UserFor reports the authenticated user behind a connection.
func (r *Registry) UserFor(connID string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	if !ok {
		return 0, false
	}
	return sess.userID, true
}

// caller must hold r.mu
func (r *Registry) removeFromRoom(connID string, roomID int64) {
	conns, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.rooms, roomID)
	}
}
