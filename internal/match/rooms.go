package match

import "github.com/google/uuid"

// Room is an unordered pair of connection identities under a unique room id.
type Room struct {
	ID      string
	Members [2]string
}

// Rooms is the registry of active paired sessions. It maintains the symmetric
// back-reference invariant: a room exists if and only if both members map to
// its id, and an identity belongs to at most one room. Not goroutine-safe;
// owned by the hub's event loop.
type Rooms struct {
	rooms    map[string]Room   // room id -> room
	byMember map[string]string // connection id -> room id
}

// NewRooms creates an empty room registry.
func NewRooms() *Rooms {
	return &Rooms{
		rooms:    make(map[string]Room),
		byMember: make(map[string]string),
	}
}

// Create allocates a fresh room holding a and b and returns its id.
func (r *Rooms) Create(a, b string) string {
	id := uuid.New().String()
	r.rooms[id] = Room{ID: id, Members: [2]string{a, b}}
	r.byMember[a] = id
	r.byMember[b] = id
	return id
}

// RoomOf returns the room id the connection is paired in, if any.
func (r *Rooms) RoomOf(connID string) (string, bool) {
	id, ok := r.byMember[connID]
	return id, ok
}

// Peer resolves the other member of connID's room, if connID is paired.
func (r *Rooms) Peer(connID string) (string, bool) {
	roomID, ok := r.byMember[connID]
	if !ok {
		return "", false
	}
	room := r.rooms[roomID]
	if room.Members[0] == connID {
		return room.Members[1], true
	}
	return room.Members[0], true
}

// Leave removes connID's room entirely: deletes the room and both members'
// back-references in one step, keeping the symmetric invariant. Returns the
// departed room's id and the peer's identity. Calling it again for the same
// connection is a no-op.
func (r *Rooms) Leave(connID string) (roomID, peerID string, ok bool) {
	roomID, ok = r.byMember[connID]
	if !ok {
		return "", "", false
	}
	room := r.rooms[roomID]
	if room.Members[0] == connID {
		peerID = room.Members[1]
	} else {
		peerID = room.Members[0]
	}
	delete(r.rooms, roomID)
	delete(r.byMember, room.Members[0])
	delete(r.byMember, room.Members[1])
	return roomID, peerID, true
}

// Count returns the number of active rooms.
func (r *Rooms) Count() int {
	return len(r.rooms)
}

// Consistent verifies the back-reference invariant. It exists for tests.
func (r *Rooms) Consistent() bool {
	if len(r.byMember) != 2*len(r.rooms) {
		return false
	}
	for id, room := range r.rooms {
		if r.byMember[room.Members[0]] != id || r.byMember[room.Members[1]] != id {
			return false
		}
	}
	return true
}
