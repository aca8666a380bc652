// internal/signaling/rooms.go
package signaling

import "github.com/google/uuid"

// JoinRoom adds explicit membership in a caller-named room, with no
// pairing side effects. Empty or oversized identifiers are dropped.
func (s *Server) JoinRoom(id uuid.UUID, room string) {
	if room == "" || len(room) > MaxRoomIDLength {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return
	}
	s.joinRoomUnsafe(c, room)
	s.logger.Infof("client %s joined room %s", id, room)
}

// LeaveRoom drops the client's membership and notifies the remaining
// members. No-op if the client was not a member.
func (s *Server) LeaveRoom(id uuid.UUID, room string) {
	if room == "" || len(room) > MaxRoomIDLength {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return
	}
	if _, member := c.rooms[room]; !member {
		return
	}
	s.leaveRoomUnsafe(c, room)
	s.logger.Infof("client %s left room %s", id, room)
}

// createMatchedRoomUnsafe registers a two-party room for a fresh pairing.
// The room identity is derived from the participant identities, so no
// allocator is needed. A client holds at most one matched session at a
// time: any previous matched room is left first, notifying its remaining
// member. Assumes the lock is held.
func (s *Server) createMatchedRoomUnsafe(a, b *Client) string {
	for _, c := range []*Client{a, b} {
		if c.matched != "" {
			s.leaveRoomUnsafe(c, c.matched)
		}
	}
	room := a.ID.String() + "#" + b.ID.String()
	s.joinRoomUnsafe(a, room)
	s.joinRoomUnsafe(b, room)
	a.matched = room
	b.matched = room
	return room
}

// joinRoomUnsafe records membership on both sides of the relation.
// Assumes the lock is held.
func (s *Server) joinRoomUnsafe(c *Client, room string) {
	members, ok := s.rooms[room]
	if !ok {
		members = make(map[uuid.UUID]*Client)
		s.rooms[room] = members
	}
	members[c.ID] = c
	c.rooms[room] = struct{}{}
}

// leaveRoomUnsafe removes membership and sends one peer-left to every
// remaining member. Rooms have no lifecycle of their own: the entry
// disappears with its last member. Assumes the lock is held.
func (s *Server) leaveRoomUnsafe(c *Client, room string) {
	members, ok := s.rooms[room]
	if !ok {
		return
	}
	if _, member := members[c.ID]; !member {
		return
	}
	delete(members, c.ID)
	delete(c.rooms, room)
	if c.matched == room {
		c.matched = ""
	}
	if len(members) == 0 {
		delete(s.rooms, room)
		return
	}
	for _, peer := range members {
		peer.Write(map[string]interface{}{
			"type":   EventPeerLeft,
			"peerId": c.ID.String(),
			"room":   room,
		})
	}
}
