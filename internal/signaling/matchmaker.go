// internal/signaling/matchmaker.go
package signaling

// TryMatch pairs waiting clients in the given mode's queue. Exposed for
// external triggers; Find calls the locked variant directly.
func (s *Server) TryMatch(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchUnsafe(mode)
}

// matchUnsafe drains mode's queue while it holds at least two entries,
// pairing the two earliest-enqueued clients. An invocation for a mode
// already being matched is suppressed: the running invocation drains the
// queue below two before returning, so a second pass has nothing to do.
// Assumes the lock is held.
func (s *Server) matchUnsafe(mode Mode) {
	if s.matching[mode] {
		return
	}
	s.matching[mode] = true
	defer func() { s.matching[mode] = false }()

	for len(s.queues[mode]) >= 2 {
		q := s.queues[mode]
		a, b := q[0], q[1]
		s.queues[mode] = q[2:]

		// A duplicate entry can only come from a stale handle; discard both
		// slots without re-enqueuing.
		if a.ID == b.ID {
			continue
		}

		// Stale handles are discarded; a still-connected partner keeps its
		// place at the head of the queue.
		if s.clients[a.ID] != a {
			if s.clients[b.ID] == b {
				s.queues[mode] = append([]*Client{b}, s.queues[mode]...)
			}
			continue
		}
		if s.clients[b.ID] != b {
			s.queues[mode] = append([]*Client{a}, s.queues[mode]...)
			continue
		}

		// Defensive: either client may have re-enqueued elsewhere since
		// entering this queue.
		s.removeFromQueuesUnsafe(a)
		s.removeFromQueuesUnsafe(b)

		room := s.createMatchedRoomUnsafe(a, b)
		s.logger.Infof("matched %s and %s in %s (room %s)", a.ID, b.ID, mode, room)

		a.Write(matchedEvent(b, mode, room))
		b.Write(matchedEvent(a, mode, room))

		peers := []string{a.ID.String(), b.ID.String()}
		for _, c := range []*Client{a, b} {
			c.Write(map[string]interface{}{
				"type":  EventPeersInRoom,
				"room":  room,
				"peers": peers,
			})
		}
	}
}

// matchedEvent builds the pairing outcome payload announcing peer as the
// counterpart.
func matchedEvent(peer *Client, mode Mode, room string) map[string]interface{} {
	return map[string]interface{}{
		"type":   EventMatched,
		"peerId": peer.ID.String(),
		"mode":   string(mode),
		"room":   room,
	}
}
