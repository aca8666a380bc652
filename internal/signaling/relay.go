// internal/signaling/relay.go
package signaling

import "github.com/google/uuid"

// ForwardSignal relays a connection-setup payload (offer, answer or ICE
// candidate) to the destination client, stamped with the sender identity.
// The payload is opaque to the server and passed through verbatim.
// Self-addressed or unknown destinations are dropped without notice: a
// client targeting itself is malformed or looping, and the protocol has
// no channel to report errors back on.
func (s *Server) ForwardSignal(senderID uuid.UUID, event string, to uuid.UUID, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if to == senderID {
		return
	}
	dest, ok := s.clients[to]
	if !ok {
		return
	}
	key := "sdp"
	if event == EventICECandidate {
		key = "candidate"
	}
	dest.Write(map[string]interface{}{
		"type": event,
		"from": senderID.String(),
		key:    payload,
	})
}

// SendChat relays a chat line to every member of the room except the
// sender. The sender identity comes from the connection, never from the
// payload. Empty text and oversized text or room identifiers are dropped.
func (s *Server) SendChat(senderID uuid.UUID, room, text string) {
	if room == "" || len(room) > MaxRoomIDLength {
		return
	}
	if text == "" || len(text) > MaxTextLength {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[senderID]; !ok {
		return
	}
	for id, peer := range s.rooms[room] {
		if id == senderID {
			continue
		}
		peer.Write(map[string]interface{}{
			"type": EventMessage,
			"from": senderID.String(),
			"text": text,
		})
	}
}
