// internal/signaling/queue.go
package signaling

import "github.com/google/uuid"

// Find enqueues the client at the tail of mode's queue, after removing it
// from whatever queue it currently occupies, then runs the matchmaker for
// that mode. Enqueue-then-match is one atomic step under the server lock:
// there is no observable state where a satisfiable match is left pending.
func (s *Server) Find(id uuid.UUID, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return
	}
	if _, known := s.queues[mode]; !known {
		return
	}
	s.removeFromQueuesUnsafe(c)
	s.queues[mode] = append(s.queues[mode], c)
	c.mode = mode
	s.matchUnsafe(mode)
}

// removeFromQueuesUnsafe removes the client from every mode's queue.
// Idempotent. Assumes the lock is held.
func (s *Server) removeFromQueuesUnsafe(c *Client) {
	for mode, q := range s.queues {
		for i, waiting := range q {
			if waiting.ID == c.ID {
				s.queues[mode] = append(q[:i], q[i+1:]...)
				break
			}
		}
	}
	c.mode = ""
}
