// internal/signaling/server.go
package signaling

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Server owns all shared matchmaking state: the connection registry, the
// per-mode waiting queues, and the room membership table. A single mutex
// guards the whole unit; no other component mutates this state directly.
// Every transition is synchronous and in-memory, so nothing here blocks
// on I/O while the lock is held (client writes are non-blocking).
type Server struct {
	mu     sync.Mutex
	logger *logrus.Logger

	clients  map[uuid.UUID]*Client
	queues   map[Mode][]*Client
	matching map[Mode]bool
	rooms    map[string]map[uuid.UUID]*Client
}

// NewServer initializes an empty Server with a queue per mode.
func NewServer(logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		logger:   logger,
		clients:  make(map[uuid.UUID]*Client),
		queues:   make(map[Mode][]*Client, len(Modes)),
		matching: make(map[Mode]bool, len(Modes)),
		rooms:    make(map[string]map[uuid.UUID]*Client),
	}
	for _, m := range Modes {
		s.queues[m] = nil
		s.matching[m] = false
	}
	return s
}

// Register adds a freshly accepted connection to the registry.
func (s *Server) Register(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.logger = s.logger
	s.clients[c.ID] = c
	s.logger.Infof("client %s connected", c.ID)
}

// Disconnect is terminal: the client is removed from every queue and
// every room it was a member of, and the remaining members of each such
// room receive one peer-left notice. Safe to call for an unknown ID.
func (s *Server) Disconnect(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return
	}
	delete(s.clients, id)
	s.removeFromQueuesUnsafe(c)
	for room := range c.rooms {
		s.leaveRoomUnsafe(c, room)
	}
	if c.Cancel != nil {
		c.Cancel()
	}
	s.logger.Infof("client %s disconnected", id)
}
