// internal/signaling/client.go
package signaling

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client is one connected endpoint. The ID is assigned when the
// connection is accepted and is stable for its lifetime.
type Client struct {
	ID uuid.UUID

	// OutChan carries outbound events to the connection's write pump.
	OutChan chan map[string]interface{}
	// Cancel stops the goroutines attached to this connection. Assigned by
	// the transport handler; invoked on disconnect.
	Cancel func()

	// logger is inherited from the Server at registration.
	logger *logrus.Logger

	// The fields below are owned by the Server and only touched under its
	// lock.
	mode    Mode                // queue the client currently waits in, "" if none
	rooms   map[string]struct{} // rooms the client is a member of
	matched string              // current matched-session room, "" if none
}

// NewClient builds a client handle with a buffered out-channel.
func NewClient(id uuid.UUID) *Client {
	return &Client{
		ID:      id,
		OutChan: make(chan map[string]interface{}, 16),
		logger:  logrus.StandardLogger(),
		rooms:   make(map[string]struct{}),
	}
}

// Write pushes an event onto the client's OutChan without blocking.
// Events for a stalled or closed connection are dropped; delivery is
// best-effort.
func (c *Client) Write(msg map[string]interface{}) {
	select {
	case c.OutChan <- msg:
	default:
		msgType, _ := msg["type"].(string)
		c.logger.Warnf("client %s: OutChan full or closed, dropped %q event", c.ID, msgType)
	}
}
