// internal/signaling/events.go
package signaling

// Outbound event types delivered through a client's OutChan.
const (
	EventMatched      = "matched"
	EventPeersInRoom  = "peers-in-room"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventMessage      = "message"
	EventPeerLeft     = "peer-left"
)

// Bounds on client-supplied identifiers and payloads. Oversized values
// are dropped silently; the protocol has no negative-acknowledgment
// channel to report them on.
const (
	MaxRoomIDLength = 300
	MaxTextLength   = 2048
)
