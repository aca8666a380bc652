// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/senvo/signaling/internal/middleware"
	"github.com/senvo/signaling/internal/signaling"
)

// Envelope is the JSON wire shape for every inbound client event. Fields
// not used by a given event type are absent.
type Envelope struct {
	Type      string          `json:"type"`
	Mode      string          `json:"mode,omitempty"`
	Room      string          `json:"room,omitempty"`
	To        string          `json:"to,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Text      string          `json:"text,omitempty"`
}

// WSHandler upgrades the connection, assigns the client its identity, and
// runs the read/write pumps until the connection goes away. Disconnect
// teardown happens exactly once, after the read pump exits.
func WSHandler(logger *logrus.Logger, srv *signaling.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:    []string{"signaling"},
			OriginPatterns:  []string{"*"}, // Adjust in production
			CompressionMode: websocket.CompressionContextTakeover,
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "signaling" {
			c.Close(BadSubprotocolError, "client must speak the signaling subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		client := signaling.NewClient(uuid.New())
		client.Cancel = cancel
		srv.Register(client)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		go writePump(ctx, c, client, logger)
		err = readPump(ctx, c, client, srv, logger)

		srv.Disconnect(client.ID)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	}
}

// readPump decodes inbound events and dispatches them into the engine.
// It returns the read error that ended the connection, nil for a normal
// closure.
func readPump(ctx context.Context, c *websocket.Conn, client *signaling.Client, srv *signaling.Server, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			logger.Warnf("client %s sent non-text message type %d, ignoring", client.ID, typ)
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Warnf("client %s sent invalid json: %v", client.ID, err)
			continue
		}
		dispatch(client, srv, env, logger)
	}
}

// dispatch routes one inbound event into the engine. Every rejection here
// is silent toward the client; the protocol is fire-and-forget.
func dispatch(client *signaling.Client, srv *signaling.Server, env Envelope, logger *logrus.Logger) {
	switch env.Type {
	case "find":
		mode, ok := signaling.ParseMode(env.Mode)
		if !ok {
			logger.Warnf("client %s requested unknown mode %q", client.ID, env.Mode)
			return
		}
		srv.Find(client.ID, mode)
	case "join-room":
		srv.JoinRoom(client.ID, env.Room)
	case "leave-room":
		srv.LeaveRoom(client.ID, env.Room)
	case "offer":
		forwardSignal(client, srv, signaling.EventOffer, env.To, env.SDP)
	case "answer":
		forwardSignal(client, srv, signaling.EventAnswer, env.To, env.SDP)
	case "ice-candidate":
		forwardSignal(client, srv, signaling.EventICECandidate, env.To, env.Candidate)
	case "message":
		srv.SendChat(client.ID, env.Room, env.Text)
	default:
		logger.Warnf("client %s sent unknown event type %q", client.ID, env.Type)
	}
}

// forwardSignal parses the destination identity and hands the opaque
// payload to the relay. Malformed destinations and empty payloads are
// dropped here, before reaching the engine.
func forwardSignal(client *signaling.Client, srv *signaling.Server, event, to string, payload json.RawMessage) {
	dest, err := uuid.Parse(to)
	if err != nil || len(payload) == 0 {
		return
	}
	srv.ForwardSignal(client.ID, event, dest, payload)
}

// writePump drains the client's OutChan onto the websocket and sends
// periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, client *signaling.Client, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("client %s: failed to marshal outgoing event: %v", client.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("client %s: websocket write failed: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("client %s: ping failed, assuming disconnect: %v", client.ID, err)
				return
			}
		}
	}
}
