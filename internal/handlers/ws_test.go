// internal/handlers/ws_test.go
package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senvo/signaling/internal/middleware"
	"github.com/senvo/signaling/internal/signaling"
)

// TestUpgradeThroughLoggingMiddleware mounts the handlers behind the same
// middleware-wrapped mux the server binary builds, and checks that the
// websocket upgrade (which hijacks the connection) still works through
// the wrapper, end to end until a match.
func TestUpgradeThroughLoggingMiddleware(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := signaling.NewServer(logger)

	mux := http.NewServeMux()
	mux.Handle("/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		HealthHandler,
	)))
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		WSHandler(logger, srv),
	)))

	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	a, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"signaling"},
	})
	require.NoError(t, err, "upgrade must succeed through the logging middleware")
	defer a.Close(websocket.StatusNormalClosure, "")
	b, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"signaling"},
	})
	require.NoError(t, err)
	defer b.Close(websocket.StatusNormalClosure, "")

	find := map[string]interface{}{"type": "find", "mode": "voice"}
	require.NoError(t, wsjson.Write(ctx, a, find))
	require.NoError(t, wsjson.Write(ctx, b, find))

	var matched map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, a, &matched))
	assert.Equal(t, "matched", matched["type"])
	assert.Equal(t, "voice", matched["mode"])
}

// TestSignalingEndToEnd drives two real websocket clients through the
// full flow: find a match, exchange an offer, chat in the matched room.
func TestSignalingEndToEnd(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := signaling.NewServer(logger)

	ts := httptest.NewServer(WSHandler(logger, srv))
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dial := func() *websocket.Conn {
		c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
			Subprotocols: []string{"signaling"},
		})
		require.NoError(t, err)
		return c
	}
	readEvent := func(c *websocket.Conn) map[string]interface{} {
		var ev map[string]interface{}
		require.NoError(t, wsjson.Read(ctx, c, &ev))
		return ev
	}

	a := dial()
	defer a.Close(websocket.StatusNormalClosure, "")
	b := dial()
	defer b.Close(websocket.StatusNormalClosure, "")

	find := map[string]interface{}{"type": "find", "mode": "video"}
	require.NoError(t, wsjson.Write(ctx, a, find))
	require.NoError(t, wsjson.Write(ctx, b, find))

	matchedA := readEvent(a)
	matchedB := readEvent(b)
	require.Equal(t, "matched", matchedA["type"])
	require.Equal(t, "matched", matchedB["type"])
	assert.Equal(t, "video", matchedA["mode"])
	assert.Equal(t, matchedA["room"], matchedB["room"])

	peersA := readEvent(a)
	require.Equal(t, "peers-in-room", peersA["type"])
	assert.Len(t, peersA["peers"], 2)
	peersB := readEvent(b)
	require.Equal(t, "peers-in-room", peersB["type"])

	// matchedB carries A's identity, and vice versa.
	aID, _ := matchedB["peerId"].(string)
	bID, _ := matchedA["peerId"].(string)
	require.NotEmpty(t, aID)
	require.NotEmpty(t, bID)

	// A sends B an offer; B sees it stamped with A's identity.
	offer := map[string]interface{}{
		"type": "offer",
		"to":   bID,
		"sdp":  map[string]interface{}{"type": "offer", "sdp": "v=0"},
	}
	require.NoError(t, wsjson.Write(ctx, a, offer))

	relayed := readEvent(b)
	require.Equal(t, "offer", relayed["type"])
	assert.Equal(t, aID, relayed["from"])
	assert.NotNil(t, relayed["sdp"])

	// B chats in the matched room; only A receives it.
	room, _ := matchedA["room"].(string)
	chat := map[string]interface{}{"type": "message", "room": room, "text": "hi"}
	require.NoError(t, wsjson.Write(ctx, b, chat))

	msg := readEvent(a)
	require.Equal(t, "message", msg["type"])
	assert.Equal(t, bID, msg["from"])
	assert.Equal(t, "hi", msg["text"])
}

// TestSelfAddressedOfferNotDelivered checks the self-target guard across
// the wire: the sender must not receive its own offer back.
func TestSelfAddressedOfferNotDelivered(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	srv := signaling.NewServer(logger)

	ts := httptest.NewServer(WSHandler(logger, srv))
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"signaling"},
	})
	require.NoError(t, err)
	defer a.Close(websocket.StatusNormalClosure, "")
	b, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"signaling"},
	})
	require.NoError(t, err)
	defer b.Close(websocket.StatusNormalClosure, "")

	find := map[string]interface{}{"type": "find", "mode": "text"}
	require.NoError(t, wsjson.Write(ctx, a, find))
	require.NoError(t, wsjson.Write(ctx, b, find))

	var matchedB map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, b, &matchedB))
	require.Equal(t, "matched", matchedB["type"])
	aID, _ := matchedB["peerId"].(string)

	// A targets itself; nothing may come back. B then sends a real offer,
	// which must be the next (and only) thing A's match feed delivers.
	var matchedA map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, a, &matchedA)) // matched
	var peersA map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, a, &peersA)) // peers-in-room

	self := map[string]interface{}{
		"type": "offer",
		"to":   aID,
		"sdp":  map[string]interface{}{"sdp": "v=0"},
	}
	require.NoError(t, wsjson.Write(ctx, a, self))

	fromPeer := map[string]interface{}{
		"type": "offer",
		"to":   aID,
		"sdp":  map[string]interface{}{"sdp": "v=0"},
	}
	require.NoError(t, wsjson.Write(ctx, b, fromPeer))

	var next map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, a, &next))
	require.Equal(t, "offer", next["type"])
	assert.Equal(t, matchedA["peerId"], next["from"], "the only delivered offer is the peer's, not the self-addressed one")
}
