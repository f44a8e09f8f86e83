package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Quill/internal/core/engagement"
	"Quill/internal/core/presence"
)

// recordingLiker captures reactions routed in from the socket
type recordingLiker struct {
	mu    sync.Mutex
	calls []string // "postID/userID"
}

func (l *recordingLiker) Like(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, postID+"/"+userID)
	return &engagement.ReactionResult{ID: "like-1", PostID: postID}, nil
}

func (l *recordingLiker) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func TestPush_UnknownSession(t *testing.T) {
	gateway := NewGateway(presence.NewRegistry())

	err := gateway.Push("ghost-session", "newNotification", map[string]string{"id": "n-1"})
	assert.ErrorIs(t, err, ErrSessionGone)
}

// dialGateway connects a test client to a gateway served over httptest
func dialGateway(t *testing.T, gateway *Gateway) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(gateway.HandleWS))
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}

	return conn, func() {
		_ = conn.Close()
		server.Close()
	}
}

// waitForSession polls the registry until the user's session appears
func waitForSession(t *testing.T, registry *presence.Registry, userID string) string {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if entry, ok := registry.LookupByUser(userID); ok {
			return entry.SessionID
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %s never registered a session", userID)
	return ""
}

func TestGateway_RegisterAndPush(t *testing.T) {
	registry := presence.NewRegistry()
	gateway := NewGateway(registry)

	conn, cleanup := dialGateway(t, gateway)
	defer cleanup()

	register, err := json.Marshal(map[string]interface{}{
		"event": "newUser",
		"data":  map[string]string{"userId": "u-1"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, register))

	sessionID := waitForSession(t, registry, "u-1")

	payload := map[string]string{"deliveryId": "d-1", "message": "Alice has liked your post"}
	require.NoError(t, gateway.Push(sessionID, "newNotification", payload))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "newNotification", got.Event)
	assert.Equal(t, "d-1", got.Data["deliveryId"])
}

func TestGateway_InboundReactionRunsLikePipeline(t *testing.T) {
	registry := presence.NewRegistry()
	gateway := NewGateway(registry)
	liker := &recordingLiker{}
	gateway.BindLiker(liker)

	conn, cleanup := dialGateway(t, gateway)
	defer cleanup()

	register, err := json.Marshal(map[string]interface{}{
		"event": "newUser",
		"data":  map[string]string{"userId": "u-1"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, register))
	waitForSession(t, registry, "u-1")

	react, err := json.Marshal(map[string]interface{}{
		"event": "sendNotification",
		"data":  map[string]string{"postId": "p-1"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, react))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls := liker.snapshot(); len(calls) > 0 {
			assert.Equal(t, []string{"p-1/u-1"}, calls)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("reaction never reached the like pipeline")
}

func TestGateway_ReactionBeforeRegisterIsDropped(t *testing.T) {
	registry := presence.NewRegistry()
	gateway := NewGateway(registry)
	liker := &recordingLiker{}
	gateway.BindLiker(liker)

	conn, cleanup := dialGateway(t, gateway)
	defer cleanup()

	react, err := json.Marshal(map[string]interface{}{
		"event": "sendNotification",
		"data":  map[string]string{"postId": "p-1"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, react))

	// The session has no registered user, so there is no actor to credit
	register, err := json.Marshal(map[string]interface{}{
		"event": "newUser",
		"data":  map[string]string{"userId": "u-1"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, register))
	waitForSession(t, registry, "u-1")

	assert.Empty(t, liker.snapshot())
}

func TestGateway_UnknownClientEventIgnored(t *testing.T) {
	registry := presence.NewRegistry()
	gateway := NewGateway(registry)

	conn, cleanup := dialGateway(t, gateway)
	defer cleanup()

	noise, err := json.Marshal(map[string]string{"event": "typing"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, noise))

	// The session survives and can still register afterwards
	register, err := json.Marshal(map[string]interface{}{
		"event": "newUser",
		"data":  map[string]string{"userId": "u-2"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, register))

	waitForSession(t, registry, "u-2")
}

func TestGateway_DisconnectClearsPresence(t *testing.T) {
	registry := presence.NewRegistry()
	gateway := NewGateway(registry)

	conn, cleanup := dialGateway(t, gateway)

	register, err := json.Marshal(map[string]interface{}{
		"event": "newUser",
		"data":  map[string]string{"userId": "u-3"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, register))

	sessionID := waitForSession(t, registry, "u-3")
	cleanup()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := registry.LookupByUser("u-3"); !ok {
			// Pushing to the drained session now fails cleanly
			assert.ErrorIs(t, gateway.Push(sessionID, "newNotification", nil), ErrSessionGone)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("session was not removed from the registry after disconnect")
}
