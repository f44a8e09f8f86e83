// Package realtime accepts WebSocket connections and pushes events to
// individual sessions. Delivery is best effort; a slow or gone client
// never blocks the caller.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"Quill/internal/core/engagement"
	"Quill/internal/core/presence"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// sendBuffer bounds per-client outbound queue; overflow drops the event
	sendBuffer = 16
)

var (
	// ErrSessionGone is returned when the target session has no live connection
	ErrSessionGone = errors.New("session is not connected")

	// ErrClientBusy is returned when the client's outbound buffer is full
	ErrClientBusy = errors.New("client send buffer is full")
)

// envelope is the wire format in both directions
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// registerData is the payload of the client's newUser event
type registerData struct {
	UserID string `json:"userId"`
}

// reactData is the payload of the client's sendNotification event
type reactData struct {
	PostID string `json:"postId"`
}

// Liker runs the like toggle for a reaction arriving over the socket.
// Satisfied by the engagement service.
type Liker interface {
	Like(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Gateway upgrades HTTP requests to WebSocket sessions and tracks them in
// the presence registry. It implements the notification pipeline's Pusher.
type Gateway struct {
	registry *presence.Registry
	upgrader websocket.Upgrader
	liker    Liker

	mu      sync.RWMutex
	clients map[string]*client
}

// NewGateway creates a gateway backed by the given presence registry.
func NewGateway(registry *presence.Registry) *Gateway {
	return &Gateway{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// BindLiker wires the service that inbound sendNotification events run
// against. Called once during startup, before the gateway serves; the
// gateway is constructed first because it is also the notification
// pipeline's push transport.
func (g *Gateway) BindLiker(liker Liker) {
	g.liker = liker
}

// HandleWS upgrades the request and runs the session until the client
// disconnects.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	sessionID := uuid.NewString()
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	g.mu.Lock()
	g.clients[sessionID] = c
	g.mu.Unlock()

	log.Printf("[WS] session %s connected", sessionID)

	done := make(chan struct{})
	var closeOnce sync.Once

	go g.writePump(c, done, &closeOnce)
	g.readLoop(sessionID, c, done, &closeOnce)

	g.mu.Lock()
	delete(g.clients, sessionID)
	g.mu.Unlock()
	g.registry.Remove(sessionID)

	_ = conn.Close()
	log.Printf("[WS] session %s disconnected", sessionID)
}

// Push sends an event to one session. Implements notifications.Pusher.
func (g *Gateway) Push(sessionID, event string, payload interface{}) error {
	g.mu.RLock()
	c, ok := g.clients[sessionID]
	g.mu.RUnlock()
	if !ok {
		return ErrSessionGone
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	msg, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	select {
	case c.send <- msg:
		return nil
	default:
		return ErrClientBusy
	}
}

func (g *Gateway) readLoop(sessionID string, c *client, done chan struct{}, closeOnce *sync.Once) {
	defer closeOnce.Do(func() { close(done) })

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[WS] failed to set read deadline: %v", err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[WS] failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] session %s read error: %v", sessionID, err)
			}
			return
		}

		var ev envelope
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("[WS] session %s sent malformed event: %v", sessionID, err)
			continue
		}

		switch ev.Event {
		case "newUser":
			var reg registerData
			if err := json.Unmarshal(ev.Data, &reg); err != nil || reg.UserID == "" {
				log.Printf("[WS] session %s sent invalid newUser payload", sessionID)
				continue
			}
			g.registry.Register(sessionID, reg.UserID)
			log.Printf("[WS] session %s registered for user %s", sessionID, reg.UserID)
		case "sendNotification":
			var react reactData
			if err := json.Unmarshal(ev.Data, &react); err != nil || react.PostID == "" {
				log.Printf("[WS] session %s sent invalid sendNotification payload", sessionID)
				continue
			}
			entry, ok := g.registry.LookupBySession(sessionID)
			if !ok || g.liker == nil {
				log.Printf("[WS] session %s reacted before registering", sessionID)
				continue
			}
			if _, err := g.liker.Like(context.Background(), react.PostID, entry.UserID); err != nil {
				log.Printf("[WS] session %s like on post %s failed: %v", sessionID, react.PostID, err)
			}
		default:
			// Unknown client events are ignored rather than closing the session
		}
	}
}

func (g *Gateway) writePump(c *client, done chan struct{}, closeOnce *sync.Once) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("[WS] failed to set write deadline: %v", err)
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				closeOnce.Do(func() { close(done) })
				// Unblock the read loop so the session tears down
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				closeOnce.Do(func() { close(done) })
				_ = c.conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
