// Package realtime fans chat messages out to websocket subscribers of an order group.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"agrimarket/config"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/errors"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/fx"
)

const (
	sendBufferSize      = 64
	writeWait           = 10 * time.Second
	defaultPingInterval = 30 * time.Second
	maxInboundBytes     = 8 << 10

	genericSendError = "Message could not be sent"
)

// InboundFunc handles a text frame received from a subscriber.
type InboundFunc func(ctx context.Context, room string, senderID uuid.UUID, text string) error

// Event is the frame pushed to subscribers.
type Event struct {
	Type    string          `json:"type"`
	Message *entity.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client is one websocket subscription to a room.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	room   string
	userID uuid.UUID
}

type roomMessage struct {
	room string
	to   []uuid.UUID // empty means every subscriber of the room
	data []byte
}

type clientMessage struct {
	client *Client
	data   []byte
}

// Hub tracks subscribers per room. All room state is owned by the Run goroutine.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	direct     chan clientMessage
	done       chan struct{}

	upgrader     websocket.Upgrader
	pingInterval time.Duration
	logger       *slog.Logger
}

// HubParams defines the required parameters
type HubParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewHub creates the hub and runs it for the lifetime of the app.
func NewHub(params HubParams) *Hub {
	var origins []string
	pingInterval := defaultPingInterval
	if cfg := params.Config.Chat; cfg != nil {
		origins = cfg.AllowedOrigins
		if cfg.PingInterval > 0 {
			pingInterval = cfg.PingInterval
		}
	}

	hub := newHub(origins, pingInterval, params.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})

	return hub
}

// AsBroadcaster exposes the hub through the domain interface.
func AsBroadcaster(hub *Hub) service.ChatBroadcaster {
	return hub
}

func newHub(allowedOrigins []string, pingInterval time.Duration, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, sendBufferSize),
		direct:     make(chan clientMessage, sendBufferSize),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// originChecker allows every origin when the list is empty or contains "*".
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
			}
			h.rooms = make(map[string]map[*Client]struct{})

			return

		case c := <-h.register:
			if h.rooms[c.room] == nil {
				h.rooms[c.room] = make(map[*Client]struct{})
			}
			h.rooms[c.room][c] = struct{}{}

		case c := <-h.unregister:
			h.remove(c)

		case m := <-h.direct:
			if _, ok := h.rooms[m.client.room][m.client]; ok {
				select {
				case m.client.send <- m.data:
				default:
				}
			}

		case m := <-h.broadcast:
			for c := range h.rooms[m.room] {
				if len(m.to) > 0 && !slices.Contains(m.to, c.userID) {
					continue
				}
				select {
				case c.send <- m.data:
				default:
					// Slow consumer: drop it rather than block the room.
					h.remove(c)
				}
			}
		}
	}
}

// remove closes c.send exactly once, only while c is still registered.
func (h *Hub) remove(c *Client) {
	clients := h.rooms[c.room]
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.room)
	}
}

// Broadcast pushes message to the sender's and receiver's subscriptions in its order group.
func (h *Hub) Broadcast(message *entity.Message) {
	data, err := json.Marshal(Event{Type: "message", Message: message})
	if err != nil {
		h.logger.Error("Failed to encode chat event", slog.Any("error", err))

		return
	}

	select {
	case h.broadcast <- roomMessage{room: message.OrderGroupID, to: []uuid.UUID{message.SenderID, message.ReceiverID}, data: data}:
	case <-h.done:
	}
}

// Serve upgrades the request and attaches the connection to room until either side closes.
// Each frame received is passed to onInbound when it is non-nil.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, room string, userID uuid.UUID, onInbound InboundFunc) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		room:   room,
		userID: userID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		return conn.Close()
	}

	go h.writePump(client)
	h.readPump(r.Context(), client, onInbound)

	return nil
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(ctx context.Context, c *Client, onInbound InboundFunc) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if onInbound == nil {
			continue
		}

		var in struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			h.reply(c, Event{Type: "error", Error: "invalid payload"})

			continue
		}
		if err := onInbound(ctx, c.room, c.userID, in.Text); err != nil {
			h.reply(c, Event{Type: "error", Error: h.clientError(err)})
		}
	}
}

// clientError exposes domain messages only. Anything else is logged and
// replaced so storage errors never reach the socket.
func (h *Hub) clientError(err error) string {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if details := appErr.Details(); details != "" {
			return appErr.Message() + ": " + details
		}

		return appErr.Message()
	}

	h.logger.Warn("Chat stream message failed", slog.Any("error", err))

	return genericSendError
}

// reply queues an event for a single client through the Run goroutine.
func (h *Hub) reply(c *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	select {
	case h.direct <- clientMessage{client: c, data: data}:
	case <-h.done:
	}
}
