package ws

import (
	"context"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/metrics"
)

// Hub tracks connected clients and routes events to them. All client state is
// owned by the Run goroutine; other goroutines talk to it over channels.
type Hub struct {
	// clients maps userID → that user's open connections.
	clients map[primitive.ObjectID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	outbound   chan *outboundMsg

	// stopped is closed when Run returns.
	stopped chan struct{}
}

// outboundMsg goes to every connection of userID, and to every client
// watching topic when topic is set.
type outboundMsg struct {
	userID primitive.ObjectID
	topic  *primitive.ObjectID
	data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan *outboundMsg, 256),
		stopped:    make(chan struct{}),
	}
}

// Run starts the Hub's main event loop and returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					h.drop(client)
				}
			}
			return

		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			metrics.WSConnections.Inc()
			logging.Debug().Str("user_id", client.userID.Hex()).Int("connections", len(conns)).Msg("ws client connected")

		case client := <-h.unregister:
			if h.drop(client) {
				logging.Debug().Str("user_id", client.userID.Hex()).Msg("ws client disconnected")
			}

		case msg := <-h.outbound:
			for client := range h.recipients(msg) {
				if !client.trySend(msg.data) {
					// Client buffer full - disconnect
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) recipients(msg *outboundMsg) map[*Client]struct{} {
	out := make(map[*Client]struct{})
	if !msg.userID.IsZero() {
		for client := range h.clients[msg.userID] {
			out[client] = struct{}{}
		}
	}
	if msg.topic != nil {
		for _, conns := range h.clients {
			for client := range conns {
				if client.IsWatching(*msg.topic) {
					out[client] = struct{}{}
				}
			}
		}
	}
	return out
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// drop removes client and closes its channels. It reports whether the client
// was still registered.
func (h *Hub) drop(client *Client) bool {
	conns, ok := h.clients[client.userID]
	if !ok {
		return false
	}
	if _, ok := conns[client]; !ok {
		return false
	}

	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	client.close()
	metrics.WSConnections.Dec()
	return true
}

// SendToUser delivers an event to every connection of a user.
func (h *Hub) SendToUser(userID primitive.ObjectID, event *Event) {
	h.send(userID, nil, event)
}

// SendToUserAndWatchers delivers an event to a user and to every client
// watching topic.
func (h *Hub) SendToUserAndWatchers(userID, topic primitive.ObjectID, event *Event) {
	h.send(userID, &topic, event)
}

// SendToWatchers delivers an event only to clients watching topic.
func (h *Hub) SendToWatchers(topic primitive.ObjectID, event *Event) {
	h.send(primitive.NilObjectID, &topic, event)
}

func (h *Hub) send(userID primitive.ObjectID, topic *primitive.ObjectID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Str("type", event.Type).Msg("ws hub: marshal error")
		return
	}

	select {
	case h.outbound <- &outboundMsg{userID: userID, topic: topic, data: data}:
	default:
		logging.Warn().Str("type", event.Type).Msg("ws hub: outbound queue full, event dropped")
	}
}
