package ws

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"nhooyr.io/websocket"

	"github.com/vedran77/vidtube/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID primitive.ObjectID

	// watching tracks the videos whose comment stream this client follows.
	watching map[primitive.ObjectID]struct{}
	mu       sync.RWMutex

	send chan []byte
	done chan struct{}

	// closeMu guards closed and the close of send and done.
	closeMu sync.Mutex
	closed  bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID primitive.ObjectID) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		userID:   userID,
		watching: make(map[primitive.ObjectID]struct{}),
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

func (c *Client) IsWatching(videoID primitive.ObjectID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.watching[videoID]
	return ok
}

func (c *Client) Watch(videoID primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watching[videoID] = struct{}{}
}

func (c *Client) Unwatch(videoID primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.watching, videoID)
}

// ReadPump reads messages from the WebSocket until the connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				logging.Debug().Str("user_id", c.userID.Hex()).Msg("ws: client closed connection")
			} else {
				logging.Debug().Err(err).Str("user_id", c.userID.Hex()).Msg("ws: read error")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			c.sendError("INVALID_EVENT", "event must be a JSON object")
			continue
		}
		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				logging.Debug().Err(err).Str("user_id", c.userID.Hex()).Msg("ws: write error")
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				logging.Debug().Err(err).Str("user_id", c.userID.Hex()).Msg("ws: ping error")
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeVideoWatch, EventTypeVideoUnwatch:
		var p WatchPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.VideoID.IsZero() {
			c.sendError("INVALID_PAYLOAD", "videoId required for "+event.Type)
			return
		}
		if event.Type == EventTypeVideoWatch {
			c.Watch(p.VideoID)
		} else {
			c.Unwatch(p.VideoID)
		}

	case EventTypePing:
		c.enqueue(&Event{Type: EventTypePong})

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.enqueue(evt)
}

// enqueue replies on this connection only. It is a no-op once the hub has
// dropped the client.
func (c *Client) enqueue(evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	c.trySend(data)
}

// trySend queues data without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) trySend(data []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	close(c.done)
}
