package ws

import (
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeVideoWatch   = "video.watch"
	EventTypeVideoUnwatch = "video.unwatch"
	EventTypePing         = "ping"
)

// Event types - Server → Client
const (
	EventTypeLikeNew         = "like.new"
	EventTypeSubscriptionNew = "subscription.new"
	EventTypeCommentNew      = "comment.new"
	EventTypePong            = "pong"
	EventTypeError           = "error"
)

// Event is the base envelope for all WebSocket messages. Topic is the video
// an event belongs to, when there is one.
type Event struct {
	Type      string              `json:"type"`
	Topic     *primitive.ObjectID `json:"topic,omitempty"`
	Payload   json.RawMessage     `json:"payload,omitempty"`
	Timestamp int64               `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type WatchPayload struct {
	VideoID primitive.ObjectID `json:"videoId"`
}

// --- Server → Client payloads ---

type LikePayload struct {
	domain.Like
}

type SubscriptionPayload struct {
	domain.Subscription
}

type CommentPayload struct {
	domain.Comment
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, topic *primitive.ObjectID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Topic:     topic,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
