package ws

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/logging"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyLike(recipient primitive.ObjectID, like *domain.Like) {
	var topic *primitive.ObjectID
	if like.Target.Kind == domain.LikeKindVideo {
		topic = &like.Target.ID
	}
	evt, err := NewEvent(EventTypeLikeNew, topic, LikePayload{Like: *like})
	if err != nil {
		logging.Error().Err(err).Msg("ws notifier: marshal error")
		return
	}
	n.hub.SendToUser(recipient, evt)
}

func (n *HubNotifier) NotifySubscription(sub *domain.Subscription) {
	evt, err := NewEvent(EventTypeSubscriptionNew, nil, SubscriptionPayload{Subscription: *sub})
	if err != nil {
		logging.Error().Err(err).Msg("ws notifier: marshal error")
		return
	}
	n.hub.SendToUser(sub.Channel, evt)
}

// NotifyComment reaches the video owner and everyone watching the video. The
// owner gets no direct copy of their own comment.
func (n *HubNotifier) NotifyComment(recipient primitive.ObjectID, comment *domain.Comment) {
	evt, err := NewEvent(EventTypeCommentNew, &comment.Video, CommentPayload{Comment: *comment})
	if err != nil {
		logging.Error().Err(err).Msg("ws notifier: marshal error")
		return
	}
	if recipient == comment.Owner {
		n.hub.SendToWatchers(comment.Video, evt)
		return
	}
	n.hub.SendToUserAndWatchers(recipient, comment.Video, evt)
}
