package handlers

import (
	"net/http"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "channelId")
	if !ok {
		return
	}

	result, err := h.subscriptionService.Toggle(r.Context(), middleware.GetUserID(r.Context()), channelID)
	if err != nil {
		writeServiceError(w, r, "toggle subscription", err)
		return
	}

	message := "Unsubscribed successfully"
	if result.Subscribed {
		message = "Subscribed successfully"
	}
	response.JSON(w, http.StatusOK, result, message)
}

func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "channelId")
	if !ok {
		return
	}

	subscribers, err := h.subscriptionService.Subscribers(r.Context(), channelID)
	if err != nil {
		writeServiceError(w, r, "list subscribers", err)
		return
	}

	if subscribers == nil {
		subscribers = []domain.ChannelSubscriber{}
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"subscribers":      subscribers,
		"totalSubscribers": len(subscribers),
	}, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	subscriberID, ok := pathID(w, r, "subscriberId")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.SubscribedChannels(r.Context(), subscriberID)
	if err != nil {
		writeServiceError(w, r, "list subscribed channels", err)
		return
	}

	if channels == nil {
		channels = []domain.SubscribedChannel{}
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"subscribedChannels": channels,
		"totalSubscriptions": len(channels),
	}, "Subscribed channels fetched successfully")
}
