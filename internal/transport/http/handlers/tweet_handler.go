package handlers

import (
	"net/http"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.TweetInput
	if !decodeJSON(w, r, &input) {
		return
	}

	tweet, err := h.tweetService.Create(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		writeServiceError(w, r, "create tweet", err)
		return
	}

	response.JSON(w, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	tweets, err := h.tweetService.ListByOwner(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "list tweets", err)
		return
	}

	if tweets == nil {
		tweets = []domain.TweetWithOwner{}
	}
	response.JSON(w, http.StatusOK, tweets, "Tweets fetched successfully")
}

func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	tweetID, ok := pathID(w, r, "tweetId")
	if !ok {
		return
	}

	var input service.TweetInput
	if !decodeJSON(w, r, &input) {
		return
	}

	tweet, err := h.tweetService.Update(r.Context(), middleware.GetUserID(r.Context()), tweetID, input)
	if err != nil {
		writeServiceError(w, r, "update tweet", err)
		return
	}

	response.JSON(w, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tweetID, ok := pathID(w, r, "tweetId")
	if !ok {
		return
	}

	tweet, err := h.tweetService.Delete(r.Context(), middleware.GetUserID(r.Context()), tweetID)
	if err != nil {
		writeServiceError(w, r, "delete tweet", err)
		return
	}

	response.JSON(w, http.StatusOK, tweet, "Tweet deleted successfully")
}
