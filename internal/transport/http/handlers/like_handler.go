package handlers

import (
	"net/http"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type LikeHandler struct {
	likeService *service.LikeService
	pager       Pager
}

func NewLikeHandler(likeService *service.LikeService, pager Pager) *LikeHandler {
	return &LikeHandler{likeService: likeService, pager: pager}
}

func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.LikeKindVideo, "videoId")
}

func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.LikeKindComment, "commentId")
}

func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.LikeKindTweet, "tweetId")
}

// toggle answers 201 when a like was created and 200 when one was removed.
func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind domain.LikeKind, param string) {
	targetID, ok := pathID(w, r, param)
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(r.Context(), middleware.GetUserID(r.Context()), domain.LikeTarget{Kind: kind, ID: targetID})
	if err != nil {
		writeServiceError(w, r, "toggle "+string(kind)+" like", err)
		return
	}

	if result.Liked {
		response.JSON(w, http.StatusCreated, result, "Liked "+string(kind))
		return
	}
	response.JSON(w, http.StatusOK, result, "Unliked "+string(kind))
}

func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.likeService.LikedVideos(r.Context(), middleware.GetUserID(r.Context()), h.pager.Page(r))
	if err != nil {
		writeServiceError(w, r, "liked videos", err)
		return
	}

	if videos == nil {
		videos = []domain.LikedVideo{}
	}
	response.JSON(w, http.StatusOK, videos, "Liked videos fetched successfully")
}
