package handlers

import (
	"net/http"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type CommentHandler struct {
	commentService *service.CommentService
	pager          Pager
}

func NewCommentHandler(commentService *service.CommentService, pager Pager) *CommentHandler {
	return &CommentHandler{commentService: commentService, pager: pager}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), videoID, h.pager.Page(r))
	if err != nil {
		writeServiceError(w, r, "list comments", err)
		return
	}

	if comments == nil {
		comments = []domain.CommentWithOwner{}
	}
	response.JSON(w, http.StatusOK, comments, "Comments fetched successfully")
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	var input service.CommentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	comment, err := h.commentService.Add(r.Context(), middleware.GetUserID(r.Context()), videoID, input)
	if err != nil {
		writeServiceError(w, r, "add comment", err)
		return
	}

	response.JSON(w, http.StatusCreated, comment, "Comment added successfully")
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	var input service.CommentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), middleware.GetUserID(r.Context()), commentID, input)
	if err != nil {
		writeServiceError(w, r, "update comment", err)
		return
	}

	response.JSON(w, http.StatusOK, comment, "Comment updated successfully")
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	comment, err := h.commentService.Delete(r.Context(), middleware.GetUserID(r.Context()), commentID)
	if err != nil {
		writeServiceError(w, r, "delete comment", err)
		return
	}

	response.JSON(w, http.StatusOK, comment, "Comment deleted successfully")
}
