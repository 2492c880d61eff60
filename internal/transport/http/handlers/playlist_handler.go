package handlers

import (
	"net/http"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePlaylistInput
	if !decodeJSON(w, r, &input) {
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		writeServiceError(w, r, "create playlist", err)
		return
	}

	response.JSON(w, http.StatusCreated, playlist, "Playlist created successfully")
}

func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.Get(r.Context(), playlistID)
	if err != nil {
		writeServiceError(w, r, "get playlist", err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	playlists, err := h.playlistService.ListByOwner(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "list playlists", err)
		return
	}

	if playlists == nil {
		playlists = []domain.PlaylistDetail{}
	}
	response.JSON(w, http.StatusOK, playlists, "User playlists fetched successfully")
}

func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	var input service.UpdatePlaylistInput
	if !decodeJSON(w, r, &input) {
		return
	}

	playlist, err := h.playlistService.Update(r.Context(), middleware.GetUserID(r.Context()), playlistID, input)
	if err != nil {
		writeServiceError(w, r, "update playlist", err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	if err := h.playlistService.Delete(r.Context(), middleware.GetUserID(r.Context()), playlistID); err != nil {
		writeServiceError(w, r, "delete playlist", err)
		return
	}

	response.JSON(w, http.StatusOK, struct{}{}, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.AddVideo(r.Context(), middleware.GetUserID(r.Context()), playlistID, videoID)
	if err != nil {
		writeServiceError(w, r, "add video to playlist", err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Video added to playlist")
}

func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.RemoveVideo(r.Context(), middleware.GetUserID(r.Context()), playlistID, videoID)
	if err != nil {
		writeServiceError(w, r, "remove video from playlist", err)
		return
	}

	response.JSON(w, http.StatusOK, playlist, "Video removed from playlist")
}
