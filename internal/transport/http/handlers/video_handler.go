package handlers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type VideoHandler struct {
	videoService *service.VideoService
	uploads      *Uploader
	pager        Pager
}

func NewVideoHandler(videoService *service.VideoService, uploads *Uploader, pager Pager) *VideoHandler {
	return &VideoHandler{videoService: videoService, uploads: uploads, pager: pager}
}

type videoListQuery struct {
	Query    string `json:"query" validate:"max=200"`
	SortBy   string `json:"sortBy" validate:"omitempty,oneof=createdAt views duration title"`
	SortType string `json:"sortType" validate:"omitempty,oneof=asc desc"`
	UserID   string `json:"userId" validate:"omitempty,objectid"`
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := videoListQuery{
		Query:    q.Get("query"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		UserID:   q.Get("userId"),
	}
	if !validate(w, &params) {
		return
	}

	query := domain.VideoQuery{
		Page:      h.pager.Page(r),
		Search:    params.Query,
		SortBy:    params.SortBy,
		Ascending: params.SortType == "asc",
	}
	if params.UserID != "" {
		ownerID, _ := primitive.ObjectIDFromHex(params.UserID)
		query.OwnerID = &ownerID
	}

	videos, err := h.videoService.List(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, "list videos", err)
		return
	}

	if videos == nil {
		videos = []domain.VideoWithOwner{}
	}
	response.JSON(w, http.StatusOK, map[string]any{"videos": videos}, "Videos fetched successfully")
}

func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if !h.uploads.parseForm(w, r) {
		return
	}
	defer cleanupForm(r)

	input := service.PublishVideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if raw := r.FormValue("duration"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "duration must be a number of seconds")
			return
		}
		input.Duration = d
	}
	if !validate(w, &input) {
		return
	}

	paths, err := h.uploads.spoolAll(r, "videoFile", "thumbnail")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer cleanup(paths...)
	input.VideoPath, input.ThumbnailPath = paths[0], paths[1]

	video, err := h.videoService.Publish(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, r, "publish video", err)
		return
	}

	response.JSON(w, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.Get(r.Context(), middleware.GetUserID(r.Context()), videoID)
	if err != nil {
		writeServiceError(w, r, "get video", err)
		return
	}

	response.JSON(w, http.StatusOK, video, "Video fetched successfully")
}

func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	if !h.uploads.parseForm(w, r) {
		return
	}
	defer cleanupForm(r)

	var input service.UpdateVideoInput
	if vals, ok := r.MultipartForm.Value["title"]; ok && len(vals) > 0 {
		input.Title = &vals[0]
	}
	if vals, ok := r.MultipartForm.Value["description"]; ok && len(vals) > 0 {
		input.Description = &vals[0]
	}
	if !validate(w, &input) {
		return
	}

	path, err := h.uploads.spool(r, "thumbnail")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer cleanup(path)
	input.ThumbnailPath = path

	video, err := h.videoService.Update(r.Context(), userID, videoID, input)
	if err != nil {
		writeServiceError(w, r, "update video", err)
		return
	}

	response.JSON(w, http.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	if err := h.videoService.Delete(r.Context(), middleware.GetUserID(r.Context()), videoID); err != nil {
		writeServiceError(w, r, "delete video", err)
		return
	}

	response.JSON(w, http.StatusOK, struct{}{}, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(r.Context(), middleware.GetUserID(r.Context()), videoID)
	if err != nil {
		writeServiceError(w, r, "toggle publish", err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"isPublished": video.IsPublished}, "Video publish status toggled")
}
