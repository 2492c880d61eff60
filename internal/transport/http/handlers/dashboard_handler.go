package handlers

import (
	"net/http"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/service"
	"github.com/vedran77/vidtube/internal/transport/http/middleware"
	"github.com/vedran77/vidtube/internal/transport/http/response"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "channel stats", err)
		return
	}

	response.JSON(w, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.dashboardService.Videos(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, "channel videos", err)
		return
	}

	if videos == nil {
		videos = []domain.Video{}
	}
	response.JSON(w, http.StatusOK, videos, "Channel videos fetched successfully")
}
