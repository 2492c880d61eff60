package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/repository"
)

type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

func (s *DashboardService) Stats(ctx context.Context, channelID primitive.ObjectID) (*domain.ChannelStats, error) {
	stats, err := s.dashboardRepo.ChannelStats(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, ErrChannelNotFound
	}
	return stats, nil
}

// Videos lists the channel's published videos, newest first.
func (s *DashboardService) Videos(ctx context.Context, channelID primitive.ObjectID) ([]domain.Video, error) {
	return s.dashboardRepo.ChannelVideos(ctx, channelID)
}
