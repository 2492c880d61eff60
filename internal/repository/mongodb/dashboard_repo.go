package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

type DashboardRepo struct {
	users  *mongo.Collection
	videos *mongo.Collection
}

func NewDashboardRepo(db *mongo.Database) *DashboardRepo {
	return &DashboardRepo{
		users:  db.Collection(database.UsersCollection),
		videos: db.Collection(database.VideosCollection),
	}
}

func (r *DashboardRepo) ChannelStats(ctx context.Context, channelID primitive.ObjectID) (*domain.ChannelStats, error) {
	return aggregateOne[domain.ChannelStats](ctx, r.users, channelStatsPipeline(channelID))
}

func (r *DashboardRepo) ChannelVideos(ctx context.Context, channelID primitive.ObjectID) ([]domain.Video, error) {
	return aggregate[domain.Video](ctx, r.videos, channelVideosPipeline(channelID))
}
