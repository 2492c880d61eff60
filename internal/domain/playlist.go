package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Playlist struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Owner       primitive.ObjectID   `json:"owner" bson:"owner"`
	Videos      []primitive.ObjectID `json:"videos" bson:"videos"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Contains reports whether videoID is already part of the playlist.
func (p *Playlist) Contains(videoID primitive.ObjectID) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

type PlaylistDetail struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Owner       *UserSummary       `json:"owner,omitempty" bson:"owner,omitempty"`
	Videos      []VideoWithOwner   `json:"videos" bson:"videos"`
	TotalVideos int                `json:"totalVideos" bson:"totalVideos"`
	TotalViews  int64              `json:"totalViews" bson:"totalViews"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
