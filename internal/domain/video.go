package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Video struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	VideoFile   string             `json:"videoFile" bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration" bson:"duration"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VideoWithOwner is a video whose owner reference has been resolved to a
// summary. Owner is nil when the owning user no longer exists.
type VideoWithOwner struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	VideoFile   string             `json:"videoFile" bson:"videoFile"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	Owner       *UserSummary       `json:"owner,omitempty" bson:"owner,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Duration    float64            `json:"duration" bson:"duration"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type VideoDetail struct {
	VideoWithOwner `bson:",inline"`
	LikesCount     int  `json:"likesCount" bson:"likesCount"`
	IsLiked        bool `json:"isLiked" bson:"isLiked"`
}

// Sortable video fields accepted by listings.
const (
	VideoSortCreatedAt = "createdAt"
	VideoSortViews     = "views"
	VideoSortDuration  = "duration"
	VideoSortTitle     = "title"
)

func IsVideoSortField(field string) bool {
	switch field {
	case VideoSortCreatedAt, VideoSortViews, VideoSortDuration, VideoSortTitle:
		return true
	}
	return false
}

type VideoQuery struct {
	Page Page
	// Search matches title or description, case-insensitive.
	Search    string
	SortBy    string
	Ascending bool
	OwnerID   *primitive.ObjectID
}
