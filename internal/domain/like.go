package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LikeKind string

const (
	LikeKindVideo   LikeKind = "video"
	LikeKindComment LikeKind = "comment"
	LikeKindTweet   LikeKind = "tweet"
)

func (k LikeKind) Valid() bool {
	switch k {
	case LikeKindVideo, LikeKindComment, LikeKindTweet:
		return true
	}
	return false
}

// LikeTarget names exactly one likeable resource.
type LikeTarget struct {
	Kind LikeKind           `json:"kind" bson:"kind"`
	ID   primitive.ObjectID `json:"id" bson:"id"`
}

type Like struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	LikedBy   primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	Target    LikeTarget         `json:"target" bson:"target"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type LikedVideo struct {
	Video   VideoWithOwner `json:"video" bson:"video"`
	LikedAt time.Time      `json:"likedAt" bson:"likedAt"`
}
