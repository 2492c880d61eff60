package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Content   string             `json:"content" bson:"content"`
	Video     primitive.ObjectID `json:"video" bson:"video"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CommentWithOwner struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Content    string             `json:"content" bson:"content"`
	Video      primitive.ObjectID `json:"video" bson:"video"`
	Owner      *UserSummary       `json:"owner,omitempty" bson:"owner,omitempty"`
	LikesCount int                `json:"likesCount" bson:"likesCount"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}
