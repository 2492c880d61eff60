package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChannelInfo struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	Fullname   string             `json:"fullname" bson:"fullname"`
	Avatar     string             `json:"avatar" bson:"avatar"`
	CoverImage string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// ChannelStats totals cover every video the channel owns, published or not.
type ChannelStats struct {
	Subscribers int         `json:"subscribers" bson:"subscribers"`
	Videos      int         `json:"videosCount" bson:"videosCount"`
	Views       int64       `json:"views" bson:"views"`
	Likes       int64       `json:"likes" bson:"likes"`
	ChannelInfo ChannelInfo `json:"channelInfo" bson:"channelInfo"`
}
