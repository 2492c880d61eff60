package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	Fullname     string               `json:"fullname" bson:"fullname"`
	Avatar       string               `json:"avatar" bson:"avatar"`
	CoverImage   string               `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	WatchHistory []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"`
	PasswordHash string               `json:"-" bson:"password"`
	RefreshToken string               `json:"-" bson:"refreshToken,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the only shape in which a user is embedded into another
// resource.
type UserSummary struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Fullname string             `json:"fullname" bson:"fullname"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

type ChannelProfile struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	Username          string             `json:"username" bson:"username"`
	Email             string             `json:"email" bson:"email"`
	Fullname          string             `json:"fullname" bson:"fullname"`
	Avatar            string             `json:"avatar" bson:"avatar"`
	CoverImage        string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	SubscribersCount  int                `json:"subscribersCount" bson:"subscribersCount"`
	SubscribedToCount int                `json:"channelsSubscribedToCount" bson:"channelsSubscribedToCount"`
	IsSubscribed      bool               `json:"isSubscribed" bson:"isSubscribed"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
}

// MaxWatchHistory bounds the number of entries kept per user.
const MaxWatchHistory = 100
