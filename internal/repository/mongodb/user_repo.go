package mongodb

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/metrics"
)

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(database.UsersCollection)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}
	return insertOne(ctx, r.coll, user)
}

func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return findOne[domain.User](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

// GetByEmailOrUsername matches either field; empty arguments are ignored.
func (r *UserRepo) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	var or bson.A
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: strings.ToLower(email)}})
	}
	if username != "" {
		or = append(or, bson.D{{Key: "username", Value: strings.ToLower(username)}})
	}
	if len(or) == 0 {
		return nil, nil
	}
	return findOne[domain.User](ctx, r.coll, bson.D{{Key: "$or", Value: or}})
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) (err error) {
	defer metrics.ObserveStore(r.coll.Name(), "update", time.Now(), &err)

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "refreshToken", Value: token}}}}
	if token == "" {
		update = bson.D{{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: 1}}}}
	}
	_, err = r.coll.UpdateByID(ctx, id, update)
	return err
}

func (r *UserRepo) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) (err error) {
	defer metrics.ObserveStore(r.coll.Name(), "update", time.Now(), &err)

	_, err = r.coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: hash},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}})
	return err
}

func (r *UserRepo) UpdateAccount(ctx context.Context, id primitive.ObjectID, fullname, email string) (*domain.User, error) {
	return r.set(ctx, id, bson.D{
		{Key: "fullname", Value: fullname},
		{Key: "email", Value: strings.ToLower(email)},
	})
}

func (r *UserRepo) SetAvatar(ctx context.Context, id primitive.ObjectID, url string) (*domain.User, error) {
	return r.set(ctx, id, bson.D{{Key: "avatar", Value: url}})
}

func (r *UserRepo) SetCoverImage(ctx context.Context, id primitive.ObjectID, url string) (*domain.User, error) {
	if url == "" {
		return findOneAndUpdate[domain.User](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, bson.D{
			{Key: "$unset", Value: bson.D{{Key: "coverImage", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
		})
	}
	return r.set(ctx, id, bson.D{{Key: "coverImage", Value: url}})
}

func (r *UserRepo) set(ctx context.Context, id primitive.ObjectID, fields bson.D) (*domain.User, error) {
	fields = append(fields, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
	return findOneAndUpdate[domain.User](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: fields}})
}

func (r *UserRepo) PushWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) (err error) {
	defer metrics.ObserveStore(r.coll.Name(), "update", time.Now(), &err)

	_, err = r.coll.UpdateByID(ctx, userID, watchHistoryUpdate(videoID))
	return err
}

func (r *UserRepo) GetWatchHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.VideoWithOwner, error) {
	type history struct {
		WatchHistory []domain.VideoWithOwner `bson:"watchHistory"`
	}

	h, err := aggregateOne[history](ctx, r.coll, watchHistoryPipeline(userID))
	if err != nil || h == nil {
		return nil, err
	}
	if h.WatchHistory == nil {
		return []domain.VideoWithOwner{}, nil
	}
	return h.WatchHistory, nil
}

func (r *UserRepo) GetChannelProfile(ctx context.Context, username string, viewerID primitive.ObjectID) (*domain.ChannelProfile, error) {
	return aggregateOne[domain.ChannelProfile](ctx, r.coll, channelProfilePipeline(username, viewerID))
}
