package mongodb

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

func direction(ascending bool) int {
	if ascending {
		return 1
	}
	return -1
}

func publishedVideosPipeline(q domain.VideoQuery) mongo.Pipeline {
	match := bson.D{{Key: "isPublished", Value: true}}
	if q.OwnerID != nil {
		match = append(match, bson.E{Key: "owner", Value: *q.OwnerID})
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		match = append(match, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}

	sortBy := q.SortBy
	if !domain.IsVideoSortField(sortBy) {
		sortBy = domain.VideoSortCreatedAt
	}

	return NewPipeline().
		Match(match).
		LookupOne(userSummaryLookup("owner")).
		Sort(bson.D{{Key: sortBy, Value: direction(q.Ascending)}}).
		Paginate(q.Page).
		Stages()
}

func videoWithOwnerPipeline(id primitive.ObjectID) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: "_id", Value: id}}).
		LookupOne(userSummaryLookup("owner")).
		Stages()
}

func videoDetailPipeline(id, viewerID primitive.ObjectID) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: "_id", Value: id}}).
		LookupOne(userSummaryLookup("owner")).
		Lookup(likesLookup(domain.LikeKindVideo)).
		AddFields(bson.D{
			{Key: "likesCount", Value: sizeOf("likes")},
			{Key: "isLiked", Value: contains(viewerID, "likes.likedBy")},
		}).
		Project(bson.D{{Key: "likes", Value: 0}}).
		Stages()
}

func videoCommentsPipeline(videoID primitive.ObjectID, page domain.Page) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: "video", Value: videoID}}).
		LookupOne(userSummaryLookup("owner")).
		Lookup(likesLookup(domain.LikeKindComment)).
		AddFields(bson.D{{Key: "likesCount", Value: sizeOf("likes")}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Paginate(page).
		Project(bson.D{{Key: "likes", Value: 0}}).
		Stages()
}

func likedVideosPipeline(userID primitive.ObjectID, page domain.Page) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{
			{Key: "likedBy", Value: userID},
			{Key: "target.kind", Value: string(domain.LikeKindVideo)},
		}).
		Lookup(videosWithOwnerLookup("target.id", "video")).
		Unwind("video").
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Paginate(page).
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "video", Value: 1},
			{Key: "likedAt", Value: "$createdAt"},
		}).
		Stages()
}

// subscriptionSidePipeline lists one side of the subscriptions matching
// {matchField: id}, resolving the other side into a user summary.
func subscriptionSidePipeline(matchField string, id primitive.ObjectID, joinField string) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: matchField, Value: id}}).
		LookupOne(userSummaryLookup(joinField)).
		Match(bson.D{{Key: joinField, Value: bson.D{{Key: "$exists", Value: true}}}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: joinField, Value: 1},
			{Key: "subscribedAt", Value: "$createdAt"},
		}).
		Stages()
}

func channelSubscribersPipeline(channelID primitive.ObjectID) mongo.Pipeline {
	return subscriptionSidePipeline("channel", channelID, "subscriber")
}

func subscribedChannelsPipeline(subscriberID primitive.ObjectID) mongo.Pipeline {
	return subscriptionSidePipeline("subscriber", subscriberID, "channel")
}

func playlistJoins(p *Pipeline) *Pipeline {
	return p.
		LookupOne(userSummaryLookup("owner")).
		Lookup(videosWithOwnerLookup("videos", "videoDocs")).
		AddFields(bson.D{{Key: "videos", Value: orderedBy("videos", "videoDocs")}}).
		AddFields(bson.D{
			{Key: "totalVideos", Value: sizeOf("videos")},
			{Key: "totalViews", Value: sumOf("videos.views")},
		})
}

func playlistDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	p := NewPipeline().Match(bson.D{{Key: "_id", Value: id}})
	return playlistJoins(p).
		Project(bson.D{{Key: "videoDocs", Value: 0}}).
		Stages()
}

func ownerPlaylistsPipeline(ownerID primitive.ObjectID) mongo.Pipeline {
	p := NewPipeline().Match(bson.D{{Key: "owner", Value: ownerID}})
	return playlistJoins(p).
		Sort(bson.D{{Key: "updatedAt", Value: -1}}).
		Project(bson.D{{Key: "videoDocs", Value: 0}}).
		Stages()
}

func ownerTweetsPipeline(ownerID primitive.ObjectID) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: "owner", Value: ownerID}}).
		LookupOne(userSummaryLookup("owner")).
		Lookup(likesLookup(domain.LikeKindTweet)).
		AddFields(bson.D{{Key: "likesCount", Value: sizeOf("likes")}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Project(bson.D{{Key: "likes", Value: 0}}).
		Stages()
}

// channelProfilePipeline computes both subscription counts and the viewer's
// membership from the same joined sets.
func channelProfilePipeline(username string, viewerID primitive.ObjectID) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: "username", Value: strings.ToLower(username)}}).
		Lookup(Lookup{
			From:         database.SubscriptionsCollection,
			LocalField:   "_id",
			ForeignField: "channel",
			As:           "subscribers",
			Pipeline:     mongo.Pipeline{{{Key: "$project", Value: bson.D{{Key: "subscriber", Value: 1}}}}},
		}).
		Lookup(Lookup{
			From:         database.SubscriptionsCollection,
			LocalField:   "_id",
			ForeignField: "subscriber",
			As:           "subscribedTo",
			Pipeline:     mongo.Pipeline{{{Key: "$project", Value: bson.D{{Key: "channel", Value: 1}}}}},
		}).
		AddFields(bson.D{
			{Key: "subscribersCount", Value: sizeOf("subscribers")},
			{Key: "channelsSubscribedToCount", Value: sizeOf("subscribedTo")},
			{Key: "isSubscribed", Value: contains(viewerID, "subscribers.subscriber")},
		}).
		Project(bson.D{
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "fullname", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "coverImage", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "channelsSubscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
			{Key: "createdAt", Value: 1},
		}).
		Stages()
}

func watchHistoryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{{Key: "_id", Value: userID}}).
		Lookup(videosWithOwnerLookup("watchHistory", "historyDocs")).
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "watchHistory", Value: orderedBy("watchHistory", "historyDocs")},
		}).
		Stages()
}

// watchHistoryUpdate moves videoID to the front of the user's history,
// removing any earlier occurrence and trimming to domain.MaxWatchHistory.
func watchHistoryUpdate(videoID primitive.ObjectID) mongo.Pipeline {
	rest := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$watchHistory", bson.A{}}}}},
		{Key: "as", Value: "v"},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$v", videoID}}}},
	}}}

	return mongo.Pipeline{{{Key: "$set", Value: bson.D{{Key: "watchHistory", Value: bson.D{{Key: "$slice", Value: bson.A{
		bson.D{{Key: "$concatArrays", Value: bson.A{bson.A{videoID}, rest}}},
		domain.MaxWatchHistory,
	}}}}}}}}
}

// channelStatsPipeline totals subscribers, videos, views and video likes
// for a channel in a single pass over the users collection.
func channelStatsPipeline(channelID primitive.ObjectID) mongo.Pipeline {
	videoTotals := NewPipeline().
		Lookup(likesLookup(domain.LikeKindVideo)).
		Project(bson.D{
			{Key: "views", Value: 1},
			{Key: "likesCount", Value: sizeOf("likes")},
		}).
		Stages()

	return NewPipeline().
		Match(bson.D{{Key: "_id", Value: channelID}}).
		Lookup(Lookup{
			From:         database.SubscriptionsCollection,
			LocalField:   "_id",
			ForeignField: "channel",
			As:           "subscribers",
			Pipeline:     mongo.Pipeline{{{Key: "$project", Value: bson.D{{Key: "_id", Value: 1}}}}},
		}).
		Lookup(Lookup{
			From:         database.VideosCollection,
			LocalField:   "_id",
			ForeignField: "owner",
			As:           "videos",
			Pipeline:     videoTotals,
		}).
		Project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "subscribers", Value: sizeOf("subscribers")},
			{Key: "videosCount", Value: sizeOf("videos")},
			{Key: "views", Value: sumOf("videos.views")},
			{Key: "likes", Value: sumOf("videos.likesCount")},
			{Key: "channelInfo", Value: bson.D{
				{Key: "_id", Value: "$_id"},
				{Key: "username", Value: "$username"},
				{Key: "email", Value: "$email"},
				{Key: "fullname", Value: "$fullname"},
				{Key: "avatar", Value: "$avatar"},
				{Key: "coverImage", Value: "$coverImage"},
				{Key: "createdAt", Value: "$createdAt"},
			}},
		}).
		Stages()
}

func channelVideosPipeline(channelID primitive.ObjectID) mongo.Pipeline {
	return NewPipeline().
		Match(bson.D{
			{Key: "owner", Value: channelID},
			{Key: "isPublished", Value: true},
		}).
		Sort(bson.D{{Key: "createdAt", Value: -1}}).
		Stages()
}
